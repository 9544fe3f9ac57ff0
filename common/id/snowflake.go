package id

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node    *snowflake.Node
	once    sync.Once
	initErr error
)

// Init sets up the process-wide generator for the given node. Only the first
// call has any effect; later calls return its result.
func Init(nodeID int64) error {
	once.Do(func() {
		node, initErr = snowflake.NewNode(nodeID)
		if initErr != nil {
			initErr = fmt.Errorf("snowflake node %d: %w", nodeID, initErr)
		}
	})
	return initErr
}

var errNotInitialized = errors.New("id: Init was not called")

// New returns a time-ordered int64 ID. IDs from the same node are strictly
// increasing, which history stores rely on to order records created within
// the same instant.
func New() int64 {
	if node == nil {
		panic(errNotInitialized)
	}
	return node.Generate().Int64()
}
