// Package gqlschema summarizes an uploaded schema document for logging.
// Uploads may be SDL or an introspection JSON dump; neither is rejected.
package gqlschema

import (
	"encoding/json"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

type Format string

const (
	FormatSDL           Format = "sdl"
	FormatIntrospection Format = "introspection"
	FormatUnknown       Format = "unknown"
)

type Summary struct {
	Format   Format
	Types    int // User-defined types; zero unless Format is SDL
	HasQuery bool
	ParseErr string
}

// Inspect reports what kind of schema document s looks like.
func Inspect(s string) Summary {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return Summary{Format: FormatIntrospection}
	}

	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: s})
	if err != nil {
		return Summary{Format: FormatUnknown, ParseErr: err.Error()}
	}

	summary := Summary{Format: FormatSDL, HasQuery: schema.Query != nil}
	for _, def := range schema.Types {
		if !def.BuiltIn {
			summary.Types++
		}
	}
	return summary
}
