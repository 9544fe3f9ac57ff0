// Package prompt renders the instruction sent to the LLM for query generation.
package prompt

import (
	"bytes"
	"strings"
	"text/template"
)

const minFence = 3

var queryTemplate = template.Must(template.New("query").Parse(`You are an expert in GraphQL, tasked with writing GraphQL queries from a GraphQL schema and a user story.

GraphQL Schema:
{{.Fence}}graphql
{{.Schema}}
{{.Fence}}

User Story:
{{.Fence}}text
{{.UserStory}}
{{.Fence}}

Generate a GraphQL query that satisfies the requirements of the user story against the schema above.
Keep the query efficient and follow GraphQL best practices.
Only select fields that are relevant to the user story.
Return ONLY the GraphQL query without any explanations.
`))

type templateData struct {
	Fence     string
	Schema    string
	UserStory string
}

// Build returns the instruction for the given schema and user story. Both are
// embedded verbatim. Each block is fenced with a backtick run longer than any
// run inside either input, so input content cannot terminate a block.
func Build(schema, userStory string) string {
	data := templateData{
		Fence:     Fence(schema, userStory),
		Schema:    schema,
		UserStory: userStory,
	}

	var buf bytes.Buffer
	// Execute cannot fail: the template is static and the data is plain strings.
	_ = queryTemplate.Execute(&buf, data)
	return buf.String()
}

// Fence returns a backtick fence one longer than the longest backtick run in
// any of inputs, and at least three long.
func Fence(inputs ...string) string {
	longest := 0
	for _, in := range inputs {
		if n := longestRun(in, '`'); n > longest {
			longest = n
		}
	}
	n := longest + 1
	if n < minFence {
		n = minFence
	}
	return strings.Repeat("`", n)
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	return longest
}
