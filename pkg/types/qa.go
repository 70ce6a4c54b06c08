// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchMode selects the retrieval strategy for a question.
type SearchMode string

const (
	// SearchLocal scopes retrieval to entities and relationships near
	// the question's focal concepts.
	SearchLocal SearchMode = "local"

	// SearchGlobal scopes retrieval to corpus-wide community summaries.
	SearchGlobal SearchMode = "global"
)

// ParseSearchMode validates a mode string. The ok result is false for
// anything other than the two supported modes.
func ParseSearchMode(s string) (SearchMode, bool) {
	switch SearchMode(s) {
	case SearchLocal, SearchGlobal:
		return SearchMode(s), true
	}
	return "", false
}

// Question is one user query against the corpus index. It lives only for
// the handling of a single message.
type Question struct {
	Text string
	Mode SearchMode
}

// Answer is the engine's response to one Question. Context carries the
// retrieval context the engine used; it is opaque to graphchat and only
// surfaced for diagnostics.
type Answer struct {
	Text    string
	Context string
}

// WorkflowResult reports the outcome of one engine indexing workflow.
// A non-empty Errors slice means the workflow had failures the engine
// chose not to raise.
type WorkflowResult struct {
	Workflow string
	Errors   []string
}
