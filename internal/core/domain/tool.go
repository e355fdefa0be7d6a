package domain

// ToolKind is the closed set of tools the router can invoke.
// Adding a tool means adding a variant here and a case in the registry.
type ToolKind string

// Registered tools.
const (
	// ToolWebSearch searches the web and synthesises a sourced answer.
	ToolWebSearch ToolKind = "web_search"

	// ToolGenerateUI produces a self-contained UI component.
	ToolGenerateUI ToolKind = "generate_ui"
)

// AllToolKinds returns every registered tool.
func AllToolKinds() []ToolKind {
	return []ToolKind{ToolWebSearch, ToolGenerateUI}
}

// ParseToolKind maps a name to a registered tool.
func ParseToolKind(name string) (ToolKind, bool) {
	k := ToolKind(name)
	return k, k.IsValid()
}

// IsValid returns true if the tool is registered.
func (k ToolKind) IsValid() bool {
	switch k {
	case ToolWebSearch, ToolGenerateUI:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k ToolKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the tool.
func (k ToolKind) Description() string {
	switch k {
	case ToolWebSearch:
		return "Search the web for up-to-date information"
	case ToolGenerateUI:
		return "Generate a React UI component"
	default:
		return unknownDescription
	}
}

// DecisionKind is the outcome of the model-driven routing step.
type DecisionKind int

// Decision outcomes.
const (
	// DecisionNone means the model declined to use a tool.
	DecisionNone DecisionKind = iota

	// DecisionTool means a registered tool should be invoked.
	DecisionTool

	// DecisionInvalid means the response could not be used; Err says why.
	DecisionInvalid
)

// String returns the string representation.
func (k DecisionKind) String() string {
	switch k {
	case DecisionNone:
		return "none"
	case DecisionTool:
		return "tool"
	case DecisionInvalid:
		return "invalid"
	default:
		return unknownDescription
	}
}

// ToolDecision is the parsed result of the routing prompt.
// Invalid decisions fall through to RAG; Err is kept for inspection.
type ToolDecision struct {
	Kind  DecisionKind
	Tool  ToolKind
	Input string
	Raw   string
	Err   error
}

// FellThrough returns true if routing continues to RAG.
func (d ToolDecision) FellThrough() bool {
	return d.Kind != DecisionTool
}
