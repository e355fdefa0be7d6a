package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may embed defaults in the binary and let users
// override them with files on disk.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names. Placeholders use {name} syntax and are
// substituted with strings.NewReplacer by the consuming service.
const (
	// PromptRAGAnswer is the grounded answer prompt.
	// Placeholders: {text_context}, {images_section}, {query}.
	PromptRAGAnswer = "rag_answer"

	// PromptToolDecision asks the model whether a tool is needed.
	// Placeholders: {query}.
	PromptToolDecision = "tool_decision"

	// PromptWebSearchSystem is the system prompt for web answer synthesis.
	PromptWebSearchSystem = "web_search_system"

	// PromptWebSearchUser carries the question and search results.
	// Placeholders: {question}, {results}.
	PromptWebSearchUser = "web_search_user"

	// PromptGenerateUI asks for a self-contained UI component.
	// Placeholders: {spec}.
	PromptGenerateUI = "generate_ui"

	// PromptYouTubeSummary summarises a transcript.
	// Placeholders: {transcript}.
	PromptYouTubeSummary = "youtube_summary"

	// PromptCaption is the image captioning instruction.
	PromptCaption = "caption"
)

// AllPromptNames returns every well-known prompt name.
func AllPromptNames() []string {
	return []string{
		PromptRAGAnswer,
		PromptToolDecision,
		PromptWebSearchSystem,
		PromptWebSearchUser,
		PromptGenerateUI,
		PromptYouTubeSummary,
		PromptCaption,
	}
}
