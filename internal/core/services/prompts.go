package services

import (
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const (
	defaultRAGAnswerPrompt = `You are a helpful teaching assistant.
Use ONLY the text context and image descriptions below to answer the user's question.
If the answer is not in the context, say you don't know.

When you answer:
- Be clear and concise.
- Use simple language.
- Use bullet points when they make the answer easier to read.
- When possible, mention the section title or page number if it appears in the context you relied on.

Text context:
{text_context}{images_section}

Question:
{query}`

	defaultToolDecisionPrompt = `User query: {query}

If a tool is needed respond ONLY in JSON:
{"tool":"name","input":"..."}
Else respond: none`

	defaultWebSearchSystemPrompt = `You are a web research agent using Tavily search.

Your job is to use the provided Tavily search results to answer the user's question with the most accurate, up-to-date, and reliable information available.

Follow these rules strictly:

1. Prefer authoritative sources such as official websites, government portals, technical documentation, reputable news outlets, and academic or industry blogs.
2. Avoid low-quality SEO blogs and clickbait. Only rely on forums if no better sources are present in the provided results.
3. Base your answer only on the given search results. If they are insufficient or conflicting, say so explicitly.

Output format:
- First, a concise factual answer in 2-4 sentences.
- Then 3-5 bullet-point key findings.
- Then a short 'Sources:' list with titles and URLs.
- If information is uncertain or conflicting, mention that clearly.
`

	defaultWebSearchUserPrompt = `User question:
{question}

Tavily web search results:
{results}

Now write the answer following the required format.`

	defaultGenerateUIPrompt = `You are an expert frontend UI engineer.
Generate a single self-contained UI component based on this request:

{spec}

Constraints:
- Prefer React (TSX) suitable for a Next.js app
- Use simple className strings, no external UI libraries
- Include minimal inline styles or Tailwind-like utility classes
- Return code inside Markdown fences so it is easy to copy.
`

	defaultYouTubeSummaryPrompt = `Summarize the following YouTube video transcript in 5 concise bullet points:

{transcript}`

	defaultCaptionPrompt = "Describe this image concisely as if for a science textbook caption."
)

// DefaultPrompts returns the built-in prompt templates keyed by name.
// File-backed prompt stores seed their directory from this map.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptRAGAnswer:       defaultRAGAnswerPrompt,
		driven.PromptToolDecision:    defaultToolDecisionPrompt,
		driven.PromptWebSearchSystem: defaultWebSearchSystemPrompt,
		driven.PromptWebSearchUser:   defaultWebSearchUserPrompt,
		driven.PromptGenerateUI:      defaultGenerateUIPrompt,
		driven.PromptYouTubeSummary:  defaultYouTubeSummaryPrompt,
		driven.PromptCaption:         defaultCaptionPrompt,
	}
}

// prompts resolves templates from an optional store, falling back to defaults.
type prompts struct {
	store driven.PromptStore
}

// load returns the named template. Store errors fall back to the default.
func (p prompts) load(name string) string {
	if p.store != nil {
		if prompt, err := p.store.Load(name); err == nil && prompt != "" {
			return prompt
		}
	}
	return DefaultPrompts()[name]
}

// render loads the named template and substitutes {key} placeholders.
// Substitution is single-pass, so values containing braces are left intact.
func (p prompts) render(name string, kv ...string) string {
	tmpl := p.load(name)
	if len(kv) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", kv[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
