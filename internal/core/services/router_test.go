package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// stubTool records its input and returns a fixed reply.
type stubTool struct {
	reply  string
	inputs []string
}

func (s *stubTool) Run(_ context.Context, input string) string {
	s.inputs = append(s.inputs, input)
	return s.reply
}

type chatFixture struct {
	service   *ChatService
	llm       *mockLLM
	text      *mockIndex
	image     *mockIndex
	webSearch *stubTool
	generate  *stubTool
}

func newChatFixture(llm *mockLLM) *chatFixture {
	f := &chatFixture{
		llm:       llm,
		text:      &mockIndex{VectorIndex: memory.NewVectorIndex()},
		image:     &mockIndex{VectorIndex: memory.NewVectorIndex()},
		webSearch: &stubTool{reply: "web answer"},
		generate:  &stubTool{reply: "```tsx\n<Card/>\n```"},
	}
	f.service = NewChatService(
		&mockEmbedder{},
		llm,
		NewRetriever(f.text, f.image, 0),
		NewAnswerComposer(llm, nil, 0),
		NewToolRegistry(f.webSearch, f.generate),
		nil,
		0,
	)
	return f
}

// ==================== ParseToolDecision ====================

func TestParseToolDecision(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		kind  domain.DecisionKind
		tool  domain.ToolKind
		input string
	}{
		{"none", "none", domain.DecisionNone, "", ""},
		{"none padded upper", "  NONE\n", domain.DecisionNone, "", ""},
		{"empty", "", domain.DecisionNone, "", ""},
		{"web search", `{"tool":"web_search","input":"latest Go release"}`, domain.DecisionTool, domain.ToolWebSearch, "latest Go release"},
		{"generate ui", ` {"tool":"generate_ui","input":"a login form"} `, domain.DecisionTool, domain.ToolGenerateUI, "a login form"},
		{"object input kept raw", `{"tool":"generate_ui","input":{"kind":"form"}}`, domain.DecisionTool, domain.ToolGenerateUI, `{"kind":"form"}`},
		{"unknown tool", `{"tool":"calculator","input":"2+2"}`, domain.DecisionInvalid, "", ""},
		{"missing input", `{"tool":"web_search"}`, domain.DecisionInvalid, "", ""},
		{"null input", `{"tool":"web_search","input":null}`, domain.DecisionInvalid, "", ""},
		{"tool not string", `{"tool":7,"input":"x"}`, domain.DecisionInvalid, "", ""},
		{"malformed", `{"tool": "web_search"`, domain.DecisionInvalid, "", ""},
		{"prose", "I think web search would help", domain.DecisionInvalid, "", ""},
		{"array", `["web_search"]`, domain.DecisionInvalid, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseToolDecision(tt.raw)

			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.tool, d.Tool)
			assert.Equal(t, tt.input, d.Input)
			assert.Equal(t, tt.raw, d.Raw)
			if tt.kind == domain.DecisionInvalid {
				assert.ErrorIs(t, d.Err, domain.ErrParse)
			} else {
				assert.NoError(t, d.Err)
			}
		})
	}
}

func TestParseToolDecision_UnknownToolWrapsSentinel(t *testing.T) {
	d := ParseToolDecision(`{"tool":"calculator","input":"1"}`)
	assert.ErrorIs(t, d.Err, domain.ErrUnknownTool)
}

// ==================== Chat routing ====================

func TestChatService_Chat_EmptyMessage(t *testing.T) {
	f := newChatFixture(routingLLM("none", "answer"))

	_, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "   "})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.llm.promptCount())
}

func TestChatService_Chat_ModeOverride(t *testing.T) {
	tests := []struct {
		mode   domain.ChatMode
		source domain.Source
		reply  string
	}{
		{domain.ChatModeWebSearch, domain.SourceWebSearch, "web answer"},
		{"UI_Generator", domain.SourceUIGenerator, "```tsx\n<Card/>\n```"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			f := newChatFixture(routingLLM(`{"tool":"generate_ui","input":"x"}`, "rag"))

			result, err := f.service.Chat(context.Background(), domain.ChatRequest{
				Message: "what's new in Go?", Mode: tt.mode, DocID: "d1",
			})

			require.NoError(t, err)
			assert.Equal(t, tt.reply, result.Response)
			assert.Equal(t, tt.source, result.Source)
			assert.Equal(t, domain.ToolDecision{}, result.Decision)
			assert.Zero(t, f.llm.promptCount(), "no decision call under override")
			assert.Zero(t, f.text.queryCount(), "no retrieval under override")
			assert.Zero(t, f.image.queryCount())
		})
	}
}

func TestChatService_Chat_ModelChoosesTool(t *testing.T) {
	f := newChatFixture(routingLLM(`{"tool":"web_search","input":"go 1.24 release date"}`, "rag"))

	result, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "when was go 1.24 released?"})

	require.NoError(t, err)
	assert.Equal(t, "web answer", result.Response)
	assert.Equal(t, domain.SourceTool, result.Source)
	assert.Equal(t, domain.DecisionTool, result.Decision.Kind)
	assert.Equal(t, []string{"go 1.24 release date"}, f.webSearch.inputs)
	assert.Zero(t, f.text.queryCount())
}

func TestChatService_Chat_FallsThroughToRAG(t *testing.T) {
	decisions := []string{
		"none",
		"not json at all",
		`{"tool":"calculator","input":"1+1"}`,
		`{"tool":"web_search"}`,
	}

	for _, raw := range decisions {
		t.Run(raw, func(t *testing.T) {
			f := newChatFixture(routingLLM(raw, "grounded answer"))

			result, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "what is osmosis?"})

			require.NoError(t, err)
			assert.Equal(t, "grounded answer", result.Response)
			assert.Equal(t, domain.SourceRAG, result.Source)
			assert.True(t, result.Decision.FellThrough())
			assert.Equal(t, 1, f.text.queryCount())
			assert.Equal(t, 1, f.image.queryCount())
			assert.Empty(t, f.webSearch.inputs)
			assert.Empty(t, f.generate.inputs)
		})
	}
}

func TestChatService_Chat_DecisionLLMErrorFallsThrough(t *testing.T) {
	llm := &mockLLM{generate: func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "User query:") {
			return "", errLLM
		}
		return "answer", nil
	}}
	f := newChatFixture(llm)

	result, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "q"})

	require.NoError(t, err)
	assert.Equal(t, domain.SourceRAG, result.Source)
	assert.Equal(t, domain.DecisionInvalid, result.Decision.Kind)
	assert.ErrorIs(t, result.Decision.Err, errLLM)
}

func TestChatService_Chat_UnknownModeRoutesAutomatically(t *testing.T) {
	f := newChatFixture(routingLLM("none", "answer"))

	result, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "q", Mode: "telepathy"})

	require.NoError(t, err)
	assert.Equal(t, domain.SourceRAG, result.Source)
	assert.Equal(t, 2, f.llm.promptCount())
}

func TestChatService_Chat_RAGFailure(t *testing.T) {
	f := newChatFixture(routingLLM("none", ""))
	f.text.queryErr = errIndex

	_, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "q"})

	assert.ErrorIs(t, err, errIndex)
	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestChatService_Chat_ComposerFailure(t *testing.T) {
	llm := &mockLLM{generate: func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "User query:") {
			return "none", nil
		}
		return "", errLLM
	}}
	f := newChatFixture(llm)

	_, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "q"})

	assert.ErrorIs(t, err, errLLM)
}

func TestChatService_Decide_NoLLM(t *testing.T) {
	service := NewChatService(nil, nil, nil, nil, nil, nil, 0)

	d := service.Decide(context.Background(), "q")

	assert.Equal(t, domain.DecisionInvalid, d.Kind)
	assert.ErrorIs(t, d.Err, domain.ErrLLMUnavailable)
}

func TestChatService_Decide_UsesPromptTemplate(t *testing.T) {
	llm := routingLLM("none", "")
	f := newChatFixture(llm)

	f.service.Decide(context.Background(), "capital of France")

	require.Len(t, llm.prompts, 1)
	assert.True(t, strings.HasPrefix(llm.prompts[0], "User query: capital of France\n"))
	assert.Contains(t, llm.prompts[0], `{"tool":"name","input":"..."}`)
}

// ==================== Retriever ====================

func seedText(t *testing.T, index *memory.VectorIndex, docID string, contents ...string) {
	t.Helper()
	records := make([]domain.Record, len(contents))
	for i, c := range contents {
		records[i] = domain.Record{
			ID:       RecordID(docID, "seed", domain.RecordKindText, i),
			Vector:   letterVector(c),
			Metadata: domain.Metadata{Type: domain.RecordKindText, Content: c, DocID: docID},
		}
	}
	require.NoError(t, index.Upsert(context.Background(), records))
}

func TestRetriever_RetrieveText(t *testing.T) {
	text := memory.NewVectorIndex()
	seedText(t, text, "a", "aaaa", "abab", "zzzz")
	seedText(t, text, "b", "aaaa")
	r := NewRetriever(text, memory.NewVectorIndex(), 0)

	all, err := r.RetrieveText(context.Background(), letterVector("aaaa"), 2, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaa", "aaaa"}, all)

	scoped, err := r.RetrieveText(context.Background(), letterVector("aaaa"), 10, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaa", "abab", "zzzz"}, scoped)
}

func TestRetriever_RetrieveText_DefaultK(t *testing.T) {
	text := memory.NewVectorIndex()
	seedText(t, text, "a", "a1", "a2", "a3", "a4", "a5", "a6", "a7")
	r := NewRetriever(text, memory.NewVectorIndex(), 0)

	got, err := r.RetrieveText(context.Background(), letterVector("a"), 0, "")

	require.NoError(t, err)
	assert.Len(t, got, DefaultTextTopK)
}

func TestRetriever_RetrieveImages_SkipsMissingCaptions(t *testing.T) {
	image := memory.NewVectorIndex()
	require.NoError(t, image.Upsert(context.Background(), []domain.Record{
		{ID: "1", Vector: letterVector("cell"), Metadata: domain.Metadata{Type: domain.RecordKindImage, Caption: "a cell"}},
		{ID: "2", Vector: letterVector("cell"), Metadata: domain.Metadata{Type: domain.RecordKindImage}},
	}))
	r := NewRetriever(memory.NewVectorIndex(), image, 0)

	captions, err := r.RetrieveImages(context.Background(), letterVector("cell"), 4, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"a cell"}, captions)
}

func TestRetriever_Empty(t *testing.T) {
	r := NewRetriever(memory.NewVectorIndex(), memory.NewVectorIndex(), 0)

	texts, err := r.RetrieveText(context.Background(), letterVector("x"), 5, "")

	require.NoError(t, err)
	assert.Empty(t, texts)
}

func TestRetriever_NoIndex(t *testing.T) {
	r := NewRetriever(nil, nil, 0)

	_, err := r.RetrieveImages(context.Background(), letterVector("x"), 4, "")

	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

// ==================== Composer ====================

func TestAnswerComposer_ComposePrompt(t *testing.T) {
	c := NewAnswerComposer(nil, nil, 0)

	prompt := c.ComposePrompt("What is a cell?", []string{"chunk one", "chunk two"}, []string{"a plant cell", "a nucleus"})

	assert.Contains(t, prompt, "Use ONLY the text context and image descriptions below")
	assert.Contains(t, prompt, "If the answer is not in the context, say you don't know.")
	assert.Contains(t, prompt, "Text context:\nchunk one\nchunk two")
	assert.Contains(t, prompt, "Image descriptions (from similar figures or diagrams):\n- a plant cell\n- a nucleus")
	assert.True(t, strings.HasSuffix(prompt, "Question:\nWhat is a cell?"))
}

func TestAnswerComposer_ComposePrompt_NoCaptions(t *testing.T) {
	c := NewAnswerComposer(nil, nil, 0)

	prompt := c.ComposePrompt("q", nil, nil)

	assert.NotContains(t, prompt, "Image descriptions")
	assert.Contains(t, prompt, "Text context:\n\n\nQuestion:\nq")
	assert.Contains(t, prompt, "say you don't know")
}

func TestAnswerComposer_ComposePrompt_StoreOverride(t *testing.T) {
	store := &mockPromptStore{prompts: map[string]string{"rag_answer": "Q={query} T={text_context}"}}
	c := NewAnswerComposer(nil, store, 0)

	assert.Equal(t, "Q=why T=a\nb", c.ComposePrompt("why", []string{"a", "b"}, nil))
}

func TestAnswerComposer_Answer(t *testing.T) {
	llm := &mockLLM{generate: func(string) (string, error) { return "  verbatim reply ", nil }}
	c := NewAnswerComposer(llm, nil, 0)

	reply, err := c.Answer(context.Background(), "q", []string{"ctx"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "  verbatim reply ", reply)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "ctx")
}

func TestAnswerComposer_Answer_Errors(t *testing.T) {
	_, err := NewAnswerComposer(nil, nil, 0).Answer(context.Background(), "q", nil, nil)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	llm := &mockLLM{generate: func(string) (string, error) { return "", errLLM }}
	_, err = NewAnswerComposer(llm, nil, 0).Answer(context.Background(), "q", nil, nil)
	assert.ErrorIs(t, err, errLLM)
	assert.ErrorIs(t, err, domain.ErrProvider)
}
