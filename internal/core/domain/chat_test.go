package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChatMode(t *testing.T) {
	assert.Equal(t, ChatModeWebSearch, ParseChatMode(" Web_Search "))
	assert.Equal(t, ChatModeAuto, ParseChatMode(""))
	assert.Equal(t, ChatMode("other"), ParseChatMode("other"))
}

func TestChatMode_OverrideTool(t *testing.T) {
	tests := []struct {
		mode     ChatMode
		tool     ToolKind
		source   Source
		override bool
	}{
		{ChatModeWebSearch, ToolWebSearch, SourceWebSearch, true},
		{ChatModeUIGenerator, ToolGenerateUI, SourceUIGenerator, true},
		{ChatModeAuto, "", "", false},
		{ChatModeRAG, "", "", false},
		{ChatModeYouTube, "", "", false},
		{ChatMode("generate_ui"), "", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			tool, source, ok := tt.mode.OverrideTool()
			assert.Equal(t, tt.override, ok)
			assert.Equal(t, tt.tool, tool)
			assert.Equal(t, tt.source, source)
		})
	}
}

func TestChatMode_IsKnown(t *testing.T) {
	assert.True(t, ChatModeRAG.IsKnown())
	assert.True(t, ChatModeYouTube.IsKnown())
	assert.False(t, ChatMode("bogus").IsKnown())
}

func TestToolKind(t *testing.T) {
	kind, ok := ParseToolKind("web_search")
	assert.True(t, ok)
	assert.Equal(t, ToolWebSearch, kind)

	_, ok = ParseToolKind("calculator")
	assert.False(t, ok)

	assert.Len(t, AllToolKinds(), 2)
	for _, k := range AllToolKinds() {
		assert.True(t, k.IsValid())
		assert.NotEqual(t, unknownDescription, k.Description())
	}
	assert.Equal(t, unknownDescription, ToolKind("x").Description())
}

func TestToolDecision_FellThrough(t *testing.T) {
	assert.True(t, ToolDecision{Kind: DecisionNone}.FellThrough())
	assert.True(t, ToolDecision{Kind: DecisionInvalid, Err: errors.New("x")}.FellThrough())
	assert.False(t, ToolDecision{Kind: DecisionTool, Tool: ToolGenerateUI}.FellThrough())
	assert.Equal(t, "invalid", DecisionInvalid.String())
}

func TestIngestReport(t *testing.T) {
	r := IngestReport{DocID: "d", TextChunks: 2}
	assert.False(t, r.Partial())
	assert.NoError(t, r.Err())

	r.Merge(IngestReport{Images: 1, Failures: []ItemFailure{{Item: "page 2", Err: errors.New("caption")}}})
	assert.Equal(t, 2, r.TextChunks)
	assert.Equal(t, 1, r.Images)
	assert.True(t, r.Partial())
	assert.ErrorContains(t, r.Err(), "page 2: caption")
}

func TestDeleteResult(t *testing.T) {
	assert.True(t, DeleteResult{DocID: "d"}.Complete())
	assert.False(t, DeleteResult{DocID: "d", Image: SubResult{Err: errors.New("down")}}.Complete())
}

func TestFailurePolicy_IsValid(t *testing.T) {
	assert.True(t, FailurePolicyAbort.IsValid())
	assert.True(t, FailurePolicyIsolate.IsValid())
	assert.False(t, FailurePolicy("retry").IsValid())
}
