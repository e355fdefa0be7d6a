package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordKind_IsValid(t *testing.T) {
	assert.True(t, RecordKindText.IsValid())
	assert.True(t, RecordKindImage.IsValid())
	assert.False(t, RecordKind("audio").IsValid())
	assert.Equal(t, "text", RecordKindText.String())
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		md      Metadata
		matches bool
	}{
		{
			name:    "empty filter matches untagged",
			filter:  Filter{},
			md:      Metadata{Type: RecordKindText},
			matches: true,
		},
		{
			name:    "empty filter matches tagged",
			filter:  Filter{},
			md:      Metadata{Type: RecordKindText, DocID: "a"},
			matches: true,
		},
		{
			name:    "doc filter matches same doc",
			filter:  Filter{DocID: "a"},
			md:      Metadata{DocID: "a"},
			matches: true,
		},
		{
			name:    "doc filter rejects other doc",
			filter:  Filter{DocID: "a"},
			md:      Metadata{DocID: "b"},
			matches: false,
		},
		{
			name:    "doc filter rejects untagged",
			filter:  Filter{DocID: "a"},
			md:      Metadata{},
			matches: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.filter.Matches(tt.md))
		})
	}
}

func TestFilter_IsEmpty(t *testing.T) {
	assert.True(t, Filter{}.IsEmpty())
	assert.False(t, Filter{DocID: "x"}.IsEmpty())
}
