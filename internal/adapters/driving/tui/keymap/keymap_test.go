package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"Quit", km.Quit, []string{"ctrl+c"}},
		{"Help", km.Help, []string{"f1"}},
		{"Back", km.Back, []string{"esc"}},
		{"Send", km.Send, []string{"enter"}},
		{"Mode", km.Mode, []string{"tab"}},
		{"Scope", km.Scope, []string{"ctrl+o"}},
		{"Delete", km.Delete, []string{"ctrl+x"}},
		{"Up", km.Up, []string{"pgup", "ctrl+u"}},
		{"Down", km.Down, []string{"pgdown", "ctrl+d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding.Keys())
			assert.NotEmpty(t, tt.binding.Help().Key, "binding should have help key")
		})
	}
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	require.Len(t, bindings, 4)
	assert.Equal(t, km.Send, bindings[0])
	assert.Equal(t, km.Quit, bindings[3])
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.FullHelp()

	assert.Len(t, bindings, 3)    // 3 groups
	assert.Len(t, bindings[0], 4) // Send, Mode, Scope, Delete
	assert.Len(t, bindings[1], 2) // Up, Down
	assert.Len(t, bindings[2], 3) // Help, Back, Quit
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("tab", km.Mode))
	assert.True(t, Matches("ctrl+u", km.Up))
	assert.False(t, Matches("q", km.Quit))
	assert.False(t, Matches("?", km.Help))
	assert.False(t, Matches("down", km.Up))
}
