package tui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/keyfall/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// Every printable letter is gameplay input, so quitting is bound to ctrl+c
// only and navigation uses non-letter keys.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c":
		return core.ActionQuit, true
	case " ":
		return core.ActionShield, false
	case "enter":
		return core.ActionSkip, false
	case "esc":
		return core.ActionPause, false
	case "tab":
		return core.ActionBack, false
	}
	return core.ActionNone, false
}

// TypedRune returns the letter carried by msg, if any.
func (km *KeyMapper) TypedRune(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if !unicode.IsLetter(r) {
		return 0, false
	}
	return r, true
}

// MapKeyToFrame updates an input frame based on a key message.
// Enter doubles as restart so the model can start a new run after game over.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	if r, ok := km.TypedRune(msg); ok {
		frame.Type(r)
		return false
	}
	action, isQuit := km.MapKey(msg)
	switch action {
	case core.ActionNone:
	case core.ActionSkip:
		frame.Set(core.ActionSkip)
		frame.Set(core.ActionRestart)
	default:
		frame.Set(action)
	}
	return isQuit
}
