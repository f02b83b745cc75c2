package core

// Action represents a semantic game action, abstracted from physical key presses.
// Typed characters travel separately in InputFrame.Keys.
type Action int

const (
	ActionNone    Action = iota
	ActionShield         // Space - raise the force field
	ActionSkip           // Enter - skip a penalty or life-lost countdown
	ActionPause          // Esc - pause/unpause game
	ActionRestart        // Enter after game over - start a new run
	ActionBack           // Tab - leave the game view (scoreboard)
	ActionQuit           // Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionShield:
		return "Shield"
	case ActionSkip:
		return "Skip"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input collected between two simulation ticks.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool

	// Keys holds typed characters in arrival order.
	Keys []rune
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Type appends a typed character to this frame.
func (f *InputFrame) Type(r rune) {
	f.Keys = append(f.Keys, r)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions and keys for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Keys = f.Keys[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Keys = append([]rune(nil), f.Keys...)
	return clone
}
