// Package keymap binds key names to timer commands. Bindings are
// bubbles/key bindings so the same map drives command lookup and the help
// line.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// Command is an action the input loop can take.
type Command int

const (
	// None means the key is not bound.
	None Command = iota
	// Quit requests shutdown.
	Quit
	// Toggle starts or pauses the countdown.
	Toggle
	// Reset restores the fixed session length and stops the countdown.
	Reset
)

// String returns a short name for the command.
func (c Command) String() string {
	switch c {
	case Quit:
		return "quit"
	case Toggle:
		return "toggle"
	case Reset:
		return "reset"
	default:
		return "none"
	}
}

// spacebar is how bubbletea names the space key.
const spacebar = " "

// Map holds one binding per command.
type Map struct {
	Toggle key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

// Default returns the standard bindings.
func Default() Map {
	return Map{
		Toggle: key.NewBinding(
			key.WithKeys("s", spacebar, "space"),
			key.WithHelp("s", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Bindings lists the key names for each command, as read from config.
// Empty lists keep the default binding.
type Bindings struct {
	Toggle []string
	Reset  []string
	Quit   []string
}

// FromBindings returns Default with any non-empty lists in b replacing the
// matching binding's keys. The help label becomes the first key.
func FromBindings(b Bindings) Map {
	m := Default()
	rebind(&m.Toggle, b.Toggle)
	rebind(&m.Reset, b.Reset)
	rebind(&m.Quit, b.Quit)
	return m
}

func rebind(binding *key.Binding, keys []string) {
	if len(keys) == 0 {
		return
	}
	desc := binding.Help().Desc
	label := keys[0]
	if label == spacebar {
		label = "space"
	}
	*binding = key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// Command returns the command bound to the named key, or None. Quit wins
// if a key is bound twice.
func (m Map) Command(name string) Command {
	switch {
	case matches(m.Quit, name):
		return Quit
	case matches(m.Toggle, name):
		return Toggle
	case matches(m.Reset, name):
		return Reset
	}
	return None
}

func matches(b key.Binding, name string) bool {
	if !b.Enabled() {
		return false
	}
	for _, k := range b.Keys() {
		if k == name {
			return true
		}
	}
	return false
}

// ShortHelp implements help.KeyMap.
func (m Map) ShortHelp() []key.Binding {
	return []key.Binding{m.Toggle, m.Reset, m.Quit}
}

// FullHelp implements help.KeyMap.
func (m Map) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}
