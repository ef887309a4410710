package app

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/tomato/pkg/engine"
	"gitlab.com/tinyland/lab/tomato/pkg/keymap"
	"gitlab.com/tinyland/lab/tomato/pkg/timer"
	"gitlab.com/tinyland/lab/tomato/pkg/tui"
)

// Model is the bubbletea model. It holds the last snapshot it was sent and
// never mutates timer state itself.
type Model struct {
	view   *tui.View
	zones  *zone.Manager
	keys   keymap.Map
	events chan<- engine.Event

	snap   timer.Model
	width  int
	height int
	// dropped counts events discarded because the engine was not keeping up.
	dropped int
}

// NewModel returns a model that forwards input to events. zones may be nil
// when mouse support is off.
func NewModel(view *tui.View, zones *zone.Manager, keys keymap.Map, events chan<- engine.Event, initial timer.Model) Model {
	return Model{
		view:   view,
		zones:  zones,
		keys:   keys,
		events: events,
		snap:   initial,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SnapshotMsg:
		m.snap = msg.Snap

	case tea.KeyMsg:
		m.forward(engine.Event{Key: msg.String(), Kind: engine.Press})

	case tea.MouseMsg:
		if ev, ok := m.clickEvent(msg); ok {
			m.forward(ev)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	out := m.view.Render(m.snap, m.width, m.height)
	if m.zones != nil {
		out = m.zones.Scan(out)
	}
	return out
}

// forward hands ev to the engine without blocking the update loop.
func (m *Model) forward(ev engine.Event) {
	select {
	case m.events <- ev:
	default:
		m.dropped++
	}
}

// clickEvent maps a left click on a button to the first key of the
// matching binding. Releases map to Release events so the engine can
// ignore them.
func (m Model) clickEvent(msg tea.MouseMsg) (engine.Event, bool) {
	if m.zones == nil || msg.Button != tea.MouseButtonLeft {
		return engine.Event{}, false
	}

	var kind engine.Kind
	switch msg.Action {
	case tea.MouseActionPress:
		kind = engine.Press
	case tea.MouseActionRelease:
		kind = engine.Release
	default:
		return engine.Event{}, false
	}

	for _, target := range []struct {
		id   string
		keys []string
	}{
		{tui.ZoneToggle, m.keys.Toggle.Keys()},
		{tui.ZoneReset, m.keys.Reset.Keys()},
		{tui.ZoneQuit, m.keys.Quit.Keys()},
	} {
		if len(target.keys) == 0 {
			continue
		}
		if z := m.zones.Get(target.id); z != nil && z.InBounds(msg) {
			return engine.Event{Key: target.keys[0], Kind: kind}, true
		}
	}
	return engine.Event{}, false
}
