package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap groups the bindings of each screen in the comparison flow.
//
// Picker keys drive the playlist list, confirm keys answer the y/n prompt
// and result keys move between the common/only1/only2 sets.
type keyMap struct {
	pick    key.Binding
	back    key.Binding
	confirm key.Binding
	cancel  key.Binding
	nextSet key.Binding
	prevSet key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		pick:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose playlist")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "change first")),
		confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "compare")),
		cancel:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "pick again")),
		nextSet: key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab", "next set")),
		prevSet: key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab", "previous set")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new comparison")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpFor returns the bindings shown under the given screen.
func (k keyMap) helpFor(view ViewState, emptyLibrary bool) []key.Binding {
	switch view {
	case PickFirstView:
		if emptyLibrary {
			return []key.Binding{k.quit}
		}
		return []key.Binding{k.pick, k.quit}
	case PickSecondView:
		return []key.Binding{k.pick, k.back, k.quit}
	case ConfirmView:
		return []key.Binding{k.confirm, k.cancel, k.quit}
	case ResultView:
		return []key.Binding{k.nextSet, k.prevSet, k.restart, k.quit}
	default:
		return []key.Binding{k.quit}
	}
}
