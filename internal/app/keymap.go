package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/Akashdeep-Patra/pigit-go/internal/ui/components"
)

// KeyMap defines every binding the controller honours. Bindings are
// matched per mode, so one key may mean different things in different
// panels ("n" is next hunk in Diff and new branch in BranchList).
type KeyMap struct {
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding
	Back    key.Binding

	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Open     key.Binding
	Toggle   key.Binding
	StageAll key.Binding
	Discard  key.Binding
	Ignore   key.Binding
	Commit   key.Binding
	Branches key.Binding
	Select   key.Binding

	NextHunk key.Binding
	PrevHunk key.Binding

	Checkout  key.Binding
	NewBranch key.Binding

	Submit  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?", "f1"), key.WithHelp("?", "help")),
		Refresh: key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
		Back:    key.NewBinding(key.WithKeys("esc", "q", "h", "left"), key.WithHelp("esc", "back")),

		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/↓", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),

		Open:     key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter", "open diff")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "stage / unstage")),
		StageAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "stage all")),
		Discard:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "discard changes")),
		Ignore:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "add to .gitignore")),
		Commit:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "commit staged")),
		Branches: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "branches")),
		Select:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "select")),

		NextHunk: key.NewBinding(key.WithKeys("n", "tab"), key.WithHelp("n", "next hunk")),
		PrevHunk: key.NewBinding(key.WithKeys("N", "shift+tab"), key.WithHelp("N", "previous hunk")),

		Checkout:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "checkout")),
		NewBranch: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new branch")),

		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "commit")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
	}
}

// helpSections lists the bindings for the help overlay. describe expands a
// shell alias into its one-line description; it may be nil.
func helpSections(k KeyMap, describe func(string) string) []components.HelpSection {
	entry := func(b key.Binding, alias string) components.HelpEntry {
		h := b.Help()
		return components.HelpEntry{Key: h.Key, Desc: h.Desc, Alias: aliasText(alias, describe)}
	}
	return []components.HelpSection{
		{Title: "Navigation", Entries: []components.HelpEntry{
			entry(k.Up, ""), entry(k.Down, ""), entry(k.PageUp, ""), entry(k.PageDown, ""),
			entry(k.Home, ""), entry(k.End, ""),
		}},
		{Title: "Files", Entries: []components.HelpEntry{
			entry(k.Open, "wd"),
			entry(k.Toggle, "ia"),
			entry(k.StageAll, "ia"),
			entry(k.Discard, ""),
			entry(k.Ignore, ""),
			entry(k.Select, ""),
			entry(k.Commit, "c"),
			entry(k.Branches, "b"),
			entry(k.Refresh, "ws"),
		}},
		{Title: "Diff", Entries: []components.HelpEntry{
			entry(k.NextHunk, ""),
			entry(k.PrevHunk, ""),
			{Key: "space", Desc: "stage / unstage hunk", Alias: aliasText("iA", describe)},
		}},
		{Title: "Branches", Entries: []components.HelpEntry{
			entry(k.Checkout, "co"),
			entry(k.NewBranch, "b"),
		}},
		{Title: "Editors", Entries: []components.HelpEntry{
			entry(k.Submit, ""),
			{Key: "enter", Desc: "create branch"},
			{Key: "f1", Desc: "help while typing"},
		}},
		{Title: "General", Entries: []components.HelpEntry{
			entry(k.Confirm, ""), entry(k.Cancel, ""), entry(k.Back, ""), entry(k.Help, ""), entry(k.Quit, ""),
		}},
	}
}

func aliasText(alias string, describe func(string) string) string {
	if alias == "" || describe == nil {
		return ""
	}
	if d := describe(alias); d != "" {
		return alias + " = " + d
	}
	return ""
}
