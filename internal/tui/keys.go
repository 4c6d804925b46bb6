package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Toggle   key.Binding
	Edit     key.Binding
	EditAll  key.Binding
	AddEntry key.Binding
	AddNote  key.Binding
	Delete   key.Binding
	Mark     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Filter   key.Binding
	Save     key.Binding
	Reload   key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "enable/disable")),
		Edit:     key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		EditAll:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "$EDITOR")),
		AddEntry: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add entry")),
		AddNote:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add comment")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Mark:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "alt+up"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J", "alt+down"), key.WithHelp("J", "move down")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Edit, k.AddEntry, k.Delete, k.MoveUp, k.MoveDown, k.Filter, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Toggle, k.Edit, k.EditAll, k.AddEntry, k.AddNote, k.Delete},
		{k.Mark, k.MoveUp, k.MoveDown, k.Filter, k.Copy},
		{k.Save, k.Reload, k.Help, k.Quit},
	}
}
