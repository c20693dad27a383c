package main

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	NextView       key.Binding
	Send           key.Binding
	Select         key.Binding
	Delete         key.Binding
	ConfirmYes     key.Binding
	ConfirmNo      key.Binding
	Refresh        key.Binding
	AddModel       key.Binding
	NextSize       key.Binding
	PrevSize       key.Binding
	Back           key.Binding
	Launch         key.Binding
	AddApp         key.Binding
	SortByName     key.Binding
	SortBySize     key.Binding
	SortByModified key.Binding
	SortByFamily   key.Binding
	Quit           key.Binding
	SortOrder      string
}

func NewKeyMap() *KeyMap {
	return &KeyMap{
		NextView:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		Send:           key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Select:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "use model")),
		Delete:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		ConfirmYes:     key.NewBinding(key.WithKeys("y")),
		ConfirmNo:      key.NewBinding(key.WithKeys("n", "esc")),
		Refresh:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		AddModel:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add from library")),
		NextSize:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next size")),
		PrevSize:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous size")),
		Back:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Launch:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		AddApp:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add app")),
		SortByName:     key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "sort name")),
		SortBySize:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort size")),
		SortByModified: key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "sort modified")),
		SortByFamily:   key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "sort family")),
		Quit:           key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

