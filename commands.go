package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kate-desktop/kate/core"
)

// Every backend call runs as a tea.Cmd so the UI keeps redrawing while it is
// in flight; the outcome comes back to Update as a message.

func waitForEvent(ch <-chan core.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m *AppModel) refreshCmd() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return refreshDoneMsg{err: s.Refresh(s.Context())}
	}
}

func (m *AppModel) sendCmd(prompt string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return turnDoneMsg{err: s.Send(s.Context(), prompt)}
	}
}

func (m *AppModel) addCmd(name string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return operationDoneMsg{name: name, status: core.StatusAdding, err: s.AddModel(s.Context(), name)}
	}
}

func (m *AppModel) removeCmd(name string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return operationDoneMsg{name: name, status: core.StatusDeleting, err: s.RemoveModel(s.Context(), name)}
	}
}

func (m *AppModel) loadCatalogCmd(c *core.CatalogSession) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return catalogLoadedMsg{session: c, err: s.LoadCatalog(s.Context(), c)}
	}
}

func (m *AppModel) launchCmd(name string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		index := s.Launcher().Find(name)
		return launchDoneMsg{name: name, err: s.Launch(s.Context(), index)}
	}
}

// runningCmd checks which launcher entries have a live process.
func (m *AppModel) runningCmd() tea.Cmd {
	launcher := m.session.Launcher()
	ctx := m.session.Context()
	return func() tea.Msg {
		running := make(map[string]bool)
		for i, e := range launcher.Entries() {
			ok, err := launcher.Running(ctx, i)
			if err != nil {
				continue
			}
			running[e.Name] = ok
		}
		return runningMsg(running)
	}
}
