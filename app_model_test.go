package main

import (
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kate-desktop/kate/core"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T, backend *stubBackend) *AppModel {
	t.Helper()
	s := newStubSession(t, backend)
	app := NewAppModel(s, 120, 40)
	app.Update(app.refreshCmd()())
	return app
}

// press sends a key and runs the resulting command, if any, feeding its
// message back into the model.
func press(t *testing.T, app *AppModel, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := app.Update(msg)
	if cmd == nil {
		return
	}
	switch out := cmd().(type) {
	case refreshDoneMsg, turnDoneMsg, operationDoneMsg, catalogLoadedMsg, launchDoneMsg, runningMsg:
		app.Update(out)
	}
}

func TestAppModelRefreshFillsModelList(t *testing.T) {
	backend := &stubBackend{models: []core.ModelRecord{{Name: "llama3:latest"}, {Name: "phi3:mini"}}}
	app := newTestApp(t, backend)

	assert.Len(t, app.models.Items(), 2)
	assert.Equal(t, "llama3:latest", app.session.Inventory().Selection())
	assert.Contains(t, app.View(), "Llama3")
}

func TestAppModelSendsChatTurn(t *testing.T) {
	backend := &stubBackend{models: []core.ModelRecord{{Name: "llama3:latest"}}, answer: "Hello!"}
	app := newTestApp(t, backend)

	app.input.SetValue("hi")
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	msgs := app.session.Conversation().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "» Hello!", msgs[1].Content)
	assert.False(t, app.sending)
	assert.Empty(t, app.input.Value())
	assert.Contains(t, app.transcript.View(), "Hello!")
}

func TestAppModelIgnoresBlankPrompt(t *testing.T) {
	app := newTestApp(t, &stubBackend{models: []core.ModelRecord{{Name: "llama3:latest"}}})

	app.input.SetValue("   ")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, app.session.Conversation().Messages())
}

func TestAppModelRequiresSelectedModel(t *testing.T) {
	app := newTestApp(t, &stubBackend{})

	app.input.SetValue("hi")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, app.message, "No model selected")
}

func TestAppModelSelectAndDeleteModel(t *testing.T) {
	backend := &stubBackend{models: []core.ModelRecord{{Name: "llama3:latest"}, {Name: "phi3:mini"}}}
	app := newTestApp(t, backend)

	press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, ModelsView, app.view)

	app.models.Select(1)
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "phi3:mini", app.session.Inventory().Selection())

	press(t, app, keyRunes("d"))
	require.True(t, app.confirmDeletion)
	assert.Contains(t, app.View(), "phi3:mini")

	press(t, app, keyRunes("y"))
	assert.False(t, app.confirmDeletion)
	assert.Equal(t, []string{"phi3:mini"}, backend.deleted)
	assert.Len(t, app.models.Items(), 1)
	assert.Equal(t, "llama3:latest", app.session.Inventory().Selection())
	assert.Equal(t, "Model phi3:mini deleted", app.message)
}

func TestAppModelCancelDeletion(t *testing.T) {
	backend := &stubBackend{models: []core.ModelRecord{{Name: "llama3:latest"}}}
	app := newTestApp(t, backend)
	press(t, app, tea.KeyMsg{Type: tea.KeyTab})

	press(t, app, keyRunes("d"))
	press(t, app, keyRunes("n"))
	assert.False(t, app.confirmDeletion)
	assert.Empty(t, backend.deleted)
}

func TestAppModelAddFromCatalog(t *testing.T) {
	backend := &stubBackend{
		models: []core.ModelRecord{{Name: "llama3:latest"}},
		catalog: `<ul role="list">
			<li><h2><span>llama3.1</span></h2><p>Meta</p><div class="flex-wrap"><span>8b</span><span>70b</span></div></li>
			<li><h2><span>nomic-embed-text</span></h2></li>
		</ul>`,
	}
	app := newTestApp(t, backend)
	press(t, app, tea.KeyMsg{Type: tea.KeyTab})

	press(t, app, keyRunes("a"))
	require.Equal(t, CatalogView, app.view)
	require.Len(t, app.catalog.Items(), 2)

	press(t, app, tea.KeyMsg{Type: tea.KeyRight})
	item := app.catalog.SelectedItem().(catalogItem)
	assert.Equal(t, "llama3.1:70b", item.pullName())

	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModelsView, app.view)
	assert.Nil(t, app.catalogSession, "closing the library discards its entries")
	assert.Equal(t, []string{"llama3.1:70b"}, backend.added)
	assert.Len(t, app.models.Items(), 2)
}

func TestAppModelCatalogBackDiscardsEntries(t *testing.T) {
	backend := &stubBackend{catalog: `<ul role="list"><li><h2>phi3</h2></li></ul>`}
	app := newTestApp(t, backend)
	press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	press(t, app, keyRunes("a"))
	require.Len(t, app.catalog.Items(), 1)

	press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModelsView, app.view)
	assert.Empty(t, app.catalog.Items())
}

func TestAppModelApps(t *testing.T) {
	backend := &stubBackend{}
	app := newTestApp(t, backend)
	press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, AppsView, app.view)

	press(t, app, keyRunes("a"))
	require.True(t, app.addingApp)
	app.appInput.SetValue("Editor=code .")
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, app.addingApp)
	assert.Equal(t, []core.LauncherEntry{{Name: "Editor", Command: "code ."}}, app.session.Launcher().Entries())
	app.syncApps()
	require.Len(t, app.apps.Items(), 1)

	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"code ."}, backend.launched)
	assert.Equal(t, "Opened Editor", app.message)

	press(t, app, keyRunes("d"))
	assert.Empty(t, app.session.Launcher().Entries())
}

func TestAppModelListsDoNotQuit(t *testing.T) {
	app := newTestApp(t, &stubBackend{models: []core.ModelRecord{{Name: "llama3:latest"}}})
	press(t, app, tea.KeyMsg{Type: tea.KeyTab})

	_, cmd := app.Update(keyRunes("q"))
	if cmd != nil {
		assert.NotEqual(t, tea.Quit(), cmd())
	}
	assert.Equal(t, list.Unfiltered, app.models.FilterState())

	app.syncModels()
	assert.False(t, app.models.KeyMap.Quit.Enabled(), "refilling the list keeps quit disabled")
}
