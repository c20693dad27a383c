package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kate-desktop/kate/core"
	"github.com/kate-desktop/kate/logging"
	"github.com/kate-desktop/kate/styles"
)

type View int

const (
	ChatView View = iota
	ModelsView
	CatalogView
	AppsView
)

func (v View) String() string {
	switch v {
	case ChatView:
		return "Chat"
	case ModelsView:
		return "Models"
	case CatalogView:
		return "Library"
	case AppsView:
		return "Apps"
	}
	return "?"
}

type AppModel struct {
	session *core.Session
	keys    KeyMap
	width   int
	height  int
	view    View

	input      textinput.Model
	appInput   textinput.Model
	transcript viewport.Model
	spinner    spinner.Model
	progress   progress.Model

	models  list.Model
	catalog list.Model
	apps    list.Model

	catalogSession  *core.CatalogSession
	running         map[string]bool
	sending         bool
	addingApp       bool
	confirmDeletion bool
	pendingDelete   string
	message         string
	isError         bool
	events          <-chan core.Event
}

type refreshDoneMsg struct{ err error }

type turnDoneMsg struct{ err error }

type operationDoneMsg struct {
	name   string
	status core.OperationStatus
	err    error
}

type catalogLoadedMsg struct {
	session *core.CatalogSession
	err     error
}

type launchDoneMsg struct {
	name string
	err  error
}

type runningMsg map[string]bool

type eventMsg core.Event

func NewAppModel(session *core.Session, width, height int) *AppModel {
	m := &AppModel{
		session:  session,
		keys:     *NewKeyMap(),
		width:    width,
		height:   height,
		running:  map[string]bool{},
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		events:   session.Events().Subscribe(),
	}

	m.input = textinput.New()
	m.input.Placeholder = "Send a message"
	m.input.Prompt = "› "
	m.input.Focus()

	m.appInput = textinput.New()
	m.appInput.Placeholder = "name=command"
	m.appInput.Prompt = "New app: "

	m.transcript = viewport.New(width, 1)

	m.models = newList("Installed models", NewItemDelegate(m), width)
	m.models.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{m.keys.Select, m.keys.Delete, m.keys.AddModel, m.keys.Refresh, m.keys.SortByName, m.keys.SortBySize, m.keys.NextView}
	}
	m.catalog = newList("Model library", list.NewDefaultDelegate(), width)
	m.catalog.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{m.keys.Select, m.keys.PrevSize, m.keys.NextSize, m.keys.Back}
	}
	m.apps = newList("Apps", list.NewDefaultDelegate(), width)
	m.apps.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{m.keys.Launch, m.keys.AddApp, m.keys.Delete, m.keys.Refresh, m.keys.NextView}
	}

	m.resize(width, height)
	m.syncModels()
	m.syncApps()
	m.syncTranscript()
	return m
}

func newList(title string, delegate list.ItemDelegate, width int) list.Model {
	l := list.New(nil, delegate, width, 10)
	l.Title = title
	l.SetShowStatusBar(false)
	// esc and q must not end the program from inside a list.
	l.DisableQuitKeybindings()
	return l
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), waitForEvent(m.events), m.spinner.Tick, textinput.Blink)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case refreshDoneMsg:
		if msg.err != nil {
			m.setError("Error fetching models", msg.err)
		}
		m.syncModels()
		return m, nil

	case turnDoneMsg:
		m.sending = false
		if msg.err != nil {
			m.setError("Error generating response", msg.err)
		} else {
			m.clearMessage()
		}
		m.syncTranscript()
		return m, nil

	case operationDoneMsg:
		switch {
		case errors.Is(msg.err, core.ErrOperationInProgress):
			m.setInfo(fmt.Sprintf("%s is busy, try again when it finishes", msg.name))
		case msg.err != nil:
			m.setError(fmt.Sprintf("Error %s %s", verb(msg.status), msg.name), msg.err)
		case msg.status == core.StatusAdding:
			m.setInfo(fmt.Sprintf("Model %s added", msg.name))
		default:
			m.setInfo(fmt.Sprintf("Model %s deleted", msg.name))
		}
		m.syncModels()
		return m, nil

	case catalogLoadedMsg:
		if msg.session != m.catalogSession {
			return m, nil
		}
		if msg.err != nil {
			m.setError("Error loading the model library", msg.err)
		} else {
			m.clearMessage()
		}
		m.syncCatalog()
		return m, nil

	case launchDoneMsg:
		if msg.err != nil {
			m.setError("Error opening "+msg.name, msg.err)
			return m, nil
		}
		m.setInfo("Opened " + msg.name)
		return m, m.runningCmd()

	case runningMsg:
		m.running = msg
		m.syncApps()
		return m, nil

	case eventMsg:
		m.handleEvent(core.Event(msg))
		return m, waitForEvent(m.events)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.confirmDeletion {
			return m.updateConfirm(msg)
		}
		switch m.view {
		case ChatView:
			return m.updateChat(msg)
		case ModelsView:
			return m.updateModels(msg)
		case CatalogView:
			return m.updateCatalog(msg)
		case AppsView:
			return m.updateApps(msg)
		}
	}

	var cmd tea.Cmd
	switch m.view {
	case ChatView:
		m.input, cmd = m.input.Update(msg)
	case ModelsView:
		m.models, cmd = m.models.Update(msg)
	case CatalogView:
		m.catalog, cmd = m.catalog.Update(msg)
	case AppsView:
		m.apps, cmd = m.apps.Update(msg)
	}
	return m, cmd
}

// handleEvent folds state published by the core into the views. Operation
// status and progress need no work here: the delegate reads them live.
func (m *AppModel) handleEvent(ev core.Event) {
	switch ev.Type {
	case core.EventInventoryRefreshed, core.EventSelectionChanged:
		m.syncModels()
	case core.EventMessageAppended:
		m.syncTranscript()
	case core.EventLauncherChanged:
		m.syncApps()
	}
}

func (m *AppModel) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextView):
		return m, m.switchView(ModelsView)
	case key.Matches(msg, m.keys.Send):
		prompt := strings.TrimSpace(m.input.Value())
		if prompt == "" || m.sending {
			return m, nil
		}
		if m.session.Inventory().Selection() == "" {
			m.setInfo("No model selected, pick one in the Models view")
			return m, nil
		}
		m.sending = true
		m.input.Reset()
		return m, m.sendCmd(prompt)
	case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown, msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AppModel) updateModels(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.models.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.models, cmd = m.models.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.NextView):
		return m, m.switchView(AppsView)
	case key.Matches(msg, m.keys.Select):
		if item, ok := m.models.SelectedItem().(modelItem); ok {
			if err := m.session.Select(item.record.Name); err != nil {
				m.setError("Error saving the selected model", err)
			} else {
				m.setInfo("Chatting with " + core.DisplayName(item.record.Name))
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.models.SelectedItem().(modelItem); ok {
			if m.session.Lifecycle().StatusOf(item.record.Name) != core.StatusIdle {
				m.setInfo(fmt.Sprintf("%s is busy, try again when it finishes", item.record.Name))
				return m, nil
			}
			logging.DebugLogger.Debug().Str("model", item.record.Name).Msg("delete requested")
			m.confirmDeletion = true
			m.pendingDelete = item.record.Name
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.AddModel):
		return m, m.openCatalog()
	case key.Matches(msg, m.keys.SortByName):
		return m, m.sortBy("name")
	case key.Matches(msg, m.keys.SortBySize):
		return m, m.sortBy("size")
	case key.Matches(msg, m.keys.SortByModified):
		return m, m.sortBy("modified")
	case key.Matches(msg, m.keys.SortByFamily):
		return m, m.sortBy("family")
	}

	var cmd tea.Cmd
	m.models, cmd = m.models.Update(msg)
	return m, cmd
}

func (m *AppModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ConfirmYes):
		name := m.pendingDelete
		m.confirmDeletion = false
		m.pendingDelete = ""
		m.setInfo("Deleting " + name)
		return m, m.removeCmd(name)
	case key.Matches(msg, m.keys.ConfirmNo):
		logging.DebugLogger.Debug().Str("model", m.pendingDelete).Msg("deletion cancelled by user")
		m.confirmDeletion = false
		m.pendingDelete = ""
	}
	return m, nil
}

func (m *AppModel) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.catalog.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.catalog, cmd = m.catalog.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeCatalog()
		return m, m.switchView(ModelsView)
	case key.Matches(msg, m.keys.NextSize), key.Matches(msg, m.keys.PrevSize):
		if item, ok := m.catalog.SelectedItem().(catalogItem); ok && len(item.entry.Sizes) > 0 {
			step := 1
			if key.Matches(msg, m.keys.PrevSize) {
				step = len(item.entry.Sizes) - 1
			}
			item.sizeIdx = (item.sizeIdx + step) % len(item.entry.Sizes)
			return m, m.catalog.SetItem(m.catalog.Index(), item)
		}
		return m, nil
	case key.Matches(msg, m.keys.Select):
		item, ok := m.catalog.SelectedItem().(catalogItem)
		if !ok {
			return m, nil
		}
		name := item.pullName()
		m.closeCatalog()
		m.setInfo("Adding " + name)
		m.switchView(ModelsView)
		return m, m.addCmd(name)
	}

	var cmd tea.Cmd
	m.catalog, cmd = m.catalog.Update(msg)
	return m, cmd
}

func (m *AppModel) updateApps(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.addingApp {
		switch msg.Type {
		case tea.KeyEnter:
			name, command, err := parseAppSpec(m.appInput.Value())
			if err == nil {
				err = m.session.Launcher().Add(name, command)
			}
			if err != nil {
				m.setError("Error adding app", err)
				return m, nil
			}
			m.addingApp = false
			m.appInput.Reset()
			m.appInput.Blur()
			m.setInfo("Added " + name)
			return m, nil
		case tea.KeyEsc:
			m.addingApp = false
			m.appInput.Reset()
			m.appInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.appInput, cmd = m.appInput.Update(msg)
		return m, cmd
	}
	if m.apps.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.apps, cmd = m.apps.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.NextView):
		return m, m.switchView(ChatView)
	case key.Matches(msg, m.keys.Launch):
		if item, ok := m.apps.SelectedItem().(appItem); ok {
			return m, m.launchCmd(item.entry.Name)
		}
		return m, nil
	case key.Matches(msg, m.keys.AddApp):
		m.addingApp = true
		return m, m.appInput.Focus()
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.apps.SelectedItem().(appItem); ok {
			launcher := m.session.Launcher()
			if err := launcher.Remove(launcher.Find(item.entry.Name)); err != nil {
				m.setError("Error removing app", err)
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.runningCmd()
	}

	var cmd tea.Cmd
	m.apps, cmd = m.apps.Update(msg)
	return m, cmd
}

func (m *AppModel) switchView(v View) tea.Cmd {
	m.view = v
	if v == ChatView {
		return m.input.Focus()
	}
	m.input.Blur()
	if v == AppsView {
		return m.runningCmd()
	}
	return nil
}

func (m *AppModel) openCatalog() tea.Cmd {
	m.closeCatalog()
	m.catalogSession = m.session.NewCatalog()
	m.catalog.ResetFilter()
	m.setInfo("Loading the model library…")
	m.view = CatalogView
	return m.loadCatalogCmd(m.catalogSession)
}

func (m *AppModel) closeCatalog() {
	if m.catalogSession != nil {
		m.catalogSession.Close()
		m.catalogSession = nil
	}
	m.catalog.SetItems(nil)
}

func (m *AppModel) sortBy(field string) tea.Cmd {
	m.keys.SortOrder = field
	m.syncModels()
	return nil
}

func (m *AppModel) syncModels() {
	records := m.session.Inventory().Records()
	order := "asc"
	if m.keys.SortOrder == "size" || m.keys.SortOrder == "modified" {
		order = "desc"
	}
	core.SortRecords(records, core.RecordSort{Field: m.keys.SortOrder, Order: order})

	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = modelItem{record: r}
	}
	m.models.SetItems(items)
}

func (m *AppModel) syncCatalog() {
	if m.catalogSession == nil {
		return
	}
	entries := m.catalogSession.Entries()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = catalogItem{entry: e}
	}
	m.catalog.SetItems(items)
}

func (m *AppModel) syncApps() {
	entries := m.session.Launcher().Entries()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = appItem{entry: e, running: m.running[e.Name]}
	}
	m.apps.SetItems(items)
}

func (m *AppModel) syncTranscript() {
	var b strings.Builder
	wrap := lipgloss.NewStyle().Width(max(m.width-2, 10))
	for _, msg := range m.session.Conversation().Messages() {
		if msg.Sender == core.SenderUser {
			b.WriteString(styles.UserMessageStyle().Render("You"))
			b.WriteString("\n")
			b.WriteString(wrap.Render(msg.Content))
		} else {
			b.WriteString(styles.BotMessageStyle().Render("Assistant"))
			b.WriteString("\n")
			b.WriteString(msg.Content)
		}
		b.WriteString("\n\n")
	}
	m.transcript.SetContent(b.String())
	m.transcript.GotoBottom()
}

func (m *AppModel) resize(width, height int) {
	m.width, m.height = width, height
	// header and status line take one row each, the list title block two more
	listHeight := max(height-4, 3)
	m.models.SetSize(width, listHeight)
	m.catalog.SetSize(width, listHeight)
	m.apps.SetSize(width, listHeight-1)
	m.transcript.Width = width
	m.transcript.Height = max(height-5, 3)
	m.input.Width = max(width-4, 10)
	m.appInput.Width = max(width-12, 10)
	m.syncTranscript()
}

func (m *AppModel) setError(prefix string, err error) {
	m.message = fmt.Sprintf("%s: %v", prefix, err)
	m.isError = true
}

func (m *AppModel) setInfo(text string) {
	m.message = text
	m.isError = false
}

func (m *AppModel) clearMessage() {
	m.message = ""
	m.isError = false
}

func verb(status core.OperationStatus) string {
	if status == core.StatusAdding {
		return "adding"
	}
	return "deleting"
}

func (m *AppModel) View() string {
	var body string
	switch {
	case m.confirmDeletion:
		body = m.confirmDeletionView()
	case m.view == ChatView:
		body = m.chatView()
	case m.view == ModelsView:
		body = m.models.View()
	case m.view == CatalogView:
		body = m.catalog.View()
	case m.view == AppsView:
		body = m.apps.View()
		if m.addingApp {
			body += "\n" + m.appInput.View()
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, m.statusView())
}

func (m *AppModel) headerView() string {
	tabs := make([]string, 0, 3)
	for _, v := range []View{ChatView, ModelsView, AppsView} {
		label := " " + v.String() + " "
		if v == m.view || (v == ModelsView && m.view == CatalogView) {
			tabs = append(tabs, styles.SelectedItemStyle().Render(label))
		} else {
			tabs = append(tabs, styles.HelpTextStyle().Render(label))
		}
	}

	model := "no model selected"
	if sel := m.session.Inventory().Selection(); sel != "" {
		model = core.DisplayName(sel)
	}
	return strings.Join(tabs, " ") + "  " + styles.HeaderStyle().Render(model)
}

func (m *AppModel) chatView() string {
	prompt := m.input.View()
	if m.sending {
		prompt = m.spinner.View() + " waiting for " + core.Normalize(m.session.Inventory().Selection()) + "…"
	}
	return m.transcript.View() + "\n" + prompt
}

func (m *AppModel) confirmDeletionView() string {
	return fmt.Sprintf("\nAre you sure you want to delete %s?\n\n%s %s\n%s %s",
		styles.WarningStyle().Render(m.pendingDelete),
		m.keys.ConfirmYes.Keys()[0], "Yes",
		m.keys.ConfirmNo.Keys()[0], "No",
	)
}

// statusView shows every in-flight model operation and the last message.
func (m *AppModel) statusView() string {
	lifecycle := m.session.Lifecycle()
	inFlight := lifecycle.InFlight()
	names := make([]string, 0, len(inFlight))
	for name := range inFlight {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names)+1)
	for _, name := range names {
		status := inFlight[name]
		line := styles.StatusStyle(string(status)).Render(fmt.Sprintf("%s %s", verb(status), name))
		if p, ok := lifecycle.ProgressOf(name); ok && p.Total > 0 {
			line += " " + m.progress.ViewAs(p.Percentage/100)
		} else {
			line += " " + m.spinner.View()
		}
		lines = append(lines, line)
	}

	if m.message != "" {
		if m.isError {
			lines = append(lines, styles.ErrorStyle().Render(m.message))
		} else {
			lines = append(lines, styles.InfoStyle().Render(m.message))
		}
	}
	return strings.Join(lines, "\n")
}
