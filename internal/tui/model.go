package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/feedsync/internal/feedapi"
	"github.com/glabrego/feedsync/internal/notify"
	article "github.com/glabrego/feedsync/internal/render/article"
	"github.com/glabrego/feedsync/internal/session"
	"github.com/glabrego/feedsync/internal/subscriptions"
	tuiactions "github.com/glabrego/feedsync/internal/tui/actions"
	tuiplatform "github.com/glabrego/feedsync/internal/tui/platform"
	tuistate "github.com/glabrego/feedsync/internal/tui/state"
	tuitheme "github.com/glabrego/feedsync/internal/tui/theme"
	tuiview "github.com/glabrego/feedsync/internal/tui/view"
)

type Service = tuiactions.Service

// Options carries the timings of the watchdogs and transitions. Zero values
// fall back to DefaultOptions.
type Options struct {
	AddWatchdog     time.Duration
	LoadWatchdog    time.Duration
	DeleteWatchdog  time.Duration
	NotificationTTL time.Duration
	ExitTransition  time.Duration
	RequestTimeout  time.Duration
	LastSync        time.Time
	Logger          *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		AddWatchdog:     15 * time.Second,
		LoadWatchdog:    10 * time.Second,
		DeleteWatchdog:  10 * time.Second,
		NotificationTTL: 4 * time.Second,
		ExitTransition:  300 * time.Millisecond,
		RequestTimeout:  2 * time.Minute,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.AddWatchdog <= 0 {
		o.AddWatchdog = d.AddWatchdog
	}
	if o.LoadWatchdog <= 0 {
		o.LoadWatchdog = d.LoadWatchdog
	}
	if o.DeleteWatchdog <= 0 {
		o.DeleteWatchdog = d.DeleteWatchdog
	}
	if o.NotificationTTL <= 0 {
		o.NotificationTTL = d.NotificationTTL
	}
	if o.ExitTransition < 0 {
		o.ExitTransition = 0
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = d.RequestTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

type addWatchdogMsg struct {
	opID int
}

type loadWatchdogMsg struct {
	ticket session.Ticket
}

type deleteWatchdogMsg struct {
	url string
	seq int
}

type removalDoneMsg struct {
	url string
}

type highlightDoneMsg struct {
	url   string
	token int
}

type Model struct {
	service Service
	opts    Options
	logger  *slog.Logger
	theme   tuitheme.Theme
	keys    keyMap
	help    help.Model

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	subs     *subscriptions.Store
	journal  *subscriptions.Journal
	session  *session.Session
	notifier *notify.Notifier

	focus      string
	cursor     int
	itemCursor int
	pane       tuiview.PaneContent
	showHelp   bool
	confirmURL string

	// addLock is the op id holding the submit affordance, 0 when enabled.
	addLock       int
	addSeq        int
	deleteSeq     int
	deletes       map[string]int
	loadsInFlight map[string]int
	spinning      bool
	refreshing    bool
	refreshSince  int
	lastSync      time.Time

	width  int
	height int

	nowFn     func() time.Time
	loc       *time.Location
	openURLFn func(string) error
	copyURLFn func(string) error
}

func NewModel(service Service, cached []feedapi.Subscription, opts Options) Model {
	opts = opts.withDefaults()

	input := textinput.New()
	input.Placeholder = "https://example.com/feed.xml"
	input.Prompt = "Add feed: "
	input.CharLimit = 2048
	input.Width = 48

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	notifier := notify.New(opts.NotificationTTL)

	m := Model{
		service:       service,
		opts:          opts,
		logger:        opts.Logger,
		theme:         tuitheme.Default(),
		keys:          defaultKeyMap(),
		help:          help.New(),
		input:         input,
		spinner:       sp,
		viewport:      viewport.New(60, 20),
		subs:          subscriptions.New(cached),
		journal:       subscriptions.NewJournal(),
		session:       session.New(nil),
		notifier:      notifier,
		focus:         tuiview.FocusList,
		deletes:       make(map[string]int),
		loadsInFlight: make(map[string]int),
		refreshing:    service != nil,
		lastSync:      opts.LastSync,
		width:         100,
		height:        30,
		nowFn:         time.Now,
		loc:           time.Local,
		openURLFn:     tuiplatform.OpenURLInBrowser,
		copyURLFn:     tuiplatform.CopyURLToClipboard,
	}
	m.layout()
	m.rebuildPane()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return tuiactions.RefreshCmd(m.service, m.opts.RequestTimeout)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.rebuildPane()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tuiactions.RefreshSuccessMsg:
		return m.onRefreshSuccess(msg)
	case tuiactions.RefreshErrorMsg:
		return m.onRefreshError(msg)

	case tuiactions.AddSuccessMsg:
		return m.onAddSuccess(msg)
	case tuiactions.AddErrorMsg:
		return m.onAddError(msg)
	case addWatchdogMsg:
		return m.onAddWatchdog(msg)

	case tuiactions.LoadSuccessMsg:
		return m.onLoadSuccess(msg)
	case tuiactions.LoadErrorMsg:
		return m.onLoadError(msg)
	case loadWatchdogMsg:
		if m.session.TimedOut(msg.ticket) {
			m.logger.Debug("feed load slow", "url", msg.ticket.URL, "generation", msg.ticket.Generation)
			m.rebuildPane()
		}
		return m, nil
	case tuiactions.NormalizeDoneMsg:
		return m.onNormalizeDone(msg)

	case tuiactions.DeleteSuccessMsg:
		return m.onDeleteSuccess(msg)
	case tuiactions.DeleteErrorMsg:
		return m.onDeleteError(msg)
	case deleteWatchdogMsg:
		return m.onDeleteWatchdog(msg)
	case removalDoneMsg:
		if m.subs.Remove(msg.url) {
			m.cursor = tuistate.ClampCursor(m.cursor, m.subs.Len())
		}
		return m, nil
	case highlightDoneMsg:
		m.subs.ClearHighlight(msg.url, msg.token)
		return m, nil

	case tuiactions.OpenURLSuccessMsg:
		return m, m.notify(msg.Status, notify.LevelInfo)
	case tuiactions.OpenURLErrorMsg:
		return m, m.notify(msg.Err.Error(), notify.LevelError)

	case notify.ExpiredMsg:
		if m.notifier.Expire(msg.ID) {
			m.layout()
		}
		return m, nil
	case tuiactions.CacheErrorMsg:
		m.logger.Warn("cache write failed", "op", "save list", "err", msg.Err)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == tuiview.FocusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.confirmURL != "" {
		switch msg.String() {
		case "y", "Y":
			url := m.confirmURL
			m.confirmURL = ""
			m.layout()
			return m.confirmDelete(url)
		case "n", "N", "esc":
			m.confirmURL = ""
			m.layout()
		}
		return m, nil
	}

	if m.focus == tuiview.FocusInput {
		switch msg.Type {
		case tea.KeyEnter:
			return m.submitAdd()
		case tea.KeyEsc:
			m.input.Blur()
			m.focus = tuiview.FocusList
			return m, nil
		case tea.KeyTab:
			m.input.Blur()
			m.focus = tuiview.FocusList
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), msg.Type == tea.KeyEsc:
			m.showHelp = false
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Dismiss):
		if m.notifier.DismissLatest() {
			m.layout()
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.Add):
		m.focus = tuiview.FocusInput
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Switch):
		if m.focus == tuiview.FocusList {
			m.focus = tuiview.FocusPane
		} else {
			m.focus = tuiview.FocusList
		}
		return m, nil
	case key.Matches(msg, m.keys.Export):
		return m.exportCurrent()
	case key.Matches(msg, m.keys.OpenLink):
		return m.openCurrentItem()
	case key.Matches(msg, m.keys.CopyLink):
		return m.copyCurrentItem()
	}

	if m.focus == tuiview.FocusPane {
		return m.handlePaneKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = tuistate.ClampCursor(m.cursor-1, m.subs.Len())
	case key.Matches(msg, m.keys.Down):
		m.cursor = tuistate.ClampCursor(m.cursor+1, m.subs.Len())
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = tuistate.ClampCursor(m.subs.Len()-1, m.subs.Len())
	case key.Matches(msg, m.keys.Open):
		entry, ok := m.subs.At(m.cursor)
		if !ok || entry.Removing {
			return m, nil
		}
		return m.selectFeed(entry.Subscription.URL)
	case key.Matches(msg, m.keys.Delete):
		entry, ok := m.subs.At(m.cursor)
		if !ok || entry.DeleteDisabled {
			return m, nil
		}
		m.confirmURL = entry.Subscription.URL
		m.layout()
	}
	return m, nil
}

func (m Model) handlePaneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.scrollPane(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollPane(1)
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		m.syncItemCursor()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		m.syncItemCursor()
	case key.Matches(msg, m.keys.PrevItem):
		m.focusItem(m.itemCursor - 1)
	case key.Matches(msg, m.keys.NextItem):
		m.focusItem(m.itemCursor + 1)
	}
	return m, nil
}

func (m *Model) scrollPane(delta int) {
	m.viewport.SetYOffset(m.viewport.YOffset + delta)
	m.syncItemCursor()
}

// syncItemCursor moves the item focus to the item at the top of the pane.
func (m *Model) syncItemCursor() {
	item := tuistate.ItemAtOffset(m.pane.ItemOffsets, m.viewport.YOffset)
	if item < 0 || item == m.itemCursor {
		return
	}
	m.itemCursor = item
	top := m.viewport.YOffset
	m.rebuildPane()
	m.viewport.SetYOffset(top)
}

func (m *Model) focusItem(item int) {
	if len(m.pane.ItemOffsets) == 0 {
		return
	}
	m.itemCursor = tuistate.ClampCursor(item, len(m.pane.ItemOffsets))
	m.rebuildPane()
	m.viewport.SetYOffset(tuistate.OffsetForItem(m.pane.ItemOffsets, m.itemCursor))
}

func (m *Model) notify(message string, level notify.Level) tea.Cmd {
	_, cmd := m.notifier.Notify(message, level)
	m.layout()
	return cmd
}

func (m Model) busy() bool {
	return len(m.loadsInFlight) > 0 || m.addLock != 0 || m.refreshing
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m Model) listWidth() int {
	w := m.width / 3
	if w < 24 {
		w = 24
	}
	if w > 48 {
		w = 48
	}
	return w
}

func (m Model) paneWidth() int {
	w := m.width - m.listWidth() - 3
	if w < 20 {
		w = 20
	}
	return w
}

// bodyHeight is the number of rows shared by the list and the pane. It
// shrinks with every notification and while the confirm prompt is shown.
func (m Model) bodyHeight() int {
	reserved := 6 + m.notifier.Len()
	if m.confirmURL != "" {
		reserved++
	}
	h := m.height - reserved
	if h < 3 {
		h = 3
	}
	return h
}

// layout sizes the components to the terminal and the current chrome. Run it
// whenever bodyHeight changes.
func (m *Model) layout() {
	m.viewport.Width = m.paneWidth()
	m.viewport.Height = m.bodyHeight()
	m.viewport.SetYOffset(m.viewport.YOffset)
	m.help.Width = m.width
	inputWidth := m.width - len(m.input.Prompt) - 14
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth
}

func (m *Model) rebuildPane() {
	snap := m.session.Snapshot()
	m.pane = tuiview.RenderPane(tuiview.PaneInput{
		Phase:       m.session.Phase(),
		Slow:        m.session.Slow(),
		Title:       snap.Title,
		Items:       snap.Items,
		Bodies:      m.session.Bodies(),
		RenderedAt:  m.session.RenderedAt(),
		Now:         m.nowFn(),
		Loc:         m.loc,
		FocusedItem: m.itemCursor,
		Width:       m.paneWidth(),
		Margin:      1,
		Options:     article.DefaultOptions,
	}, m.theme)
	m.viewport.SetContent(strings.Join(m.pane.Lines, "\n"))
}

func (m Model) currentItem() (feedapi.FeedItem, bool) {
	if m.session.Phase() != session.PhaseRendered {
		return feedapi.FeedItem{}, false
	}
	items := m.session.Snapshot().Items
	if m.itemCursor < 0 || m.itemCursor >= len(items) {
		return feedapi.FeedItem{}, false
	}
	return items[m.itemCursor], true
}

func after(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return msg
	})
}
