package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/unicompass/internal/api"
	"github.com/existflow/unicompass/internal/catalog"
	"github.com/existflow/unicompass/internal/dashboard"
	"github.com/existflow/unicompass/internal/logger"
	"github.com/existflow/unicompass/internal/model"
)

// Messages produced by async commands
type loginDoneMsg struct{ err error }
type queryDoneMsg struct{ err error }
type moreDoneMsg struct{ err error }
type detailDoneMsg struct {
	university *model.University
	err        error
}
type dashDoneMsg struct {
	dash *model.Dashboard
	err  error
}
type addDoneMsg struct {
	result dashboard.AddResult
	bucket model.Bucket
	err    error
}

// Init starts the model. A restored session opens on the catalog, so kick
// off the initial unfiltered query right away.
func (m Model) Init() tea.Cmd {
	if m.screen == ScreenCatalog {
		return m.queryCmd("", catalog.FilterSet{})
	}
	return textinput.Blink
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	sess := m.client.Session()
	return func() tea.Msg {
		return loginDoneMsg{err: sess.Login(context.Background(), username, password)}
	}
}

func (m Model) queryCmd(query string, filters catalog.FilterSet) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		return queryDoneMsg{err: engine.RunQuery(context.Background(), query, filters)}
	}
}

func (m Model) loadMoreCmd() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		_, err := engine.LoadMore(context.Background())
		return moreDoneMsg{err: err}
	}
}

func (m Model) detailCmd(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		u, err := client.GetUniversity(context.Background(), id)
		return detailDoneMsg{university: u, err: err}
	}
}

func (m Model) dashboardCmd() tea.Cmd {
	boards := m.boards
	return func() tea.Msg {
		d, err := boards.Fetch(context.Background())
		return dashDoneMsg{dash: d, err: err}
	}
}

func (m Model) addCmd(id int, bucket model.Bucket) tea.Cmd {
	boards := m.boards
	return func() tea.Msg {
		result, err := boards.Add(context.Background(), id, bucket)
		return addDoneMsg{result: result, bucket: bucket, err: err}
	}
}

// expireSession routes to the login screen after a forced logout. A 401 is
// never rendered as an inline data error.
func (m *Model) expireSession() {
	logger.Info("Session expired, returning to login")
	m.screen = ScreenLogin
	m.mode = ModeBrowse
	m.loginErr = "Session expired, please log in again."
	m.loginBusy = false
	m.loginInputs[0].Focus()
	m.loginInputs[1].Blur()
	m.loginFocus = 0
	m.dash = nil
	m.detail = nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginDoneMsg:
		m.loginBusy = false
		if msg.err != nil {
			m.loginErr = msg.err.Error()
			return m, nil
		}
		m.loginErr = ""
		id := m.client.Session().Identity()
		m.screen = ScreenCatalog
		if id.IsAdmin() {
			m.message = "Welcome, " + id.Username + " (administrator, admin tools live under 'unicompass admin')"
		} else {
			m.message = "Welcome, " + id.Username
		}
		return m, m.queryCmd(m.searchInput.Value(), m.engine.Filters())

	case queryDoneMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			m.expireSession()
			return m, nil
		}
		m.cursor = 0
		return m, nil

	case moreDoneMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			m.expireSession()
			return m, nil
		}
		return m, nil

	case detailDoneMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			m.expireSession()
			return m, nil
		}
		if msg.err != nil {
			m.message = msg.err.Error()
			return m, nil
		}
		m.detail = msg.university
		m.screen = ScreenDetail
		m.mode = ModeBrowse
		return m, nil

	case dashDoneMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			m.expireSession()
			return m, nil
		}
		if msg.err != nil {
			m.message = msg.err.Error()
			return m, nil
		}
		m.dash = msg.dash
		m.screen = ScreenDashboard
		return m, nil

	case addDoneMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			m.expireSession()
			return m, nil
		}
		if msg.err != nil {
			m.message = msg.err.Error()
			return m, nil
		}
		if msg.result == dashboard.AlreadyPresent {
			m.message = "Already in " + msg.bucket.Label()
		} else {
			m.message = "Added to " + msg.bucket.Label()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) && m.mode == ModeBrowse && m.screen != ScreenLogin {
		return m, tea.Quit
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenLogin:
		return m.handleLoginKey(msg)
	case ScreenCatalog:
		return m.handleCatalogKey(msg)
	case ScreenDetail:
		return m.handleDetailKey(msg)
	case ScreenDashboard:
		return m.handleDashboardKey(msg)
	}
	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down", "up":
		m.loginInputs[m.loginFocus].Blur()
		m.loginFocus = (m.loginFocus + 1) % len(m.loginInputs)
		m.loginInputs[m.loginFocus].Focus()
		return m, nil
	case "enter":
		if m.loginBusy {
			return m, nil
		}
		username := m.loginInputs[0].Value()
		password := m.loginInputs[1].Value()
		if username == "" || password == "" {
			m.loginErr = "Username and password are required."
			return m, nil
		}
		m.loginBusy = true
		m.loginErr = ""
		return m, m.loginCmd(username, password)
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeFilter:
		return m.handleFilterKey(msg)
	}

	items := m.engine.Items()

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if m.cursor < len(items) {
			return m, m.detailCmd(items[m.cursor].ID)
		}
	case key.Matches(msg, keys.Search):
		m.mode = ModeSearch
		m.searchInput.SetValue(m.engine.Query())
		m.searchInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.Filter):
		m.mode = ModeFilter
		m.resetFilterInputs()
		m.filterFocus = 0
		m.filterInputs[0].Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.LoadMore):
		// The engine suppresses duplicate requests while one is in flight
		return m, m.loadMoreCmd()
	case key.Matches(msg, keys.Dashboard):
		return m, m.dashboardCmd()
	case key.Matches(msg, keys.Logout):
		m.client.Session().Logout()
		m.expireSession()
		m.loginErr = ""
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeBrowse
		m.searchInput.Blur()
		m.searchInput.SetValue(m.engine.Query())
		return m, nil
	case "enter":
		m.mode = ModeBrowse
		m.searchInput.Blur()
		return m, m.queryCmd(m.searchInput.Value(), m.engine.Filters())
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Cancel discards the draft without touching applied filters
		m.mode = ModeBrowse
		m.filterInputs[m.filterFocus].Blur()
		return m, nil
	case "enter":
		m.mode = ModeBrowse
		m.filterInputs[m.filterFocus].Blur()
		return m, m.queryCmd(m.engine.Query(), m.draftFilters())
	case "tab", "down":
		m.filterInputs[m.filterFocus].Blur()
		m.filterFocus = (m.filterFocus + 1) % filterFieldCount
		m.filterInputs[m.filterFocus].Focus()
		return m, nil
	case "shift+tab", "up":
		m.filterInputs[m.filterFocus].Blur()
		m.filterFocus = (m.filterFocus - 1 + filterFieldCount) % filterFieldCount
		m.filterInputs[m.filterFocus].Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInputs[m.filterFocus], cmd = m.filterInputs[m.filterFocus].Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModePickBucket {
		switch {
		case key.Matches(msg, keys.Up):
			if m.bucketCursor > 0 {
				m.bucketCursor--
			}
		case key.Matches(msg, keys.Down):
			if m.bucketCursor < len(model.Buckets)-1 {
				m.bucketCursor++
			}
		case key.Matches(msg, keys.Enter):
			m.mode = ModeBrowse
			return m, m.addCmd(m.detail.ID, model.Buckets[m.bucketCursor])
		case key.Matches(msg, keys.Escape):
			m.mode = ModeBrowse
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Add):
		if m.client.Session().IsLoggedIn() {
			m.mode = ModePickBucket
			m.bucketCursor = 0
		} else {
			m.message = "Log in to save universities."
		}
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Escape):
		m.screen = ScreenCatalog
		m.detail = nil
	case key.Matches(msg, keys.Dashboard):
		return m, m.dashboardCmd()
	}
	return m, nil
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Catalog), key.Matches(msg, keys.Back), key.Matches(msg, keys.Escape):
		m.screen = ScreenCatalog
	case key.Matches(msg, keys.Logout):
		m.client.Session().Logout()
		m.expireSession()
		m.loginErr = ""
	}
	return m, nil
}
