package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/existflow/unicompass/internal/api"
	"github.com/existflow/unicompass/internal/catalog"
	"github.com/existflow/unicompass/internal/dashboard"
	"github.com/existflow/unicompass/internal/logger"
	"github.com/existflow/unicompass/internal/model"
)

// Screen represents which top-level screen is shown
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenCatalog
	ScreenDetail
	ScreenDashboard
)

// Mode represents the current UI mode within a screen
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeFilter
	ModePickBucket
)

// Filter input indices. Order matches the filter modal layout.
const (
	filterCountry = iota
	filterCity
	filterCourse
	filterDegree
	filterMaxAppFee
	filterMaxTuition
	filterFieldCount
)

var filterLabels = [filterFieldCount]string{
	"Country", "City", "Course", "Degree level", "Max application fee", "Max tuition fee",
}

// Model is the main TUI model
type Model struct {
	client *api.Client
	engine *catalog.Engine
	boards *dashboard.Materializer

	width  int
	height int
	screen Screen
	mode   Mode

	// Login form
	loginInputs []textinput.Model
	loginFocus  int
	loginBusy   bool
	loginErr    string

	// Catalog browser
	searchInput  textinput.Model
	filterInputs []textinput.Model
	filterFocus  int
	cursor       int

	// Detail view
	detail       *model.University
	bucketCursor int

	// Dashboard view
	dash *model.Dashboard

	message string
}

// NewModel creates the TUI model. The opening screen depends on the
// restored session: logged-out users land on the login form.
func NewModel(client *api.Client, pageSize int) Model {
	logger.Info("Initializing TUI model")

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Width = 32
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 64
	password.Width = 32
	password.EchoMode = textinput.EchoPassword

	search := textinput.New()
	search.Placeholder = "Search by name, country or course..."
	search.CharLimit = 128
	search.Width = 48

	filters := make([]textinput.Model, filterFieldCount)
	for i := range filters {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 24
		filters[i] = ti
	}
	filters[filterDegree].Placeholder = "bachelor / master / both"

	m := Model{
		client:       client,
		engine:       catalog.NewEngine(client, pageSize),
		boards:       dashboard.NewMaterializer(client),
		screen:       ScreenLogin,
		loginInputs:  []textinput.Model{username, password},
		searchInput:  search,
		filterInputs: filters,
	}

	if client.Session().IsLoggedIn() {
		id := client.Session().Identity()
		logger.Info("Session restored", logger.F("username", id.Username))
		m.screen = ScreenCatalog
		m.message = "Welcome back, " + id.Username
	}

	return m
}

// draftFilters reads the filter modal inputs into a draft set. The draft
// only becomes the applied set when the modal is confirmed.
func (m *Model) draftFilters() catalog.FilterSet {
	return catalog.FilterSet{
		Country:    m.filterInputs[filterCountry].Value(),
		City:       m.filterInputs[filterCity].Value(),
		Course:     m.filterInputs[filterCourse].Value(),
		Degree:     m.filterInputs[filterDegree].Value(),
		MaxAppFee:  m.filterInputs[filterMaxAppFee].Value(),
		MaxTuition: m.filterInputs[filterMaxTuition].Value(),
	}
}

// resetFilterInputs loads the applied filter set back into the modal,
// discarding draft edits.
func (m *Model) resetFilterInputs() {
	applied := m.engine.Filters()
	m.filterInputs[filterCountry].SetValue(applied.Country)
	m.filterInputs[filterCity].SetValue(applied.City)
	m.filterInputs[filterCourse].SetValue(applied.Course)
	m.filterInputs[filterDegree].SetValue(applied.Degree)
	m.filterInputs[filterMaxAppFee].SetValue(applied.MaxAppFee)
	m.filterInputs[filterMaxTuition].SetValue(applied.MaxTuition)
}
