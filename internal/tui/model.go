// Package tui provides the terminal schedule editor for MirrorCRM.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Versuscsdota/MirrorCRM/internal/config"
	"github.com/Versuscsdota/MirrorCRM/internal/dateutil"
	"github.com/Versuscsdota/MirrorCRM/internal/grid"
	"github.com/Versuscsdota/MirrorCRM/internal/poll"
	"github.com/Versuscsdota/MirrorCRM/internal/schedule"
	"github.com/Versuscsdota/MirrorCRM/internal/slot"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/commands"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/theme"
)

// Screen is the top-level view being shown.
type Screen int

const (
	ScreenDay Screen = iota
	ScreenMonth
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeForm        // Create form open
	ModeHelp        // Key help overlay
)

const (
	statusTTL      = 3 * time.Second
	errorStatusTTL = 5 * time.Second

	// keyStepMinutes is how far one arrow key press moves or resizes a slot.
	keyStepMinutes = 5
)

// undoState is the most recent delete that can still be undone.
type undoState struct {
	id    string
	label string
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	config *config.Config
	svc    schedule.Service
	store  commands.Store
	logger *zap.Logger
	now    func() time.Time

	// Theme and styles
	themeName string
	styles    *Styles

	// Grid state
	editor    *grid.Editor
	date      string
	loading   bool
	selected  string // slot id
	cursorRow int    // row of the last click on empty grid
	cursorMin int    // minute of the last click on empty grid, -1 when unset
	dragMoved bool   // pointer moved since press
	pollOpts  poll.Options

	// Month state
	screen    Screen
	month     string
	monthSel  string
	monthDays map[string]int
	monthLoad bool

	mode Mode
	form *slotForm
	undo *undoState

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusErr  bool
	statusTime time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// WithTheme sets the initial theme name.
func WithTheme(name string) ModelOption {
	return func(m *Model) {
		m.setTheme(name)
	}
}

// WithDate sets the initial date (YYYY-MM-DD).
func WithDate(date string) ModelOption {
	return func(m *Model) {
		if _, err := dateutil.ParseDate(date); err == nil && date != "" {
			m.date = date
		}
	}
}

// WithPollOptions overrides the post-commit verification pacing.
func WithPollOptions(opts poll.Options) ModelOption {
	return func(m *Model) {
		m.pollOpts = opts
	}
}

// New creates a new TUI model. store may be nil, which disables undo and
// theme persistence.
func New(svc schedule.Service, store commands.Store, cfg *config.Config, opts ...ModelOption) *Model {
	g, err := cfg.Geometry()
	if err != nil {
		g = grid.DefaultGeometry()
	}

	m := &Model{
		config:    cfg,
		svc:       svc,
		store:     store,
		logger:    zap.NewNop(),
		now:       time.Now,
		editor:    grid.NewEditor(g),
		cursorMin: -1,
		monthDays: make(map[string]int),
		mode:      ModeNormal,
		screen:    ScreenDay,
	}
	m.setTheme(cfg.UI.Theme)

	for _, opt := range opts {
		opt(m)
	}

	if m.date == "" {
		m.date = dateutil.FormatDate(m.now())
	}
	m.loading = true
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadDay(m.svc, m.date)
}

// setTheme loads a theme and rebuilds the styles.
func (m *Model) setTheme(name string) {
	t, err := theme.Load(name)
	if err != nil {
		t, _ = theme.Load(theme.Light)
	}
	m.themeName = t.Name
	m.styles = NewStyles(t)
}

// today returns the current date.
func (m Model) today() string {
	return dateutil.FormatDate(m.now())
}

// layout computes the grid placement for the current terminal size.
func (m Model) layout() gridLayout {
	names := make([]string, 0, len(m.editor.Resources()))
	for _, r := range m.editor.Resources() {
		names = append(names, r.FullName)
	}
	if len(names) == 0 {
		names = append(names, anonymousRowLabel)
	}
	return newGridLayout(m.editor.Geometry(), m.width, m.height, m.editor.Rows().Len(), labelWidth(names), m.config.UI.CellsPerHour)
}

// selectedSlot returns the selected slot if it is still on screen.
func (m Model) selectedSlot() (slot.Slot, bool) {
	if m.selected == "" {
		return slot.Slot{}, false
	}
	return m.editor.Slot(m.selected)
}

// resourceName returns the display name of a resource id.
func (m Model) resourceName(id string) string {
	for _, r := range m.editor.Resources() {
		if r.ID == id {
			return r.FullName
		}
	}
	return id
}

// Run starts the TUI.
func Run(svc schedule.Service, store commands.Store, cfg *config.Config, opts ...ModelOption) error {
	model := New(svc, store, cfg, opts...)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
