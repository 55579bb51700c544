package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxCowboy/vbl/internal/logging"
	"github.com/linuxCowboy/vbl/pkg/config"
	"github.com/linuxCowboy/vbl/pkg/diffengine"
	"github.com/linuxCowboy/vbl/pkg/fileview"
	"github.com/linuxCowboy/vbl/pkg/scroll"
	"github.com/linuxCowboy/vbl/pkg/search"
)

// lockState says which pane ignores movement commands.
type lockState int

const (
	lockNone lockState = iota
	lockTop
	lockBottom
)

// promptMode says what the input line at the bottom is collecting.
type promptMode int

const (
	promptNone promptMode = iota
	promptFindText
	promptFindHex
	promptGoto
	promptCommit
	promptLargeShift
)

// PaneCapacity returns the window size in bytes for the given terminal
// height: every pane line holds one hex line, minus the pane header and
// the shared prompt area.
func PaneCapacity(height int, twoFiles bool) int {
	lines := paneLines(height, twoFiles)
	return lines * config.LineWidth
}

func paneLines(height int, twoFiles bool) int {
	usable := height - config.PromptHeight
	if twoFiles {
		return usable/2 - 1
	}
	return usable - 1
}

// Model is the Bubble Tea model for the viewer.
type Model struct {
	views  []*fileview.View
	cfg    *config.Config
	styles *Styles

	width  int
	height int

	lock   lockState
	raster bool

	diff     *diffengine.Engine
	scroller *scroll.Engine

	// scrollPage holds the last collapsed page for display; nil means the
	// panes render their plain windows.
	scrollPage *scroll.Page

	matcher *search.Matcher

	// prompt state
	mode    promptMode
	input   textinput.Model
	history map[promptMode][]string
	histPos int

	// long-scan state; cancel interrupts the running engine. The engine
	// goroutine owns the views until its done message arrives, so frozen
	// holds the pane rendering from just before the scan started and
	// pendingCapacity defers a mid-scan resize.
	busy            bool
	cancel          context.CancelFunc
	frozen          string
	pendingCapacity bool

	edit *editState

	showHelp  bool
	status    string
	statusErr bool
	quitting  bool
}

// Option configures the Model.
type Option func(*Model)

// WithColorMode sets the --color mode: auto, always, never.
func WithColorMode(mode string) Option {
	return func(m *Model) { m.styles = NewStyles(colorEnabled(mode)) }
}

// WithGeometry seeds the terminal size before the first WindowSizeMsg.
func WithGeometry(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// New builds the viewer model over one or two open views.
func New(views []*fileview.View, cfg *config.Config, opts ...Option) *Model {
	m := &Model{
		views:   views,
		cfg:     cfg,
		styles:  NewStyles(true),
		raster:  cfg.ShowRaster,
		history: make(map[promptMode][]string),
	}
	for _, opt := range opts {
		opt(m)
	}

	if len(views) == 2 {
		m.diff = diffengine.New(views[0], views[1],
			diffengine.WithSkipBlock(cfg.DiffSkipBlockSize))
		_, _ = m.diff.Compute()
	} else {
		m.scroller = scroll.New(views[0])
	}

	ti := textinput.New()
	ti.CharLimit = 256
	m.input = ti

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// top returns the first view; bottom the second or nil.
func (m *Model) top() *fileview.View { return m.views[0] }

func (m *Model) bottom() *fileview.View {
	if len(m.views) == 2 {
		return m.views[1]
	}
	return nil
}

func (m *Model) twoFiles() bool { return len(m.views) == 2 }

// movable returns the views that follow movement commands under the
// current lock.
func (m *Model) movable() []*fileview.View {
	if !m.twoFiles() {
		return m.views
	}
	switch m.lock {
	case lockTop:
		return m.views[1:]
	case lockBottom:
		return m.views[:1]
	default:
		return m.views
	}
}

// moveEach applies fn to every movable view, keeping the first error.
func (m *Model) moveEach(fn func(*fileview.View) error) error {
	for _, v := range m.movable() {
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

// afterMove recomputes the diff flags and drops stale scroll and search
// acceleration state after any non-scroll navigation.
func (m *Model) afterMove() {
	if m.scroller != nil {
		m.scroller.Reset()
	}
	m.scrollPage = nil
	if m.matcher != nil {
		m.matcher.Reset()
	}
	if m.diff != nil {
		_, _ = m.diff.Compute()
	}
}

// beginScan arms the cancellable context for a long engine run and
// snapshots the panes, since the engine repositions the views from its
// own goroutine while the UI keeps redrawing.
func (m *Model) beginScan() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	m.frozen = m.renderPanes()
	m.busy = true
	m.cancel = cancel
	return logging.WithLogger(ctx, logging.Default())
}

func (m *Model) endScan() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.busy = false
	m.frozen = ""
	if m.pendingCapacity {
		m.pendingCapacity = false
		m.applyCapacity()
	}
}

// applyCapacity resizes the windows to the current terminal geometry.
func (m *Model) applyCapacity() {
	capacity := PaneCapacity(m.height, m.twoFiles())
	for _, v := range m.views {
		if err := v.SetCapacity(capacity); err != nil {
			m.setError(err)
			return
		}
	}
	m.afterMove()
}
