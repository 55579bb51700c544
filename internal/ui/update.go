package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/linuxCowboy/vbl/pkg/config"
	"github.com/linuxCowboy/vbl/pkg/diffengine"
	"github.com/linuxCowboy/vbl/pkg/fileview"
	"github.com/linuxCowboy/vbl/pkg/scroll"
	"github.com/linuxCowboy/vbl/pkg/search"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		switch {
		case m.busy:
			return m.handleBusyKey(msg)
		case m.mode != promptNone:
			return m.handlePromptKey(msg)
		case m.edit != nil:
			return m.handleEditKey(msg)
		case m.showHelp:
			m.showHelp = false
			return m, nil
		default:
			return m.handleKey(msg)
		}

	case searchDoneMsg:
		return m.handleSearchDone(msg)
	case diffDoneMsg:
		return m.handleDiffDone(msg)
	case scrollDoneMsg:
		return m.handleScrollDone(msg)
	case seekDoneMsg:
		return m.handleSeekDone(msg)
	case commitDoneMsg:
		return m.handleCommitDone(msg)
	}
	return m, nil
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	if msg.Width < config.MinWidth || msg.Height < config.MinHeight {
		m.setError(fmt.Errorf("terminal shrank below %dx%d", config.MinWidth, config.MinHeight))
		return m, nil
	}
	// A running scan owns the views; resize them when it finishes.
	if m.busy {
		m.pendingCapacity = true
		return m, nil
	}
	m.applyCapacity()
	return m, nil
}

// handleBusyKey only lets the user cancel a running scan.
func (m *Model) handleBusyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		if m.cancel != nil {
			m.cancel()
		}
	}
	return m, nil
}

//nolint:cyclop // One case per key binding reads better than dispatch tables here
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.clearStatus()

	switch msg.String() {
	case "q", "Q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	// Movement.
	case "up":
		m.move(func(v *fileview.View) error { return v.MoveBy(-int64(config.LineWidth)) })
	case "down":
		m.move(func(v *fileview.View) error { return v.MoveBy(int64(config.LineWidth)) })
	case "pgup", "backspace":
		m.move(func(v *fileview.View) error { return v.MoveBy(-v.PageStep()) })
	case "pgdown", " ", "space":
		m.move(func(v *fileview.View) error { return v.MoveBy(v.PageStep()) })
	case "home":
		m.move(func(v *fileview.View) error { return v.MoveTo(0) })
	case "end":
		m.move(func(v *fileview.View) error { return v.MoveToEnd() })

	// Percent skips.
	case "+", "*":
		m.move(func(v *fileview.View) error { return v.Skip(m.cfg.SkipForwardPercent, false) })
	case "-":
		m.move(func(v *fileview.View) error { return v.Skip(m.cfg.SkipBackPercent, true) })

	// Enter: smart scroll on one file, next difference on two.
	case "enter":
		if m.twoFiles() {
			ctx := m.beginScan()
			m.status = "scanning for next difference... esc cancels"
			return m, m.diffCmd(ctx, false)
		}
		ctx := m.beginScan()
		return m, m.scrollCmd(ctx)

	case "#", "\\", "=":
		if m.twoFiles() {
			ctx := m.beginScan()
			m.status = "scanning for previous difference... esc cancels"
			return m, m.diffCmd(ctx, true)
		}

	// Search.
	case "f", "F":
		return m.openPrompt(promptFindText, "find: ")
	case "x", "X":
		return m.openPrompt(promptFindHex, "find hex: ")
	case "n":
		return m.repeatSearch(false)
	case "p", "N":
		return m.repeatSearch(true)

	// Seek to next byte differing from the one under the window start.
	case "z":
		ctx := m.beginScan()
		return m, m.seekNotCharCmd(ctx, false)
	case "Z":
		ctx := m.beginScan()
		return m, m.seekNotCharCmd(ctx, true)

	// Goto.
	case "g", "G":
		return m.openPrompt(promptGoto, "goto (dec, 0x hex, N%): ")

	// Marks.
	case "m":
		m.activeView().SetMark()
		m.status = fmt.Sprintf("mark set at 0x%X", m.activeView().Mark())
	case "'":
		if err := m.activeView().SwapMark(); err != nil {
			m.setError(err)
		}
		m.afterMove()

	// Pane sync and locks (two-file mode).
	case "1":
		if m.twoFiles() {
			if err := m.bottom().SyncTo(m.top()); err != nil {
				m.setError(err)
			}
			m.afterMove()
		}
	case "2":
		if m.twoFiles() {
			if err := m.top().SyncTo(m.bottom()); err != nil {
				m.setError(err)
			}
			m.afterMove()
		}
	case "t", "T":
		if m.twoFiles() {
			m.toggleLock(lockTop)
		}
	case "b", "B":
		if m.twoFiles() {
			m.toggleLock(lockBottom)
		}

	// Edit mode.
	case "e", "E":
		return m.enterEdit()

	case "r", "R":
		m.raster = !m.raster

	case "h", "?":
		m.showHelp = true
	}

	return m, nil
}

// move runs a navigation step on the movable panes and refreshes
// derived state.
func (m *Model) move(fn func(*fileview.View) error) {
	if err := m.moveEach(fn); err != nil {
		m.setError(err)
		return
	}
	m.afterMove()
}

func (m *Model) toggleLock(want lockState) {
	if m.lock == want {
		m.lock = lockNone
		m.status = "lock released"
		return
	}
	m.lock = want
	if want == lockTop {
		m.status = "top pane locked"
	} else {
		m.status = "bottom pane locked"
	}
}

func (m *Model) repeatSearch(backward bool) (tea.Model, tea.Cmd) {
	if m.matcher == nil {
		m.setError(errors.New("no previous search"))
		return m, nil
	}
	ctx := m.beginScan()
	m.status = "searching... esc cancels"
	return m, m.searchCmd(ctx, backward)
}

func (m *Model) handleSearchDone(msg searchDoneMsg) (tea.Model, tea.Cmd) {
	m.endScan()
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	switch msg.res {
	case search.Found:
		m.status = fmt.Sprintf("match at 0x%X", m.matcher.MatchOffset())
	case search.NotFound:
		m.status = "not found"
	case search.Interrupted:
		m.status = "search interrupted"
	}
	m.refreshAfterScan()
	return m, nil
}

func (m *Model) handleDiffDone(msg diffDoneMsg) (tea.Model, tea.Cmd) {
	m.endScan()
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	switch msg.res {
	case diffengine.Found:
		m.status = fmt.Sprintf("%d differing bytes in window", m.diff.Count())
	case diffengine.NotFound:
		m.status = "no more differences"
	case diffengine.Interrupted:
		m.status = "diff scan interrupted"
		_, _ = m.diff.Compute()
	}
	m.scrollPage = nil
	if m.scroller != nil {
		m.scroller.Reset()
	}
	return m, nil
}

func (m *Model) handleScrollDone(msg scrollDoneMsg) (tea.Model, tea.Cmd) {
	m.endScan()
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.scrollPage = msg.page
	if msg.page != nil && msg.page.Collapsed {
		m.status = fmt.Sprintf("scrolled to %s, identical lines collapsed",
			humanize.IBytes(uint64(msg.page.Offset)))
	}
	if msg.res == scroll.Interrupted {
		m.status = "scroll interrupted"
	}
	return m, nil
}

func (m *Model) handleSeekDone(msg seekDoneMsg) (tea.Model, tea.Cmd) {
	m.endScan()
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	switch msg.res {
	case search.Found:
		m.status = "next differing byte"
	case search.NotFound:
		m.status = "file is uniform from here"
	case search.Interrupted:
		m.status = "seek interrupted"
	}
	m.refreshAfterScan()
	return m, nil
}

// refreshAfterScan keeps the locked-pane illusion intact: scans move
// only the active view, so the diff flags must be recomputed against
// whatever the other pane shows now.
func (m *Model) refreshAfterScan() {
	m.scrollPage = nil
	if m.scroller != nil {
		m.scroller.Reset()
	}
	if m.diff != nil {
		_, _ = m.diff.Compute()
	}
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}
