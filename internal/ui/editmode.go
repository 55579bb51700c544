package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/linuxCowboy/vbl/pkg/config"
	"github.com/linuxCowboy/vbl/pkg/edit"
	"github.com/linuxCowboy/vbl/pkg/fileview"
)

// editState is the cursor and focus of an active edit session.
type editState struct {
	session *edit.Session
	cursor  int
	highNib bool // next hex keystroke sets the high nibble
	ascii   bool // ASCII column has focus
}

func (m *Model) enterEdit() (tea.Model, tea.Cmd) {
	v := m.activeView()
	session, err := edit.Begin(v,
		edit.WithChunkSize(m.cfg.ShiftChunkSize),
		edit.WithConfirmThreshold(m.cfg.ConfirmShiftBytes),
	)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.edit = &editState{session: session, highNib: true}
	m.status = "editing: tab toggles hex/ascii, ins/del change length, esc leaves"
	return m, nil
}

//nolint:cyclop // One case per key binding reads better than dispatch tables here
func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	es := m.edit
	s := es.session

	switch msg.String() {
	case "esc", "ctrl+c":
		if !s.Dirty() {
			s.Discard()
			m.edit = nil
			m.status = "edit left, nothing changed"
			return m, nil
		}
		return m.openPrompt(promptCommit, "save changes? (y/n): ")

	case "ctrl+s":
		return m.startCommit(false)

	case "tab":
		es.ascii = !es.ascii
		es.highNib = true
		return m, nil

	case "left":
		es.moveCursor(-1, s.Len())
	case "right":
		es.moveCursor(+1, s.Len())
	case "up":
		es.moveCursor(-config.LineWidth, s.Len())
	case "down":
		es.moveCursor(+config.LineWidth, s.Len())
	case "home":
		es.cursor = 0
		es.highNib = true
	case "end":
		es.cursor = s.Len() - 1
		es.highNib = true

	case "insert":
		if err := s.Insert(es.cursor, 0); err != nil {
			m.setError(err)
		}
	case "delete":
		if err := s.Delete(es.cursor); err != nil {
			m.setError(err)
		} else if es.cursor >= s.Len() && es.cursor > 0 {
			es.cursor--
		}

	case "ctrl+o":
		// Pull the byte at the cursor from the other pane.
		if other := m.otherView(); other != nil {
			if err := s.CopyFrom(other, es.cursor); err != nil {
				m.setError(err)
			} else {
				es.advance(s.Len())
			}
		}

	default:
		m.editType(msg)
	}
	return m, nil
}

// editType applies a typed character to the buffer: hex digits in the
// hex column, any printable byte in the ASCII column.
func (m *Model) editType(msg tea.KeyMsg) {
	es := m.edit
	s := es.session

	r := msg.String()
	if len(r) != 1 {
		return
	}
	ch := r[0]

	if es.ascii {
		if ch < 0x20 || ch > 0x7E {
			return
		}
		if err := s.SetByte(es.cursor, ch); err != nil {
			m.setError(err)
			return
		}
		es.advance(s.Len())
		return
	}

	nib, ok := hexDigit(ch)
	if !ok {
		return
	}
	if err := s.SetNibble(es.cursor, es.highNib, nib); err != nil {
		m.setError(err)
		return
	}
	if es.highNib {
		es.highNib = false
	} else {
		es.highNib = true
		es.advance(s.Len())
	}
}

func (es *editState) moveCursor(delta, length int) {
	es.highNib = true
	c := es.cursor + delta
	if c < 0 {
		c = 0
	}
	if c >= length {
		c = length - 1
	}
	if c < 0 {
		c = 0
	}
	es.cursor = c
}

func (es *editState) advance(length int) {
	if es.cursor < length-1 {
		es.cursor++
	}
}

func (m *Model) otherView() *fileview.View {
	if !m.twoFiles() {
		return nil
	}
	if m.activeView() == m.top() {
		return m.bottom()
	}
	return m.top()
}

// answerCommit handles the y/n save prompt when leaving edit mode.
func (m *Model) answerCommit(value string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(value) {
	case "y", "yes":
		return m.startCommit(false)
	case "n", "no":
		m.edit.session.Discard()
		m.edit = nil
		m.status = "changes discarded"
		return m, nil
	default:
		m.status = "still editing"
		return m, nil
	}
}

// answerLargeShift handles the confirmation for a shift above the
// configured threshold.
func (m *Model) answerLargeShift(value string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(value) {
	case "y", "yes":
		return m.startCommit(true)
	default:
		m.edit.session.Resume()
		m.status = "commit declined, still editing"
		return m, nil
	}
}

func (m *Model) startCommit(allowLargeShift bool) (tea.Model, tea.Cmd) {
	// The commit goroutine rewrites the file and reloads the view, so
	// the panes render from a snapshot until it reports back.
	m.frozen = m.renderPanes()
	m.busy = true
	m.status = "writing..."
	session := m.edit.session
	return m, func() tea.Msg {
		return commitDoneMsg{err: session.Commit(context.Background(), allowLargeShift)}
	}
}

func (m *Model) handleCommitDone(msg commitDoneMsg) (tea.Model, tea.Cmd) {
	m.endScan()

	switch {
	case msg.err == nil:
		size := m.activeView().Size()
		m.edit = nil
		m.status = fmt.Sprintf("saved, file is now %s", humanize.IBytes(uint64(size)))
		m.afterMove()
		return m, nil

	case errors.Is(msg.err, edit.ErrShiftNeedsConfirm):
		return m.openPrompt(promptLargeShift,
			fmt.Sprintf("%v, proceed? (y/n): ", msg.err))

	default:
		m.setError(msg.err)
		if m.edit.session.State() == edit.StateFailed {
			m.edit = nil
		}
		m.afterMove()
		return m, nil
	}
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
