package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxCowboy/vbl/pkg/fileview"
	"github.com/linuxCowboy/vbl/pkg/search"
)

func (m *Model) openPrompt(mode promptMode, prompt string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue("")
	m.histPos = len(m.history[mode])
	m.input.Focus()
	return m, nil
}

func (m *Model) closePrompt() {
	m.mode = promptNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		mode := m.mode
		m.closePrompt()
		if mode == promptCommit || mode == promptLargeShift {
			if m.edit != nil {
				m.edit.session.Resume()
			}
			m.status = "commit aborted, still editing"
		}
		return m, nil

	case "enter":
		return m.submitPrompt()

	case "up":
		m.recallHistory(-1)
		return m, nil
	case "down":
		m.recallHistory(+1)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// recallHistory steps through earlier inputs of the current prompt.
func (m *Model) recallHistory(dir int) {
	hist := m.history[m.mode]
	if len(hist) == 0 {
		return
	}
	pos := m.histPos + dir
	if pos < 0 {
		pos = 0
	}
	if pos > len(hist) {
		pos = len(hist)
	}
	m.histPos = pos
	if pos == len(hist) {
		m.input.SetValue("")
	} else {
		m.input.SetValue(hist[pos])
	}
	m.input.CursorEnd()
}

// remember appends the input to the prompt's history ring.
func (m *Model) remember(mode promptMode, value string) {
	hist := m.history[mode]
	if len(hist) > 0 && hist[len(hist)-1] == value {
		return
	}
	hist = append(hist, value)
	if max := m.cfg.HistorySize; max > 0 && len(hist) > max {
		hist = hist[len(hist)-max:]
	}
	m.history[mode] = hist
}

func (m *Model) submitPrompt() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	mode := m.mode
	m.closePrompt()

	switch mode {
	case promptFindText, promptFindHex:
		if value == "" {
			return m, nil
		}
		m.remember(mode, value)
		return m.startSearch(mode, value)

	case promptGoto:
		if value == "" {
			return m, nil
		}
		m.remember(mode, value)
		if err := m.gotoTarget(value); err != nil {
			m.setError(err)
			return m, nil
		}
		m.afterMove()
		return m, nil

	case promptCommit:
		return m.answerCommit(value)
	case promptLargeShift:
		return m.answerLargeShift(value)
	}
	return m, nil
}

func (m *Model) startSearch(mode promptMode, value string) (tea.Model, tea.Cmd) {
	var pattern []byte
	var opts []search.Option
	if mode == promptFindHex {
		p, err := search.ParseHex(value)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		pattern = p
	} else {
		pattern = []byte(value)
		// An all-lowercase text pattern searches case-insensitively.
		if strings.ToLower(value) == value {
			opts = append(opts, search.WithCaseFold())
		}
	}
	opts = append(opts,
		search.WithBlockSizes(m.cfg.SearchBlockSize, m.cfg.SearchBackBlockSize),
		search.WithIndent(m.cfg.SearchIndent()),
	)

	matcher, err := search.New(pattern, opts...)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.matcher = matcher

	ctx := m.beginScan()
	m.status = "searching... esc cancels"
	return m, m.searchCmd(ctx, false)
}

// gotoTarget jumps the movable panes: plain decimal, 0x-prefixed hex,
// or a percentage of the file size with a trailing %.
func (m *Model) gotoTarget(value string) error {
	if strings.HasSuffix(value, "%") {
		pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
		if err != nil || pct < 0 || pct > 100 {
			return fmt.Errorf("bad percentage %q", value)
		}
		return m.moveEach(func(v *fileview.View) error {
			return v.MoveTo(v.Size() / 100 * int64(pct))
		})
	}

	base := 10
	digits := value
	if strings.HasPrefix(strings.ToLower(value), "0x") {
		base = 16
		digits = value[2:]
	}
	off, err := strconv.ParseInt(digits, base, 64)
	if err != nil || off < 0 {
		return fmt.Errorf("bad offset %q", value)
	}
	return m.moveEach(func(v *fileview.View) error {
		return v.MoveTo(off)
	})
}
