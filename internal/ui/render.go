package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/linuxCowboy/vbl/pkg/config"
	"github.com/linuxCowboy/vbl/pkg/edit"
	"github.com/linuxCowboy/vbl/pkg/fileview"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	if m.busy && m.frozen != "" {
		// A scan goroutine owns the views right now; show the snapshot
		// taken in beginScan. The status line below stays live.
		b.WriteString(m.frozen)
	} else {
		b.WriteString(m.renderPanes())
	}
	b.WriteString(m.renderPromptArea())
	return b.String()
}

func (m *Model) renderPanes() string {
	var b strings.Builder
	lines := paneLines(m.height, m.twoFiles())

	b.WriteString(m.renderPane(m.top(), lines, m.lock == lockTop))
	if m.twoFiles() {
		b.WriteString(m.renderPane(m.bottom(), lines, m.lock == lockBottom))
	}
	return b.String()
}

func (m *Model) renderPane(v *fileview.View, lines int, locked bool) string {
	var b strings.Builder
	b.WriteString(m.renderHeader(v, locked))
	b.WriteByte('\n')

	switch {
	case m.edit != nil && v == m.activeView():
		m.renderEditBody(&b, v, lines)
	case m.scrollPage != nil && !m.twoFiles():
		m.renderScrollBody(&b, lines)
	default:
		m.renderWindowBody(&b, v, lines)
	}
	return b.String()
}

func (m *Model) renderHeader(v *fileview.View, locked bool) string {
	style := m.styles.Header
	tag := ""
	if locked {
		style = m.styles.HeaderLock
		tag = " [locked]"
	}
	if m.edit != nil && v == m.activeView() {
		tag += " [edit]"
	}
	text := fmt.Sprintf(" %s  0x%09X  %s  %d%%%s",
		v.Path(), v.Offset(), humanize.IBytes(uint64(v.Size())), v.Percent(), tag)
	if pad := m.width - len(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return style.Render(text)
}

// renderWindowBody prints the plain hex window.
func (m *Model) renderWindowBody(b *strings.Builder, v *fileview.View, lines int) {
	window := v.Window()
	flags := m.diffFlagsFor(v)
	matchLo, matchHi := m.matchRange(v)

	for row := 0; row < lines; row++ {
		start := row * config.LineWidth
		if start >= len(window) {
			b.WriteString(m.styles.Dim.Render("~"))
			b.WriteByte('\n')
			continue
		}
		end := start + config.LineWidth
		if end > len(window) {
			end = len(window)
		}
		b.WriteString(m.renderLine(v.Offset()+int64(start), window[start:end], byteContext{
			flags:   flags,
			flagOff: start,
			matchLo: matchLo - start,
			matchHi: matchHi - start,
			cursor:  -1,
		}))
		b.WriteByte('\n')
	}
}

// renderScrollBody prints a collapsed smart-scroll page, marking lines
// that swallowed identical predecessors.
func (m *Model) renderScrollBody(b *strings.Builder, lines int) {
	page := m.scrollPage
	offset := page.Offset
	row := 0
	for i := 0; row < lines && i*config.LineWidth < len(page.Data); i++ {
		start := i * config.LineWidth
		end := start + config.LineWidth
		if end > len(page.Data) {
			end = len(page.Data)
		}
		var skip int64
		if i < len(page.Skips) {
			skip = page.Skips[i]
		}
		offset += skip * int64(config.LineWidth)
		line := m.renderLine(offset, page.Data[start:end], byteContext{matchLo: -1, matchHi: -1, cursor: -1})
		if skip > 0 {
			line += m.styles.Dim.Render(fmt.Sprintf("  +%d", skip))
		}
		b.WriteString(line)
		b.WriteByte('\n')
		offset += int64(end - start)
		row++
	}
	for ; row < lines; row++ {
		b.WriteString(m.styles.Dim.Render("~"))
		b.WriteByte('\n')
	}
}

// renderEditBody prints the edit buffer with change tags and the cursor.
func (m *Model) renderEditBody(b *strings.Builder, v *fileview.View, lines int) {
	es := m.edit
	buf := es.session.Bytes()
	tags := es.session.Tags()

	for row := 0; row < lines; row++ {
		start := row * config.LineWidth
		if start >= len(buf) && !(start == 0 && len(buf) == 0) {
			b.WriteString(m.styles.Dim.Render("~"))
			b.WriteByte('\n')
			continue
		}
		end := start + config.LineWidth
		if end > len(buf) {
			end = len(buf)
		}
		b.WriteString(m.renderLine(es.session.Origin()+int64(start), buf[start:end], byteContext{
			tags:    tags,
			flagOff: start,
			matchLo: -1,
			matchHi: -1,
			cursor:  es.cursor - start,
			ascii:   es.ascii,
		}))
		b.WriteByte('\n')
	}
}

// byteContext carries per-line highlight inputs for renderLine. Indexes
// are relative to the line start; out-of-range values disable a layer.
type byteContext struct {
	flags   []bool
	tags    []edit.Tag
	flagOff int
	matchLo int
	matchHi int
	cursor  int
	ascii   bool
}

// renderLine formats one hex line: a 9-digit hex address, the bytes in
// four 8-byte groups, then the ASCII column.
func (m *Model) renderLine(offset int64, data []byte, bc byteContext) string {
	var b strings.Builder
	b.WriteString(m.styles.Address.Render(fmt.Sprintf("%09X", offset)))
	b.WriteString("  ")

	for i := 0; i < config.LineWidth; i++ {
		if i > 0 && i%8 == 0 {
			b.WriteByte(' ')
		}
		if i >= len(data) {
			b.WriteString("   ")
			continue
		}
		cell := fmt.Sprintf("%02X", data[i])
		b.WriteString(m.byteStyle(i, bc, false).Render(cell))
		b.WriteByte(' ')
	}

	b.WriteByte(' ')
	for i := 0; i < len(data); i++ {
		ch := data[i]
		if ch < 0x20 || ch > 0x7E {
			ch = '.'
		}
		b.WriteString(m.byteStyle(i, bc, true).Render(string(ch)))
	}
	return b.String()
}

// byteStyle picks the highlight for one byte cell: cursor beats edit
// tags, which beat diff flags, which beat search match shading.
func (m *Model) byteStyle(i int, bc byteContext, asciiCol bool) lipgloss.Style {
	if i == bc.cursor && m.edit != nil {
		if asciiCol == bc.ascii {
			return m.styles.Cursor
		}
		return m.styles.Bold
	}
	if bc.tags != nil {
		switch bc.tags[bc.flagOff+i] {
		case edit.TagChanged:
			return m.styles.Changed
		case edit.TagInserted:
			return m.styles.Inserted
		}
	}
	if bc.flags != nil && bc.flagOff+i < len(bc.flags) && bc.flags[bc.flagOff+i] {
		return m.styles.Diff
	}
	if i >= bc.matchLo && i < bc.matchHi {
		return m.styles.Match
	}
	if m.raster && (i/8)%2 == 1 {
		return m.styles.Raster
	}
	if asciiCol {
		return m.styles.ASCII
	}
	return m.styles.Hex
}

// diffFlagsFor returns the shared diff flags, valid for both panes
// since they are position aligned.
func (m *Model) diffFlagsFor(v *fileview.View) []bool {
	if m.diff == nil {
		return nil
	}
	return m.diff.Flags()
}

// matchRange maps the last search match into window-relative bounds, or
// an empty range when no match lands in the window.
func (m *Model) matchRange(v *fileview.View) (int, int) {
	if m.matcher == nil || m.matcher.MatchOffset() < 0 {
		return -1, -1
	}
	lo := m.matcher.MatchOffset() - v.Offset()
	hi := lo + int64(m.matcher.Len())
	if hi <= 0 || lo >= int64(v.Len()) {
		return -1, -1
	}
	return int(lo), int(hi)
}

func (m *Model) renderPromptArea() string {
	var b strings.Builder

	status := m.status
	style := m.styles.Status
	if m.statusErr {
		style = m.styles.Error
	}
	if status == "" {
		status = " "
	}
	b.WriteString(style.Render(status))
	b.WriteByte('\n')

	if m.mode != promptNone {
		b.WriteString(m.styles.Prompt.Render(m.input.View()))
	} else {
		b.WriteString(m.styles.Dim.Render(m.keyHints()))
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *Model) keyHints() string {
	switch {
	case m.edit != nil:
		return "type hex/ascii  tab:column  ins/del:length  ctrl+o:copy other  ctrl+s:save  esc:leave"
	case m.twoFiles():
		return "enter:next diff  #:prev diff  f:find  g:goto  1/2:sync  t/b:lock  e:edit  h:help  q:quit"
	default:
		return "enter:scroll  f:find  x:find hex  g:goto  m:mark  e:edit  r:raster  h:help  q:quit"
	}
}
