package ui

import "strings"

// helpText lists every key binding, grouped the way the prompt hints
// group them. Any key leaves the overlay.
const helpText = `
  Movement
    up/down          move one line
    space, pgdown    next page
    backspace, pgup  previous page
    home / end       start / end of file
    + or *           skip forward by percent
    -                skip back by percent
    g                go to offset (decimal, 0x hex, or N%)
    m                set mark at current offset
    '                jump to mark (swaps with current position)

  Search
    f                find text (all-lowercase matches any case)
    x                find hex bytes ("AA BB 0d")
    n / p            repeat search forward / backward
    z / Z            seek next byte differing from the first in view

  One file
    enter            smart scroll: collapse repeated lines

  Two files
    enter            next difference (skips identical blocks)
    # or \           previous difference
    1 / 2            sync other pane to top / bottom position
    t / b            lock top / bottom pane

  Editing
    e                enter edit mode
    tab              switch hex / ascii column
    ins / del        insert / delete a byte (rewrites the file tail)
    ctrl+o           copy byte from the other pane
    ctrl+s           save
    esc              leave edit mode (asks to save)

  Other
    r                toggle 8-byte raster shading
    esc              cancel a running scan
    q                quit
`

func (m *Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.Bold.Render(" vbl key bindings"))
	b.WriteByte('\n')
	for _, line := range strings.Split(strings.Trim(helpText, "\n"), "\n") {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(m.styles.Dim.Render("\n press any key to return"))
	return b.String()
}
