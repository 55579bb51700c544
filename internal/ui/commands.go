package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxCowboy/vbl/internal/logging"
	"github.com/linuxCowboy/vbl/pkg/diffengine"
	"github.com/linuxCowboy/vbl/pkg/fileview"
	"github.com/linuxCowboy/vbl/pkg/scroll"
	"github.com/linuxCowboy/vbl/pkg/search"
)

// Messages delivered when a long engine run finishes. Each carries the
// engine's outcome; the views were repositioned by the engine itself.
type (
	searchDoneMsg struct {
		res search.Result
		err error
	}

	diffDoneMsg struct {
		res diffengine.Result
		err error
	}

	scrollDoneMsg struct {
		page *scroll.Page
		res  scroll.Result
		err  error
	}

	seekDoneMsg struct {
		res search.Result
		err error
	}

	commitDoneMsg struct {
		err error
	}
)

func (m *Model) searchCmd(ctx context.Context, backward bool) tea.Cmd {
	matcher := m.matcher
	v := m.activeView()
	return func() tea.Msg {
		var res search.Result
		var err error
		if backward {
			res, err = matcher.Backward(ctx, v)
		} else {
			res, err = matcher.Forward(ctx, v)
		}
		logging.FromContext(ctx).Debug("search finished",
			logging.FieldMatch, matcher.MatchOffset(),
			logging.FieldOffset, v.Offset(),
		)
		return searchDoneMsg{res: res, err: err}
	}
}

func (m *Model) diffCmd(ctx context.Context, backward bool) tea.Cmd {
	eng := m.diff
	top := m.top()
	return func() tea.Msg {
		var res diffengine.Result
		var err error
		if backward {
			res, err = eng.Prev(ctx)
		} else {
			res, err = eng.Next(ctx)
		}
		logging.FromContext(ctx).Debug("diff scan finished",
			logging.FieldOffset, top.Offset(),
			logging.FieldDiffs, eng.Count(),
		)
		return diffDoneMsg{res: res, err: err}
	}
}

func (m *Model) scrollCmd(ctx context.Context) tea.Cmd {
	eng := m.scroller
	return func() tea.Msg {
		page, res, err := eng.Scroll(ctx)
		if page != nil {
			logging.FromContext(ctx).Debug("scroll finished",
				logging.FieldOffset, page.Offset,
			)
		}
		return scrollDoneMsg{page: page, res: res, err: err}
	}
}

func (m *Model) seekNotCharCmd(ctx context.Context, upward bool) tea.Cmd {
	v := m.activeView()
	blockSize := m.cfg.SearchBlockSize
	return func() tea.Msg {
		res, err := search.SeekNotChar(ctx, v, blockSize, upward)
		logging.FromContext(ctx).Debug("seek finished",
			logging.FieldOffset, v.Offset(),
		)
		return seekDoneMsg{res: res, err: err}
	}
}

// activeView is the pane search and seek act on: the unlocked one, or
// the top pane when nothing is locked.
func (m *Model) activeView() *fileview.View {
	views := m.movable()
	return views[0]
}
