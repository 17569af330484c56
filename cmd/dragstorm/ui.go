package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/dragstorm"
)

const (
	mouseInput    dragstorm.InputID = "mouse"
	keyboardInput dragstorm.InputID = "keyboard"

	colWidth  = 24
	colGap    = 2
	listTop   = 2
	frameRate = 30
)

var (
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleHeader   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleFocused  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Reverse(true)
	styleItem     = tcell.StyleDefault
	styleChosen   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleSlot     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleGhost    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Dim(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

const helpLine = "tab: column  up/down: move  space: grab/drop  left/right: zone  x: select  esc: cancel  q: quit"

// column pairs one board column with its sortable zone and screen origin.
type column struct {
	name    string
	sort    *dragstorm.Sortable
	originX int
}

// ui is the terminal front end: it maps tcell input onto the engine's
// pointer and keyboard pipelines and redraws from document geometry.
type ui struct {
	screen  tcell.Screen
	engine  *dragstorm.Engine
	board   *Board
	cols    []*column
	keys    []*dragstorm.Keyboard
	idAttr  string
	focus   int
	status  string
	lastDoc dragstorm.Point
	mouseX  int
	mouseY  int
	buttons tcell.ButtonMask
	log     zerolog.Logger
}

func newUI(engine *dragstorm.Engine, board *Board, sortables []*dragstorm.Sortable, log zerolog.Logger) *ui {
	u := &ui{
		engine: engine,
		board:  board,
		status: "ready",
		log:    log,
		idAttr: sortables[0].Options().DataIDAttr,
	}
	for i, s := range sortables {
		u.cols = append(u.cols, &column{
			name:    board.Columns[i].Name,
			sort:    s,
			originX: i * (colWidth + colGap),
		})
		u.keys = append(u.keys, s.Keyboard(keyboardInput))
		s.Announce(func(m string) { u.status = m })
	}
	return u
}

// Run owns the screen until the user quits.
func (u *ui) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	u.screen = screen
	screen.EnableMouse()
	defer screen.Fini()

	// Animation frames: a ticker wakes the event loop so FLIP offsets
	// advance between input events.
	done := make(chan struct{})
	defer close(done)
	go func() {
		tick := time.NewTicker(time.Second / frameRate)
		defer tick.Stop()
		for {
			select {
			case <-done:
				return
			case <-tick.C:
				_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		u.draw()
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
		case *tcell.EventMouse:
			u.handleMouse(ev)
		case *tcell.EventKey:
			if u.handleKey(ev) {
				return nil
			}
		case nil:
			return nil
		}
	}
}

// docPoint translates a screen cell into document coordinates. Points in
// the gaps between columns do not map.
func (u *ui) docPoint(sx, sy int) (dragstorm.Point, bool) {
	for _, c := range u.cols {
		if sx < c.originX || sx >= c.originX+colWidth {
			continue
		}
		rect := c.sort.Container().LayoutRect()
		localY := float64(sy - listTop)
		if localY < 0 {
			localY = 0
		}
		return dragstorm.Point{X: float64(sx - c.originX), Y: rect.Y + localY}, true
	}
	return dragstorm.Point{}, false
}

func (u *ui) handleMouse(ev *tcell.EventMouse) {
	u.mouseX, u.mouseY = ev.Position()
	p, ok := u.docPoint(u.mouseX, u.mouseY)
	if ok {
		u.lastDoc = p
	} else {
		p = u.lastDoc
	}

	prev := u.buttons
	u.buttons = ev.Buttons()

	if u.buttons&tcell.Button3 != 0 && prev&tcell.Button3 == 0 && ok {
		u.toggleSelectAt(p)
		return
	}

	held := u.buttons&tcell.Button1 != 0
	was := prev&tcell.Button1 != 0
	switch {
	case held && !was:
		if ok {
			u.engine.PointerDown(mouseInput, p)
		}
	case held && was:
		u.engine.PointerMove(mouseInput, p)
	case !held && was:
		u.engine.PointerUp(mouseInput, p)
	}
}

func (u *ui) handleKey(ev *tcell.EventKey) bool {
	dragging := u.engine.Dragging(keyboardInput)

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		u.engine.Cancel(mouseInput)
		u.command(dragstorm.CmdCancel)
	case tcell.KeyTab:
		if !dragging {
			u.focus = (u.focus + 1) % len(u.cols)
		}
	case tcell.KeyBacktab:
		if !dragging {
			u.focus = (u.focus + len(u.cols) - 1) % len(u.cols)
		}
	case tcell.KeyUp:
		u.command(dragstorm.CmdFocusPrev)
	case tcell.KeyDown:
		u.command(dragstorm.CmdFocusNext)
	case tcell.KeyLeft:
		if dragging {
			u.command(dragstorm.CmdZonePrev)
		} else {
			u.focus = (u.focus + len(u.cols) - 1) % len(u.cols)
		}
	case tcell.KeyRight:
		if dragging {
			u.command(dragstorm.CmdZoneNext)
		} else {
			u.focus = (u.focus + 1) % len(u.cols)
		}
	case tcell.KeyEnter:
		u.command(dragstorm.CmdGrab)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			u.command(dragstorm.CmdGrab)
		case 'x':
			u.toggleFocusedSelect()
		}
	}
	return false
}

func (u *ui) command(cmd dragstorm.Command) {
	if err := u.keys[u.focus].Handle(cmd); err != nil {
		u.status = err.Error()
		u.log.Debug().Err(err).Msg("keyboard command rejected")
	}
}

func (u *ui) toggleFocusedSelect() {
	c := u.cols[u.focus]
	items := c.sort.Items()
	if f := u.keys[u.focus].Focus(); f < len(items) {
		c.sort.ToggleSelect(items[f])
	}
}

func (u *ui) toggleSelectAt(p dragstorm.Point) {
	for _, c := range u.cols {
		for _, item := range c.sort.Items() {
			if item.LayoutRect().Contains(p) {
				c.sort.ToggleSelect(item)
				return
			}
		}
	}
}

func (u *ui) draw() {
	s := u.screen
	s.Clear()
	drawText(s, 0, 0, styleTitle, u.board.Title)

	now := time.Now()
	for i, c := range u.cols {
		u.drawColumn(i, c, now)
	}

	if items := u.engine.DragItems(mouseInput); len(items) > 0 {
		label := items[0].Attr(u.idAttr)
		if len(items) > 1 {
			label = fmt.Sprintf("%s +%d", label, len(items)-1)
		}
		drawText(s, u.mouseX+1, u.mouseY, styleGhost, "["+label+"]")
	}

	_, height := s.Size()
	drawText(s, 0, height-2, styleStatus, helpLine)
	drawText(s, 0, height-1, styleStatus, u.status)
	s.Show()
}

func (u *ui) drawColumn(i int, c *column, now time.Time) {
	focused := i == u.focus
	header := fmt.Sprintf(" %s (%d) ", c.name, len(c.sort.Items()))
	hs := styleHeader
	if focused {
		hs = styleFocused
	}
	drawText(u.screen, c.originX, 1, hs, header)

	crect := c.sort.Container().LayoutRect()
	opts := c.sort.Options()
	keyboardIdle := !u.engine.Dragging(keyboardInput)

	idx := 0
	for _, child := range c.sort.Container().Children() {
		if child.Style.Hidden {
			continue
		}
		rect := child.LayoutRect()
		off := c.sort.RenderOffset(child, now)
		row := listTop + int(rect.Y-crect.Y+off.Y+0.5)

		if child.Attr(dragstorm.PlaceholderAttr) != "" {
			drawText(u.screen, c.originX, row, styleSlot, strings.Repeat("-", colWidth-2))
			continue
		}

		st := styleItem
		switch {
		case child.HasClass(opts.ChosenClass):
			st = styleChosen
		case child.HasClass(opts.SelectedClass):
			st = styleSelected
		}
		prefix := "  "
		if focused && keyboardIdle && idx == u.keys[i].Focus() {
			prefix = "> "
		}
		drawText(u.screen, c.originX, row, st, prefix+child.Attr(opts.DataIDAttr))
		idx++
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
