package overlay

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tbsim/internal/geometry"
)

// Legend describes each item, one line per item, below a title.
func Legend(title string, items []Item) []string {
	lines := []string{title}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%-6s %-12s %s", colorName(it.Color), it.Label, describe(it.Rect)))
	}
	return lines
}

func colorName(c uint32) string {
	switch c {
	case ColorFrame:
		return "gray"
	case ColorDestination:
		return "blue"
	case ColorDetection:
		return "green"
	case ColorContent:
		return "orange"
	default:
		return fmt.Sprintf("#%06x", c)
	}
}

func describe(r geometry.Rect) string {
	if r.IsInfinite() {
		return "everywhere"
	}
	return fmt.Sprintf("%.0fx%.0f at (%.0f,%.0f)", r.Width(), r.Height(), r.MinX(), r.MinY())
}

func (m *Manager) renderHint(lines []string, bounds Rect, avoid []Rect) {
	if len(lines) == 0 || bounds.Width <= 0 || bounds.Height <= 0 {
		m.hideHint()
		return
	}
	if !m.ensureHintResources() {
		m.hideHint()
		return
	}

	hint := m.hint
	conn := m.xu.Conn()

	width, height := hintDimensions(lines)
	width = max(min(width, bounds.Width-2*hintMargin), 1)
	height = max(min(height, bounds.Height-2*hintMargin), 1)
	pos := chooseHintPosition(bounds, avoid, width, height)

	m.updateWindow(hint.Window, pos, ColorHintBg)
	xproto.ChangeGC(
		conn,
		hint.GC,
		xproto.GcForeground|xproto.GcBackground,
		[]uint32{ColorHintText, ColorHintBg},
	)

	baseline := hintPaddingY + hintLineHeight - 4
	for i, line := range lines {
		if line == "" {
			continue
		}
		if len(line) > 255 {
			line = line[:255]
		}
		xproto.ImageText8(
			conn,
			byte(len(line)),
			xproto.Drawable(hint.Window),
			hint.GC,
			int16(hintPaddingX),
			int16(baseline+i*hintLineHeight),
			line,
		)
	}

	xproto.MapWindow(conn, hint.Window)
	hint.mapped = true
}

func (m *Manager) ensureHintResources() bool {
	if m.hint.disabled {
		return false
	}
	if m.hint.created {
		return true
	}

	conn := m.xu.Conn()

	hintWindow, err := m.createOverrideRedirectWindow()
	if err != nil {
		m.disableHint()
		return false
	}

	font, err := xproto.NewFontId(conn)
	if err != nil {
		xproto.DestroyWindow(conn, hintWindow)
		m.disableHint()
		return false
	}

	opened := false
	for _, name := range []string{"fixed", "9x15", "8x13", "6x13"} {
		if xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check() == nil {
			opened = true
			break
		}
	}
	if !opened {
		xproto.DestroyWindow(conn, hintWindow)
		m.disableHint()
		return false
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		xproto.DestroyWindow(conn, hintWindow)
		m.disableHint()
		return false
	}

	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(hintWindow),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{ColorHintText, ColorHintBg, uint32(font), 0},
	).Check()
	if err != nil {
		xproto.FreeGC(conn, gc)
		xproto.CloseFont(conn, font)
		xproto.DestroyWindow(conn, hintWindow)
		m.disableHint()
		return false
	}

	m.hint.Window = hintWindow
	m.hint.GC = gc
	m.hint.Font = font
	m.hint.created = true
	return true
}

func (m *Manager) disableHint() {
	m.destroyHint()
	m.hint.disabled = true
}

func (m *Manager) hideHint() {
	if !m.hint.mapped {
		return
	}
	xproto.UnmapWindow(m.xu.Conn(), m.hint.Window)
	m.hint.mapped = false
}

func (m *Manager) destroyHint() {
	conn := m.xu.Conn()
	if m.hint.GC != 0 {
		xproto.FreeGC(conn, m.hint.GC)
	}
	if m.hint.Font != 0 {
		xproto.CloseFont(conn, m.hint.Font)
	}
	if m.hint.Window != 0 {
		xproto.DestroyWindow(conn, m.hint.Window)
	}
	disabled := m.hint.disabled
	*m.hint = hintPanel{disabled: disabled}
}

func hintDimensions(lines []string) (width, height int) {
	maxChars := 0
	for _, line := range lines {
		maxChars = max(maxChars, len(line))
	}
	width = max(maxChars*hintCharWidth+2*hintPaddingX, hintMinWidth)
	height = len(lines)*hintLineHeight + 2*hintPaddingY
	return width, height
}

// chooseHintPosition picks the first corner of bounds (top-right, top-left,
// bottom-right, bottom-left) whose panel does not overlap avoid.
func chooseHintPosition(bounds Rect, avoid []Rect, width, height int) Rect {
	left := bounds.X + hintMargin
	right := max(bounds.X+bounds.Width-hintMargin-width, left)
	top := bounds.Y + hintMargin
	bottom := max(bounds.Y+bounds.Height-hintMargin-height, top)

	candidates := []Rect{
		{X: right, Y: top, Width: width, Height: height},
		{X: left, Y: top, Width: width, Height: height},
		{X: right, Y: bottom, Width: width, Height: height},
		{X: left, Y: bottom, Width: width, Height: height},
	}
	for _, c := range candidates {
		free := true
		for _, a := range avoid {
			if rectsIntersect(c, a) {
				free = false
				break
			}
		}
		if free {
			return c
		}
	}
	return candidates[0]
}

func rectsIntersect(a, b Rect) bool {
	return a.X < b.X+b.Width &&
		a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height &&
		a.Y+a.Height > b.Y
}
