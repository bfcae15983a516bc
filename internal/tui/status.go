// Package tui renders daemon state for the terminal and hosts the
// interactive settings form.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/tbsim/internal/ipc"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(16).Align(lipgloss.Right).PaddingRight(2)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// RenderStatus formats a daemon status snapshot.
func RenderStatus(st *ipc.StatusData, now time.Time) string {
	hiding := okStyle.Render(st.Hiding)
	if st.Hiding == "hidden" {
		hiding = warnStyle.Render(st.Hiding)
	}

	lines := []string{
		titleStyle.Render("tbsim"),
		"",
		row("Docking", st.Docking),
		labelStyle.Render("Visibility") + hiding,
		row("Frame", formatRect(st.Frame)),
		row("Alpha", fmt.Sprintf("%.2f", st.Alpha)),
		row("Monitor", displayOrDefault(st.Monitor, "(unknown)")),
		row("Title bar", onOff(st.Chrome)),
		row("Hide", formatDeadline(st.HideDeadline, now)),
	}
	if st.Animating {
		lines = append(lines, row("Animating", "yes"))
	}
	if st.Closed {
		lines = append(lines, row("Window", "closed"))
	}
	lines = append(lines,
		row("Content", mountedLabel(st.ContentMounted)),
		"",
		dimStyle.Render(fmt.Sprintf("  daemon up %s", time.Duration(st.UptimeSeconds)*time.Second)),
	)
	return strings.Join(lines, "\n")
}

// RenderMonitors formats the monitor list, marking the one under the mouse.
func RenderMonitors(m *ipc.MonitorsData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Monitors (mouse at %.0f,%.0f)", m.MouseX, m.MouseY)))
	b.WriteString("\n")
	for _, mon := range m.Monitors {
		marker := dimStyle.Render("·")
		if mon.UnderMouse {
			marker = okStyle.Render("●")
		}
		fmt.Fprintf(&b, "\n%s %s\n", marker, valueStyle.Render(fmt.Sprintf("%d %s", mon.ID, mon.Name)))
		b.WriteString(row("Frame", formatRect(mon.Frame)) + "\n")
		b.WriteString(row("Visible", formatRect(mon.VisibleFrame)) + "\n")
	}
	return b.String()
}

func formatRect(r ipc.Rect) string {
	return fmt.Sprintf("%.0fx%.0f at (%.0f, %.0f)", r.Width, r.Height, r.X, r.Y)
}

func formatDeadline(deadline *time.Time, now time.Time) string {
	if deadline == nil {
		return "never"
	}
	left := deadline.Sub(now)
	if left <= 0 {
		return "due"
	}
	return fmt.Sprintf("in %s", left.Round(100*time.Millisecond))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func mountedLabel(b bool) string {
	if b {
		return "mounted"
	}
	return "not mounted"
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
