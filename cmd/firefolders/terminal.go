package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/fire-folders/folders/ports"
	"github.com/ZanzyTHEbar/fire-folders/folders/view"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorFire    = lipgloss.Color("#FF6B35")
	colorMuted   = lipgloss.Color("#7A7A7A")
	colorSuccess = lipgloss.Color("#2ECC71")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")

	// decoration colors by name
	rankColors = map[string]lipgloss.Color{
		"red":       lipgloss.Color("#FF0000"),
		"goldenrod": lipgloss.Color("#DAA520"),
		"hotpink":   lipgloss.Color("#FF69B4"),
	}
)

type styles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Current lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		Title:   r.NewStyle().Bold(true).Foreground(colorFire),
		Heading: r.NewStyle().Bold(true).Underline(true),
		Muted:   r.NewStyle().Foreground(colorMuted),
		Success: r.NewStyle().Foreground(colorSuccess),
		Warning: r.NewStyle().Foreground(colorWarning),
		Error:   r.NewStyle().Foreground(colorError),
		Current: r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFire).Padding(0, 1),
	}
}

// terminal is the line-oriented Interactor of the CLI
type terminal struct {
	in        *bufio.Reader
	out       io.Writer
	renderer  *lipgloss.Renderer
	styles    styles
	assumeYes bool
}

var _ ports.Interactor = (*terminal)(nil)

func newTerminal(in io.Reader, out io.Writer) *terminal {
	r := lipgloss.NewRenderer(out)
	return &terminal{
		in:       bufio.NewReader(in),
		out:      out,
		renderer: r,
		styles:   newStyles(r),
	}
}

func (t *terminal) Output(message string) {
	fmt.Fprintln(t.out, message)
}

func (t *terminal) Warning(message string) {
	fmt.Fprintln(t.out, t.styles.Warning.Render("⚠ "+message))
}

func (t *terminal) Error(message string, err error) {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	fmt.Fprintln(t.out, t.styles.Error.Render("✗ "+message))
}

// Confirm asks a yes/no question. Anything but y or yes declines, and so does EOF.
func (t *terminal) Confirm(message string) bool {
	if t.assumeYes {
		fmt.Fprintln(t.out, message+" [y/N] y")
		return true
	}
	fmt.Fprint(t.out, message+" [y/N] ")
	line, err := t.readLine()
	if err != nil {
		fmt.Fprintln(t.out)
		return false
	}
	answer := strings.ToLower(line)
	return answer == "y" || answer == "yes"
}

func (t *terminal) StartSpinner(message string) {
	fmt.Fprintln(t.out, t.styles.Muted.Render("… "+message))
}

func (t *terminal) StopSpinner(success bool, message string) {
	if success {
		fmt.Fprintln(t.out, t.styles.Success.Render("✓ "+message))
		return
	}
	fmt.Fprintln(t.out, t.styles.Error.Render("✗ "+message))
}

// readLine returns the next trimmed input line. A final line without a
// newline is still returned.
func (t *terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *terminal) decoration(d view.Decoration) string {
	return t.renderer.NewStyle().Foreground(rankColors[d.Color]).Render(d.Glyph + " " + d.Label)
}

// Render prints the render model
func (t *terminal) Render(m view.Model) {
	if !m.Open {
		t.renderLanding(m)
		return
	}

	if m.Missing {
		fmt.Fprintln(t.out, t.styles.Warning.Render(m.Heading))
		return
	}
	heading := m.Heading
	if m.Editing {
		heading += " (renaming)"
	}
	fmt.Fprintln(t.out, t.styles.Heading.Render(heading))
	fmt.Fprintln(t.out, t.styles.Muted.Render(m.CountLabel))

	if m.Current != nil {
		c := m.Current
		body := fmt.Sprintf("[%d/%d] %s\n%s  %s", c.Position+1, len(m.Items), c.ID, dateOrUnknown(c.DateTaken), t.decoration(c.Decoration))
		fmt.Fprintln(t.out, t.styles.Current.Render(body))
	} else {
		for _, it := range m.Items {
			line := fmt.Sprintf("%3d. %-32s %-19s %s", it.Position+1, it.ID, dateOrUnknown(it.DateTaken), t.decoration(it.Decoration))
			if it.PickerOpen {
				line += t.styles.Muted.Render("  [reject | neutral | favorite]")
			}
			fmt.Fprintln(t.out, line)
		}
	}

	if len(m.Actions) > 0 {
		names := make([]string, len(m.Actions))
		for i, a := range m.Actions {
			names[i] = string(a)
		}
		fmt.Fprintln(t.out, t.styles.Muted.Render("actions: "+strings.Join(names, ", ")))
	}
}

func (t *terminal) renderLanding(m view.Model) {
	fmt.Fprintln(t.out, t.styles.Title.Render(m.Title))
	fmt.Fprintf(t.out, "  0. 📁 %s\n", m.Pool.Title)
	for _, tile := range m.Tiles {
		fmt.Fprintf(t.out, "%3d. %s  %s\n", tile.Index+1, tile.Label(), t.styles.Muted.Render(tile.DateRange))
	}
	if len(m.Ranked) > 0 {
		parts := make([]string, len(m.Ranked))
		for i, rc := range m.Ranked {
			parts[i] = fmt.Sprintf("%s %d", t.decoration(rc.Decoration), rc.Count)
		}
		fmt.Fprintln(t.out, "ranked: "+strings.Join(parts, "  "))
	}
}

func dateOrUnknown(date string) string {
	if date == "" {
		return "no date"
	}
	return date
}
