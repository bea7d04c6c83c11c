// Package feedbackview renders a live terminal preview of the targets a
// mapping set is currently driving: a horizontal meter bar per target plus
// an LED-ring color swatch, the way a motorized-fader/LED-ring controller
// would show the same state on hardware. It gives the teacher's bubbletea/
// bubbles/lipgloss/termenv/go-colorful stack a home even though the
// control-mapping core itself (internal/mode, internal/source) has no UI -
// this package is purely a `cmd/ctlmap watch --ui` convenience, grounded on
// the rendering conventions in the teacher's internal/views package (fixed-
// width padded rows, lipgloss.NewStyle borders, a splash-style centered
// layout for the empty state).
package feedbackview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

var noteNames = []string{"c", "c#", "d", "d#", "e", "f", "f#", "g", "g#", "a", "a#", "b"}

// midiNoteName converts a MIDI key number (0-127) to a note name like
// "c-1" or "f#4" for the meter label, mirroring the teacher's note-name
// formatting: natural notes keep the "-" separator, sharps drop it, both
// stay 3 characters wide.
func midiNoteName(midiNote int) string {
	if midiNote < 0 || midiNote > 127 {
		return "---"
	}
	octave := (midiNote / 12) - 1
	name := noteNames[midiNote%12]
	if strings.Contains(name, "#") {
		if octave < 0 {
			return fmt.Sprintf("%s%d", name, -octave)
		}
		return fmt.Sprintf("%s%d", name, octave)
	}
	if octave < 0 {
		return fmt.Sprintf("%s-%d", name, -octave)
	}
	return fmt.Sprintf("%s-%d", name, octave)
}

// colorCapable reports whether the attached terminal can render the
// LED-ring color swatch at all; a dumb terminal or a redirected pipe gets
// the plain dot instead of a wasted escape sequence.
func colorCapable() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
}

const meterWidth = 30

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(18)
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
)

// TargetMeter is one row of the live view: a named target's current
// normalized value, plus the key number of its source when that's the
// meaningful label (e.g. a NoteVelocity source bound to a sampler pad).
type TargetMeter struct {
	Name     string
	Value    float64 // [0,1], already the target's continuous projection
	KeyLabel bool
	KeyNote  int
}

// Model is the bubbletea model cmd/ctlmap's `watch --ui` runs.
type Model struct {
	meters map[string]TargetMeter
	order  []string
	bar    progress.Model
}

func New() *Model {
	bar := progress.New(progress.WithoutPercentage(), progress.WithWidth(meterWidth))
	return &Model{meters: map[string]TargetMeter{}, bar: bar}
}

// UpdateMsg is sent into the bubbletea program whenever a binding fires;
// the host (cmd/ctlmap) is responsible for calling tea.Program.Send with
// one of these after every Router dispatch.
type UpdateMsg struct {
	Meter TargetMeter
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UpdateMsg:
		if _, seen := m.meters[msg.Meter.Name]; !seen {
			m.order = append(m.order, msg.Meter.Name)
			sort.Strings(m.order)
		}
		m.meters[msg.Meter.Name] = msg.Meter
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ctlmap — live targets"))
	b.WriteString("\n\n")

	if len(m.order) == 0 {
		b.WriteString(emptyStyle.Render("waiting for the first control event...\n"))
		return b.String()
	}

	for _, name := range m.order {
		meter := m.meters[name]
		b.WriteString(m.renderRow(meter))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderRow(t TargetMeter) string {
	label := t.Name
	if t.KeyLabel {
		label = fmt.Sprintf("%s (%s)", t.Name, midiNoteName(t.KeyNote))
	}

	value := t.Value
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	bar := m.bar.ViewAs(value)

	return fmt.Sprintf("%s %s %3.0f%% %s",
		nameStyle.Render(label), bar, value*100, ledRing(value))
}

// hueColor maps a normalized value to a hex color running green (low) to
// red (high) through go-colorful's HSV space, matching how an LED-ring
// feedback device visually signals "how far toward max" a parameter sits.
func hueColor(value float64) string {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	hue := 120.0 * (1 - value) // 120=green at 0, 0=red at 1
	return colorful.Hsv(hue, 0.85, 0.95).Hex()
}

// ledRing renders a small colored dot standing in for a motorized
// controller's LED ring indicator at this value.
func ledRing(value float64) string {
	if !colorCapable() {
		return "●"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hueColor(value))).Render("●")
}
