// Package valuesequence parses and expands the optional text ladder used to
// constrain target values to a custom discrete set: "25, 50-75 (5), 10"
// style grammar, pluggable over a native [0,1] format or a percent format.
package valuesequence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/schollz/ctlmap/internal/primitives"
)

// Formatter renders a Unit as text and parses text back into a Unit, in a
// particular display convention (native decimal, percent, ...). Display
// round-trips through a matched Formatter/Parser pair of the same kind.
type Formatter interface {
	Format(u primitives.Unit) string
	Parse(s string) (primitives.Unit, error)
}

// NativeIo formats/parses plain decimals in [0,1].
type NativeIo struct{}

func (NativeIo) Format(u primitives.Unit) string {
	return strconv.FormatFloat(u.Get(), 'f', -1, 64)
}

func (NativeIo) Parse(s string) (primitives.Unit, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return primitives.Unit{}, fmt.Errorf("valuesequence: invalid native value %q: %w", s, err)
	}
	return primitives.NewUnit(v), nil
}

// PercentIo formats/parses percentages with two decimal places ("25.00%"),
// accepting the bare number with or without a trailing "%" on parse.
type PercentIo struct{}

func (PercentIo) Format(u primitives.Unit) string {
	return strconv.FormatFloat(u.Get()*100, 'f', 2, 64) + "%"
}

func (PercentIo) Parse(s string) (primitives.Unit, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return primitives.Unit{}, fmt.Errorf("valuesequence: invalid percent value %q: %w", s, err)
	}
	return primitives.NewUnit(v / 100), nil
}

// EntryKind discriminates a parsed sequence entry.
type EntryKind int

const (
	EntrySingle EntryKind = iota
	EntryRange
)

// Entry is one comma-separated grammar production: a bare value or a
// from-to(step) range.
type Entry struct {
	Kind EntryKind
	From primitives.Unit
	To   primitives.Unit
	// HasStep reports whether Step was explicit in the text; if false, the
	// caller-supplied default atomic step is used to expand the range.
	HasStep bool
	Step    float64
}

// Sequence is a parsed, not-yet-expanded value ladder.
type Sequence struct {
	Entries []Entry
}

// Parse parses text per the grammar:
//
//	sequence := entry ("," entry)*
//	entry     := single | range
//	range     := value "-" value ("(" step ")")?
//
// using formatter to interpret each scalar.
func Parse(text string, formatter Formatter) (Sequence, error) {
	var seq Sequence
	for _, raw := range strings.Split(text, ",") {
		entryText := strings.TrimSpace(raw)
		if entryText == "" {
			continue
		}
		entry, err := parseEntry(entryText, formatter)
		if err != nil {
			return Sequence{}, err
		}
		seq.Entries = append(seq.Entries, entry)
	}
	return seq, nil
}

func parseEntry(text string, formatter Formatter) (Entry, error) {
	stepText, rest, hasStep, err := extractStep(text)
	if err != nil {
		return Entry{}, err
	}

	from, to, isRange := splitRange(rest)
	if !isRange {
		v, err := formatter.Parse(from)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Kind: EntrySingle, From: v}, nil
	}

	fromU, err := formatter.Parse(from)
	if err != nil {
		return Entry{}, err
	}
	toU, err := formatter.Parse(to)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{Kind: EntryRange, From: fromU, To: toU}
	if hasStep {
		stepU, err := formatter.Parse(stepText)
		if err != nil {
			return Entry{}, err
		}
		entry.HasStep = true
		entry.Step = stepU.Get()
	}
	return entry, nil
}

// extractStep pulls a trailing "(step)" clause off text, if present.
func extractStep(text string) (stepText, rest string, hasStep bool, err error) {
	open := strings.LastIndex(text, "(")
	if open == -1 {
		return "", text, false, nil
	}
	if !strings.HasSuffix(text, ")") {
		return "", "", false, fmt.Errorf("valuesequence: unterminated step clause in %q", text)
	}
	return text[open+1 : len(text)-1], strings.TrimSpace(text[:open]), true, nil
}

// splitRange finds the "-" separator between a range's two values, ignoring
// a leading "-" (which would belong to a negative value rather than act as
// a separator).
func splitRange(text string) (from, to string, isRange bool) {
	for i := 1; i < len(text); i++ {
		if text[i] == '-' {
			return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:]), true
		}
	}
	return text, "", false
}

// Unpack expands a parsed Sequence into the concrete list of Unit values it
// describes. defaultStep is used for any range entry that omitted an
// explicit step.
func (seq Sequence) Unpack(defaultStep float64) []primitives.Unit {
	var out []primitives.Unit
	for _, entry := range seq.Entries {
		if entry.Kind == EntrySingle {
			out = append(out, entry.From)
			continue
		}
		out = append(out, expandRange(entry, defaultStep)...)
	}
	return out
}

func expandRange(entry Entry, defaultStep float64) []primitives.Unit {
	step := defaultStep
	if entry.HasStep {
		step = entry.Step
	}
	from := entry.From.Get()
	to := entry.To.Get()

	if step == 0 {
		return []primitives.Unit{entry.From}
	}
	magnitude := step
	if magnitude < 0 {
		magnitude = -magnitude
	}

	var out []primitives.Unit
	if from <= to {
		for v := from; v <= to+primitives.BaseEpsilon; v += magnitude {
			out = append(out, primitives.NewUnit(clampToEndpoint(v, to)))
		}
	} else {
		for v := from; v >= to-primitives.BaseEpsilon; v -= magnitude {
			out = append(out, primitives.NewUnit(clampToEndpoint(v, to)))
		}
	}
	return out
}

// clampToEndpoint snaps a generated value onto the exact endpoint when it
// falls within BaseEpsilon of it, so float accumulation error never leaks
// into the displayed ladder.
func clampToEndpoint(v, endpoint float64) float64 {
	d := v - endpoint
	if d < 0 {
		d = -d
	}
	if d <= primitives.BaseEpsilon {
		return endpoint
	}
	return v
}
