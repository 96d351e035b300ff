// Package stitch defines the crochet stitch catalog.
//
// Each [Type] carries constant metadata used by the pattern core: its relative
// height (for stacking rows in a preview), the number of turning chains it
// implies when a row starts with it, and the short code used in written
// patterns ("ch", "sc", "dc", "hdc", "sl st").
//
// [VerticalChain] is internal: it represents turning chains in previews and is
// never selectable by users.
package stitch

import (
	"fmt"
	"strings"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
)

// Type identifies a stitch kind.
type Type int

const (
	Chain Type = iota
	Single
	Double
	HalfDouble
	Slip
	VerticalChain
)

type info struct {
	ident   string
	name    string
	code    string
	height  float64
	turning int
}

var catalog = [...]info{
	Chain:         {ident: "Chain", name: "Chain", code: "ch", height: 0.5, turning: 0},
	Single:        {ident: "Single", name: "Single", code: "sc", height: 1.0, turning: 1},
	Double:        {ident: "Double", name: "Double", code: "dc", height: 2.0, turning: 3},
	HalfDouble:    {ident: "HalfDouble", name: "Half-Double", code: "hdc", height: 1.5, turning: 2},
	Slip:          {ident: "Slip", name: "Slip", code: "sl st", height: 0.25, turning: 0},
	VerticalChain: {ident: "VerticalChain", name: "Vertical", code: "ch", height: 0.5, turning: 0},
}

// selectable is the user-facing catalog, in menu order.
var selectable = []Type{Chain, Single, Double, HalfDouble, Slip}

// Selectable returns the stitch types users may append.
func Selectable() []Type {
	out := make([]Type, len(selectable))
	copy(out, selectable)
	return out
}

// Valid reports whether t is a known stitch type.
func (t Type) Valid() bool {
	return t >= Chain && t <= VerticalChain
}

// IsSelectable reports whether users may append t.
func (t Type) IsSelectable() bool {
	return t.Valid() && t != VerticalChain
}

// Name returns the display name ("Single", "Half-Double").
func (t Type) Name() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return catalog[t].name
}

// String implements fmt.Stringer.
func (t Type) String() string { return t.Name() }

// Code returns the written-pattern abbreviation.
func (t Type) Code() string {
	if !t.Valid() {
		return "?"
	}
	return catalog[t].code
}

// Height returns the relative stitch height (a single crochet is 1).
func (t Type) Height() float64 {
	if !t.Valid() {
		return 0
	}
	return catalog[t].height
}

// TurningChains returns how many chains are worked to turn into a row that
// starts with t.
func (t Type) TurningChains() int {
	if !t.Valid() {
		return 0
	}
	return catalog[t].turning
}

// InsertionText returns the text prepended to a row that starts with t,
// telling the reader which stitch to insert the hook into. Stitches without
// turning chains start in place and produce no text.
func (t Type) InsertionText() string {
	n := t.TurningChains()
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("in %s st from hook, ", ordinal(n+1))
}

// TurningText returns the instruction ending the row before one that starts
// with t.
func (t Type) TurningText() string {
	n := t.TurningChains()
	if n == 0 {
		return "turn"
	}
	return fmt.Sprintf("ch %d, turn", n)
}

// Parse resolves a user-supplied stitch name. It accepts display names
// ("Half-Double"), codes ("hdc", "sl st") and constant names ("HalfDouble"),
// case-insensitively. The internal vertical chain is rejected.
func Parse(name string) (Type, error) {
	key := normalize(name)
	if key != "" {
		for _, t := range selectable {
			if key == normalize(catalog[t].name) || key == normalize(catalog[t].code) {
				return t, nil
			}
		}
		if t, ok := aliases[key]; ok {
			return t, nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnknownStitchType, "unknown stitch type %q", name)
}

var aliases = map[string]Type{
	"singlecrochet":     Single,
	"doublecrochet":     Double,
	"halfdouble":        HalfDouble,
	"halfdoublecrochet": HalfDouble,
	"slipstitch":        Slip,
	"sl":                Slip,
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// MarshalText encodes t by display name.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid stitch type %d", int(t))
	}
	return []byte(t.Name()), nil
}

// UnmarshalText decodes any catalog type by display or constant name, the
// internal vertical chain included, and otherwise falls back to [Parse].
func (t *Type) UnmarshalText(b []byte) error {
	key := normalize(string(b))
	for i, c := range catalog {
		if key != "" && (key == normalize(c.name) || key == normalize(c.ident)) {
			*t = Type(i)
			return nil
		}
	}
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
