package stitch

import (
	"encoding/json"
	"testing"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Type
		wantErr bool
	}{
		{"Chain", Chain, false},
		{"ch", Chain, false},
		{"Single", Single, false},
		{"sc", Single, false},
		{"Double", Double, false},
		{"DC", Double, false},
		{"Half-Double", HalfDouble, false},
		{"HalfDouble", HalfDouble, false},
		{"hdc", HalfDouble, false},
		{"Slip", Slip, false},
		{"sl st", Slip, false},
		{"  single crochet ", Single, false},

		{"Vertical", 0, true},
		{"VerticalChain", 0, true},
		{"treble", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeUnknownStitchType) {
					t.Errorf("Parse(%q) code = %v, want %v", tt.input, errors.GetCode(err), errors.ErrCodeUnknownStitchType)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMetadata(t *testing.T) {
	tests := []struct {
		typ       Type
		code      string
		turning   int
		insertion string
		turnText  string
	}{
		{Chain, "ch", 0, "", "turn"},
		{Single, "sc", 1, "in 2nd st from hook, ", "ch 1, turn"},
		{HalfDouble, "hdc", 2, "in 3rd st from hook, ", "ch 2, turn"},
		{Double, "dc", 3, "in 4th st from hook, ", "ch 3, turn"},
		{Slip, "sl st", 0, "", "turn"},
	}

	for _, tt := range tests {
		t.Run(tt.typ.Name(), func(t *testing.T) {
			if got := tt.typ.Code(); got != tt.code {
				t.Errorf("Code() = %q, want %q", got, tt.code)
			}
			if got := tt.typ.TurningChains(); got != tt.turning {
				t.Errorf("TurningChains() = %d, want %d", got, tt.turning)
			}
			if got := tt.typ.InsertionText(); got != tt.insertion {
				t.Errorf("InsertionText() = %q, want %q", got, tt.insertion)
			}
			if got := tt.typ.TurningText(); got != tt.turnText {
				t.Errorf("TurningText() = %q, want %q", got, tt.turnText)
			}
		})
	}
}

func TestHeightsOrdered(t *testing.T) {
	if !(Slip.Height() < Single.Height() && Single.Height() < HalfDouble.Height() && HalfDouble.Height() < Double.Height()) {
		t.Errorf("heights not ordered: sl=%v sc=%v hdc=%v dc=%v",
			Slip.Height(), Single.Height(), HalfDouble.Height(), Double.Height())
	}
}

func TestSelectable(t *testing.T) {
	got := Selectable()
	if len(got) != 5 {
		t.Fatalf("len(Selectable()) = %d, want 5", len(got))
	}
	for _, typ := range got {
		if typ == VerticalChain {
			t.Error("Selectable() contains VerticalChain")
		}
	}
	got[0] = VerticalChain
	if Selectable()[0] != Chain {
		t.Error("Selectable() returned shared storage")
	}
	if VerticalChain.IsSelectable() {
		t.Error("VerticalChain.IsSelectable() = true")
	}
	if Type(42).Valid() {
		t.Error("Type(42).Valid() = true")
	}
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd"}
	for n, want := range tests {
		if got := ordinal(n); got != want {
			t.Errorf("ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Stitch Type `json:"stitch"`
	}{HalfDouble})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `{"stitch":"Half-Double"}` {
		t.Errorf("Marshal() = %s", data)
	}

	var v struct {
		Stitch Type `json:"stitch"`
	}
	if err := json.Unmarshal([]byte(`{"stitch":"sl st"}`), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v.Stitch != Slip {
		t.Errorf("Unmarshal() = %v, want Slip", v.Stitch)
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, typ := range []Type{Chain, Single, Double, HalfDouble, Slip, VerticalChain} {
		t.Run(typ.Name(), func(t *testing.T) {
			text, err := typ.MarshalText()
			if err != nil {
				t.Fatalf("MarshalText() error: %v", err)
			}
			var got Type
			if err := got.UnmarshalText(text); err != nil {
				t.Fatalf("UnmarshalText(%q) error: %v", text, err)
			}
			if got != typ {
				t.Errorf("UnmarshalText(%q) = %v, want %v", text, got, typ)
			}
		})
	}
}

func TestUnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"VerticalChain", VerticalChain, false},
		{"vertical", VerticalChain, false},
		{"HalfDouble", HalfDouble, false},
		{"hdc", HalfDouble, false},
		{"sl st", Slip, false},
		{"", 0, true},
		{"Treble", 0, true},
	}

	for _, tt := range tests {
		var got Type
		err := got.UnmarshalText([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("UnmarshalText(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
