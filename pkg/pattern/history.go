package pattern

import (
	"encoding/json"
	"fmt"

	"github.com/deiva0304/BUDS-Crochet/pkg/stitch"
)

// ActionKind identifies a recorded editing action.
type ActionKind int

const (
	ActionAppendStitches ActionKind = iota + 1
	ActionCommitRow
)

// String implements fmt.Stringer.
func (k ActionKind) String() string {
	switch k {
	case ActionAppendStitches:
		return "append_stitches"
	case ActionCommitRow:
		return "commit_row"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// MarshalText encodes k by name.
func (k ActionKind) MarshalText() ([]byte, error) {
	switch k {
	case ActionAppendStitches, ActionCommitRow:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("invalid action kind %d", int(k))
}

// UnmarshalText decodes a name produced by MarshalText.
func (k *ActionKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "append_stitches":
		*k = ActionAppendStitches
	case "commit_row":
		*k = ActionCommitRow
	default:
		return fmt.Errorf("unknown action kind %q", b)
	}
	return nil
}

// Action is an editing action with the parameters needed to replay it.
// Amount is the effective amount after row-length clamping.
type Action struct {
	Kind   ActionKind
	Stitch stitch.Type
	Amount int
}

// String implements fmt.Stringer.
func (a Action) String() string {
	if a.Kind == ActionAppendStitches {
		return fmt.Sprintf("append %d %s", a.Amount, a.Stitch.Code())
	}
	return a.Kind.String()
}

type actionJSON struct {
	Kind   ActionKind   `json:"kind"`
	Stitch *stitch.Type `json:"stitch,omitempty"`
	Amount int          `json:"amount,omitempty"`
}

// MarshalJSON encodes a as {"kind", "stitch", "amount"}; commits carry only
// their kind.
func (a Action) MarshalJSON() ([]byte, error) {
	v := actionJSON{Kind: a.Kind}
	if a.Kind == ActionAppendStitches {
		v.Stitch, v.Amount = &a.Stitch, a.Amount
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Action) UnmarshalJSON(b []byte) error {
	var v actionJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = Action{Kind: v.Kind, Amount: v.Amount}
	if v.Stitch != nil {
		a.Stitch = *v.Stitch
	}
	return nil
}

// Entry is a recorded action with the pattern state captured before it ran.
type Entry struct {
	Action   Action
	Snapshot State

	// coalesced marks an append undone together with the commit that
	// created its row; redoing that commit replays it too.
	coalesced bool
}

// History holds the linear undo and redo stacks.
//
// Recording always clears the redo stack, so there is never more than one
// branch of redoable actions.
type History struct {
	undo []Entry
	redo []Entry

	// mergeRowCommit folds the first append of a row and the commit that
	// created the row into one undo step.
	mergeRowCommit bool
}

// Record pushes e onto the undo stack and discards redoable entries.
func (h *History) Record(e Entry) {
	h.undo = append(h.undo, e)
	h.redo = nil
}

// CanUndo reports whether there is an action to undo.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether there is an action to redo.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the undo and redo stack depths.
func (h *History) Len() (undo, redo int) { return len(h.undo), len(h.redo) }

// Actions returns the undoable actions, oldest first.
func (h *History) Actions() []Action {
	out := make([]Action, len(h.undo))
	for i, e := range h.undo {
		out[i] = e.Action
	}
	return out
}

// Reset empties both stacks.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}

// undoStep moves one user-visible step from the undo stack to the redo stack
// and returns the entry whose snapshot must be restored.
func (h *History) undoStep() (Entry, bool) {
	e, ok := pop(&h.undo)
	if !ok {
		return Entry{}, false
	}

	if h.mergeRowCommit && e.Action.Kind == ActionAppendStitches && e.Snapshot.Current.Empty() {
		if top := len(h.undo) - 1; top >= 0 && h.undo[top].Action.Kind == ActionCommitRow {
			commit, _ := pop(&h.undo)
			e.coalesced = true
			h.redo = append(h.redo, e, commit)
			return commit, true
		}
	}

	h.redo = append(h.redo, e)
	return e, true
}

// redoStep moves one user-visible step from the redo stack back to the undo
// stack and returns the entries to replay, in order.
func (h *History) redoStep() ([]Entry, bool) {
	e, ok := pop(&h.redo)
	if !ok {
		return nil, false
	}
	steps := []Entry{e}

	if e.Action.Kind == ActionCommitRow {
		if top := len(h.redo) - 1; top >= 0 && h.redo[top].coalesced {
			next, _ := pop(&h.redo)
			next.coalesced = false
			steps = append(steps, next)
		}
	}

	h.undo = append(h.undo, steps...)
	return steps, true
}

func pop(stack *[]Entry) (Entry, bool) {
	s := *stack
	if len(s) == 0 {
		return Entry{}, false
	}
	e := s[len(s)-1]
	*stack = s[:len(s)-1]
	return e, true
}
