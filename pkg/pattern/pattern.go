// Package pattern implements the crochet pattern state machine.
//
// A [Pattern] owns the committed rows and one in-progress current row. Every
// successful edit records a history [Entry] holding the state captured before
// the edit, so [Pattern.Undo] restores it exactly and [Pattern.Redo] replays
// the original action. Rows are immutable values, which makes those snapshots
// cheap structural copies.
//
// # Usage
//
//	p := pattern.New(pattern.WithRenderer(chart))
//	p.AppendStitches(ctx, stitch.Chain, 10)
//	p.CommitRow(ctx)
//	p.AppendStitches(ctx, stitch.Single, 10)
//	fmt.Print(p.Written())
//
// A Pattern is not safe for concurrent use; callers serialize edits per
// editing session.
package pattern

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
	"github.com/deiva0304/BUDS-Crochet/pkg/stitch"
)

// DefaultMaxStitchesPerCall is the absolute cap on one append, independent of
// the row-length cap.
const DefaultMaxStitchesPerCall = 100

// Unbounded is the MaxLength of a state with no committed row.
const Unbounded = 0

// Preview is the opaque handle returned by a Renderer.
type Preview any

// Renderer rebuilds the visualization of a pattern. It is notified after
// every state transition; its failures never roll the transition back.
type Renderer interface {
	Rebuild(ctx context.Context, rows []Row, current Row) (Preview, error)
}

// State is a value copy of the pattern: the committed rows, the current row
// and the running row-length cap.
type State struct {
	Rows      []Row
	Current   Row
	MaxLength int
}

// RowCount returns the number of rows including the one in progress.
func (s State) RowCount() int { return len(s.Rows) + 1 }

// StitchCount returns the total stitches across all rows.
func (s State) StitchCount() int {
	n := s.Current.Size()
	for _, r := range s.Rows {
		n += r.Size()
	}
	return n
}

// Bounded reports whether a row-length cap applies.
func (s State) Bounded() bool { return s.MaxLength != Unbounded }

// next returns the state after applying a. The receiver is not modified:
// Rows is clipped so the append always allocates.
func (s State) next(a Action) State {
	switch a.Kind {
	case ActionAppendStitches:
		s.Current = s.Current.Append(a.Stitch, a.Amount)
	case ActionCommitRow:
		turned := !s.Current.Turned()
		s.Rows = append(slices.Clip(s.Rows), s.Current)
		s.MaxLength = s.Current.Size()
		s.Current = NewRow(turned)
	}
	return s
}

// Summary reports the aggregate counts clients display after an edit.
type Summary struct {
	RowCount    int `json:"row_count"`
	StitchCount int `json:"stitch_count"`
	// MaxLength is the row-length cap; 0 means unbounded.
	MaxLength     int           `json:"max_length"`
	StitchOptions []stitch.Type `json:"stitch_options"`
	CanUndo       bool          `json:"can_undo"`
	CanRedo       bool          `json:"can_redo"`
}

// Option configures a Pattern.
type Option func(*Pattern)

// WithRenderer sets the renderer notified after every state transition.
func WithRenderer(r Renderer) Option {
	return func(p *Pattern) { p.renderer = r }
}

// WithLogger sets the logger used to report renderer failures.
func WithLogger(l *log.Logger) Option {
	return func(p *Pattern) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMergeRowCommit makes a single undo remove both a row commit and the
// first append made on the new row.
func WithMergeRowCommit(merge bool) Option {
	return func(p *Pattern) { p.history.mergeRowCommit = merge }
}

// WithMaxStitchesPerCall overrides [DefaultMaxStitchesPerCall].
func WithMaxStitchesPerCall(n int) Option {
	return func(p *Pattern) {
		if n > 0 {
			p.maxPerCall = n
		}
	}
}

// Pattern is an editable crochet pattern with undo/redo history.
type Pattern struct {
	state   State
	history History

	renderer   Renderer
	logger     *log.Logger
	maxPerCall int

	preview    Preview
	previewErr error
}

// New creates an empty pattern.
func New(opts ...Option) *Pattern {
	p := &Pattern{
		state:      State{Current: NewRow(false)},
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
		maxPerCall: DefaultMaxStitchesPerCall,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AppendStitches adds amount stitches of type t to the current row and
// returns how many were added.
//
// Non-chain stitches are clamped to the room left under the row-length cap;
// if no room is left the call fails with ROW_FULL. Amounts outside
// [1, max per call] fail with INVALID_AMOUNT. Failed calls leave the pattern
// unchanged.
func (p *Pattern) AppendStitches(ctx context.Context, t stitch.Type, amount int) (int, error) {
	if !t.IsSelectable() {
		return 0, errors.New(errors.ErrCodeUnknownStitchType, "unknown stitch type %q", t.Name())
	}
	if amount <= 0 || amount > p.maxPerCall {
		return 0, errors.New(errors.ErrCodeInvalidAmount, "amount %d must be between 1 and %d", amount, p.maxPerCall)
	}

	if p.state.Bounded() && t != stitch.Chain {
		room := p.state.MaxLength - p.state.Current.Size()
		if room <= 0 {
			return 0, errors.New(errors.ErrCodeRowFull, "row already has %d of %d stitches", p.state.Current.Size(), p.state.MaxLength)
		}
		amount = min(amount, room)
	}

	p.apply(ctx, Action{Kind: ActionAppendStitches, Stitch: t, Amount: amount})
	return amount, nil
}

// CommitRow finishes the current row and starts the next one, worked in the
// opposite direction. It reports false and does nothing when the current row
// is empty.
func (p *Pattern) CommitRow(ctx context.Context) bool {
	if p.state.Current.Empty() {
		return false
	}
	p.apply(ctx, Action{Kind: ActionCommitRow})
	return true
}

// apply records a and swaps in the resulting state. Nothing in between can
// fail, so history and state always move together.
func (p *Pattern) apply(ctx context.Context, a Action) {
	next := p.state.next(a)
	p.history.Record(Entry{Action: a, Snapshot: p.state})
	p.state = next
	p.rebuild(ctx)
}

// Undo reverts the most recent step and fails with NOTHING_TO_UNDO when the
// history is empty.
func (p *Pattern) Undo(ctx context.Context) (Summary, error) {
	e, ok := p.history.undoStep()
	if !ok {
		return p.Summary(), errors.New(errors.ErrCodeNothingToUndo, "nothing to undo")
	}
	p.state = e.Snapshot
	p.rebuild(ctx)
	return p.Summary(), nil
}

// Redo replays the most recently undone step and fails with NOTHING_TO_REDO
// when there is none.
func (p *Pattern) Redo(ctx context.Context) (Summary, error) {
	steps, ok := p.history.redoStep()
	if !ok {
		return p.Summary(), errors.New(errors.ErrCodeNothingToRedo, "nothing to redo")
	}
	for _, e := range steps {
		p.state = p.state.next(e.Action)
	}
	p.rebuild(ctx)
	return p.Summary(), nil
}

// Clear resets the pattern to its freshly constructed state, history included.
func (p *Pattern) Clear(ctx context.Context) {
	p.state = State{Current: NewRow(false)}
	p.history.Reset()
	p.rebuild(ctx)
}

// Replay applies actions in order as new edits and stops at the first one
// that fails. Replaying the actions returned by History on an empty pattern
// reproduces its state.
func (p *Pattern) Replay(ctx context.Context, actions []Action) error {
	for i, a := range actions {
		switch a.Kind {
		case ActionAppendStitches:
			if _, err := p.AppendStitches(ctx, a.Stitch, a.Amount); err != nil {
				return fmt.Errorf("action %d (%s): %w", i+1, a, err)
			}
		case ActionCommitRow:
			p.CommitRow(ctx)
		default:
			return errors.New(errors.ErrCodeInvalidInput, "action %d: unknown kind %s", i+1, a.Kind)
		}
	}
	return nil
}

// Rebuild asks the renderer for a fresh preview of the current state.
func (p *Pattern) Rebuild(ctx context.Context) (Preview, error) {
	p.rebuild(ctx)
	return p.preview, p.previewErr
}

func (p *Pattern) rebuild(ctx context.Context) {
	if p.renderer == nil {
		return
	}
	preview, err := p.renderer.Rebuild(ctx, p.Rows(), p.state.Current)
	if err != nil {
		p.logger.Warn("preview rebuild failed", "err", err)
		p.previewErr = err
		return
	}
	p.preview, p.previewErr = preview, nil
}

// Preview returns the last preview handle and the error of the last rebuild.
func (p *Pattern) Preview() (Preview, error) { return p.preview, p.previewErr }

// State returns a copy of the current state.
func (p *Pattern) State() State {
	s := p.state
	s.Rows = slices.Clone(s.Rows)
	return s
}

// Rows returns the committed rows.
func (p *Pattern) Rows() []Row { return slices.Clone(p.state.Rows) }

// Current returns the row in progress.
func (p *Pattern) Current() Row { return p.state.Current }

// StitchCount returns the total stitches across committed and current rows.
func (p *Pattern) StitchCount() int { return p.state.StitchCount() }

// RowCount returns the number of committed rows plus the row in progress.
func (p *Pattern) RowCount() int { return p.state.RowCount() }

// MaxLength returns the row-length cap and whether one applies.
func (p *Pattern) MaxLength() (int, bool) { return p.state.MaxLength, p.state.Bounded() }

// CanUndo reports whether Undo would succeed.
func (p *Pattern) CanUndo() bool { return p.history.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (p *Pattern) CanRedo() bool { return p.history.CanRedo() }

// History returns the undoable actions, oldest first.
func (p *Pattern) History() []Action { return p.history.Actions() }

// StitchOptions returns the stitch types offered for the current row: only
// chains for the foundation row, every other stitch afterwards.
func (p *Pattern) StitchOptions() []stitch.Type {
	if p.RowCount() > 1 {
		return []stitch.Type{stitch.Single, stitch.Double, stitch.HalfDouble, stitch.Slip}
	}
	return []stitch.Type{stitch.Chain}
}

// Summary returns the current aggregate counts.
func (p *Pattern) Summary() Summary {
	return Summary{
		RowCount:      p.RowCount(),
		StitchCount:   p.StitchCount(),
		MaxLength:     p.state.MaxLength,
		StitchOptions: p.StitchOptions(),
		CanUndo:       p.CanUndo(),
		CanRedo:       p.CanRedo(),
	}
}

// Written returns the written instructions for the pattern.
func (p *Pattern) Written() string {
	return Written(p.state.Rows, p.state.Current)
}
