// Package script reads and writes line-oriented pattern scripts.
//
// A script drives a [pattern.Pattern] one command per line:
//
//	# granny stripe
//	chain 12
//	row
//	dc 12
//	row
//	sc 6
//	hdc 6
//	undo
//
// Commands are a stitch name or code followed by an amount, or one of
// "row", "undo", "redo" and "clear". Blank lines and "#" comments are
// ignored. Stitch names accept everything [stitch.Parse] does, so
// "half-double 3", "hdc 3" and "HalfDouble 3" are the same command.
package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
	"github.com/deiva0304/BUDS-Crochet/pkg/stitch"
)

// Op is a script command.
type Op int

const (
	OpAppend Op = iota + 1
	OpRow
	OpUndo
	OpRedo
	OpClear
)

var opNames = map[string]Op{
	"row":   OpRow,
	"undo":  OpUndo,
	"redo":  OpRedo,
	"clear": OpClear,
}

// Command is one parsed script line.
type Command struct {
	Line   int
	Op     Op
	Stitch stitch.Type
	Amount int
}

// String formats c as it would appear in a script.
func (c Command) String() string {
	switch c.Op {
	case OpAppend:
		return fmt.Sprintf("%s %d", c.Stitch.Code(), c.Amount)
	case OpRow:
		return "row"
	case OpUndo:
		return "undo"
	case OpRedo:
		return "redo"
	case OpClear:
		return "clear"
	}
	return fmt.Sprintf("Op(%d)", int(c.Op))
}

// Parse reads every command from r. It fails with INVALID_SCRIPT naming the
// first malformed line.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cmd, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "line %d", n)
		}
		cmd.Line = n
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return cmds, nil
}

func parseLine(line string) (Command, error) {
	if op, ok := opNames[strings.ToLower(line)]; ok {
		return Command{Op: op}, nil
	}

	// The amount is the last field; everything before it names the stitch,
	// which may contain spaces ("sl st 4").
	i := strings.LastIndexAny(line, " \t")
	if i < 0 {
		return Command{}, fmt.Errorf("unknown command %q", line)
	}
	amount, err := strconv.Atoi(line[i+1:])
	if err != nil {
		return Command{}, fmt.Errorf("invalid amount %q", line[i+1:])
	}
	t, err := stitch.Parse(strings.TrimSpace(line[:i]))
	if err != nil {
		return Command{}, err
	}
	return Command{Op: OpAppend, Stitch: t, Amount: amount}, nil
}

// Apply runs one command against p.
func Apply(ctx context.Context, p *pattern.Pattern, c Command) error {
	switch c.Op {
	case OpAppend:
		_, err := p.AppendStitches(ctx, c.Stitch, c.Amount)
		return err
	case OpRow:
		p.CommitRow(ctx)
	case OpUndo:
		_, err := p.Undo(ctx)
		return err
	case OpRedo:
		_, err := p.Redo(ctx)
		return err
	case OpClear:
		p.Clear(ctx)
	default:
		return errors.New(errors.ErrCodeInvalidScript, "unknown op %d", int(c.Op))
	}
	return nil
}

// Run parses a script from r and applies it to p, stopping at the first
// command that fails. Errors name the script line.
func Run(ctx context.Context, p *pattern.Pattern, r io.Reader) error {
	cmds, err := Parse(r)
	if err != nil {
		return err
	}
	for _, c := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := Apply(ctx, p, c); err != nil {
			return fmt.Errorf("line %d (%s): %w", c.Line, c, err)
		}
	}
	return nil
}

// Write formats actions as a script that rebuilds the same pattern.
func Write(w io.Writer, actions []pattern.Action) error {
	bw := bufio.NewWriter(w)
	for _, a := range actions {
		var c Command
		switch a.Kind {
		case pattern.ActionAppendStitches:
			c = Command{Op: OpAppend, Stitch: a.Stitch, Amount: a.Amount}
		case pattern.ActionCommitRow:
			c = Command{Op: OpRow}
		default:
			continue
		}
		if _, err := fmt.Fprintln(bw, c); err != nil {
			return err
		}
	}
	return bw.Flush()
}
