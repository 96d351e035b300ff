// Package store persists saved crochet patterns.
//
// A saved pattern is a [Document]: the metadata a maker fills in (yarn, hook
// size, gauge, ...), the written instructions and chart image exported from
// an editing session, and row counter progress recorded while working the
// pattern.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and single-user CLI use
//   - [SQLiteStore]: a local database file
//   - [MongoStore]: a shared MongoDB collection for the HTTP server
package store

import (
	"context"
	"slices"
	"time"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
)

// RowProgress is the stitch count a maker has worked on one row.
type RowProgress struct {
	RowNumber int `json:"row_number" bson:"row_number"`
	Stitches  int `json:"stitches" bson:"stitches"`
}

// Document is a saved pattern.
type Document struct {
	ID    string `json:"id" bson:"-"`
	Owner string `json:"owner" bson:"owner"`
	Name  string `json:"pattern_name" bson:"name"`

	Size        string `json:"size" bson:"size"`
	Yarn        string `json:"yarn" bson:"yarn"`
	HookSize    string `json:"hook_size" bson:"hook_size"`
	Gauge       string `json:"gauge" bson:"gauge"`
	Lot         string `json:"lot" bson:"lot"`
	Skeins      string `json:"num_of_skeins" bson:"num_of_skeins"`
	Yardage     string `json:"yardage" bson:"yardage"`
	Description string `json:"description" bson:"description"`

	// Instructions is the written pattern exported from the editor.
	Instructions string `json:"generated_instructions" bson:"generated_instructions"`
	// Visualization is the exported chart image; base64 in JSON.
	Visualization []byte `json:"visualization,omitempty" bson:"visualization,omitempty"`

	CurrentRow int           `json:"current_row" bson:"current_row"`
	RowData    []RowProgress `json:"row_data" bson:"row_data"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Validate checks the fields every backend requires.
func (d *Document) Validate() error {
	if err := errors.ValidateOwner(d.Owner); err != nil {
		return err
	}
	if err := errors.ValidatePatternName(d.Name); err != nil {
		return err
	}
	if d.CurrentRow < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "current row must be at least 1")
	}
	return nil
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := *d
	c.Visualization = slices.Clone(d.Visualization)
	c.RowData = slices.Clone(d.RowData)
	return &c
}

// SetRowStitches records n stitches worked on row and makes it the current
// row. Unknown rows are appended to the progress list.
func (d *Document) SetRowStitches(row, n int) error {
	if row < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "row number must be at least 1, got %d", row)
	}
	if n < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "stitch count cannot be negative, got %d", n)
	}
	i := slices.IndexFunc(d.RowData, func(p RowProgress) bool { return p.RowNumber == row })
	if i < 0 {
		d.RowData = append(d.RowData, RowProgress{RowNumber: row, Stitches: n})
	} else {
		d.RowData[i].Stitches = n
	}
	d.CurrentRow = row
	return nil
}

// AddRow advances to the next row with no stitches worked yet.
func (d *Document) AddRow() {
	d.CurrentRow++
	d.RowData = append(d.RowData, RowProgress{RowNumber: d.CurrentRow})
}

// RemoveLastRow drops the most recent progress entry and steps back to the
// row before it. The first entry is never removed; with one or no entries
// only the current row resets to 1.
func (d *Document) RemoveLastRow() {
	if len(d.RowData) > 1 {
		d.RowData = d.RowData[:len(d.RowData)-1]
		d.CurrentRow = d.RowData[len(d.RowData)-1].RowNumber
		return
	}
	d.CurrentRow = 1
}

// Store persists documents.
type Store interface {
	// Create assigns an ID and timestamps and stores a new document. It fails
	// with ALREADY_EXISTS when the owner already has a pattern of that name.
	Create(ctx context.Context, doc *Document) (*Document, error)

	// Get returns the document with the given ID or fails with NOT_FOUND.
	Get(ctx context.Context, id string) (*Document, error)

	// Update replaces a stored document.
	Update(ctx context.Context, doc *Document) (*Document, error)

	// SaveVisualization stores exported instructions and chart image on a
	// document. Empty values leave the stored field unchanged.
	SaveVisualization(ctx context.Context, id, instructions string, image []byte) (*Document, error)

	// List returns an owner's documents, oldest first.
	List(ctx context.Context, owner string) ([]*Document, error)

	// Delete removes a document or fails with NOT_FOUND.
	Delete(ctx context.Context, id string) error

	Close() error
}

// prepareNew fills in the defaults of a document about to be created.
func prepareNew(doc *Document, now time.Time) *Document {
	d := doc.Clone()
	if d.CurrentRow == 0 {
		d.CurrentRow = 1
	}
	if d.RowData == nil {
		d.RowData = []RowProgress{}
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	return d
}

func applyVisualization(d *Document, instructions string, image []byte) {
	if instructions != "" {
		d.Instructions = instructions
	}
	if len(image) > 0 {
		d.Visualization = slices.Clone(image)
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "pattern %s not found", id)
}

func duplicateName(owner, name string) error {
	return errors.New(errors.ErrCodeAlreadyExists, "%s already has a pattern named %q", owner, name)
}
