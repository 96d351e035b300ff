package server

import (
	"encoding/base64"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
	"github.com/deiva0304/BUDS-Crochet/pkg/render"
	"github.com/deiva0304/BUDS-Crochet/pkg/store"
)

type patternResponse struct {
	Message string          `json:"message,omitempty"`
	Pattern *store.Document `json:"pattern"`
}

type updatePatternRequest struct {
	PatternID    string `json:"patternId"`
	ImageBase64  string `json:"imageBase64"`
	Instructions string `json:"instructions"`
}

type rowCounterRequest struct {
	CurrentRow int `json:"current_row"`
	Stitches   int `json:"stitches"`
}

// patternID returns the validated {id} URL parameter.
func patternID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	return id, errors.ValidatePatternID(id)
}

func (s *Server) handleCreatePattern(w http.ResponseWriter, r *http.Request) {
	var doc store.Document
	if err := decodeJSON(r, &doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc.ID = ""
	if doc.Owner == "" {
		doc.Owner = currentUser(r.Context()).Email
	}
	if err := authorize(r, &doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.store.Create(r.Context(), &doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, patternResponse{Message: "Pattern saved successfully", Pattern: created})
}

func (s *Server) handleGetPattern(w http.ResponseWriter, r *http.Request) {
	id, err := patternID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, patternResponse{Pattern: doc})
}

func (s *Server) handleListPatterns(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	if err := errors.ValidateOwner(owner); err != nil {
		s.writeError(w, r, err)
		return
	}
	docs, err := s.store.List(r.Context(), owner)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"patterns": docs})
}

// ownedDocument loads the saved pattern id and checks the caller owns it.
func (s *Server) ownedDocument(r *http.Request, id string) (*store.Document, error) {
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := authorize(r, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Server) handleDeletePattern(w http.ResponseWriter, r *http.Request) {
	id, err := patternID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.ownedDocument(r, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Pattern deleted successfully"})
}

// handleUpdatePattern stores instructions and an image sent by the client.
func (s *Server) handleUpdatePattern(w http.ResponseWriter, r *http.Request) {
	var req updatePatternRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidatePatternID(req.PatternID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.ownedDocument(r, req.PatternID); err != nil {
		s.writeError(w, r, err)
		return
	}
	img, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "imageBase64 is not valid base64"))
		return
	}
	doc, err := s.store.SaveVisualization(r.Context(), req.PatternID, req.Instructions, img)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, patternResponse{
		Message: "Pattern visualization & instructions updated successfully.",
		Pattern: doc,
	})
}

// handleSaveSession stores the caller's session pattern, written out and
// drawn as PNG, on a saved pattern.
func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	id, err := patternID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.ownedDocument(r, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		written string
		png     []byte
	)
	err = sess.Do(func(p *pattern.Pattern) error {
		written = p.Written()
		png, err = s.artifact(r, p, render.FormatPNG)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := s.store.SaveVisualization(r.Context(), id, written, png)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, patternResponse{Message: "Pattern saved from session.", Pattern: doc})
}

// updateDocument loads a saved pattern the caller owns, applies fn and
// stores the result.
func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request, msg string, fn func(d *store.Document) error) {
	id, err := patternID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.ownedDocument(r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := fn(doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err = s.store.Update(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, patternResponse{Message: msg, Pattern: doc})
}

func (s *Server) handleRowCounter(w http.ResponseWriter, r *http.Request) {
	var req rowCounterRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.updateDocument(w, r, "Row counter updated", func(d *store.Document) error {
		return d.SetRowStitches(req.CurrentRow, req.Stitches)
	})
}

func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	s.updateDocument(w, r, "New row added", func(d *store.Document) error {
		d.AddRow()
		return nil
	})
}

func (s *Server) handleRemoveRow(w http.ResponseWriter, r *http.Request) {
	s.updateDocument(w, r, "Last row removed", func(d *store.Document) error {
		d.RemoveLastRow()
		return nil
	})
}
