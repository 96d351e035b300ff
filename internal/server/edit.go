package server

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
	"github.com/deiva0304/BUDS-Crochet/pkg/observability"
	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
	"github.com/deiva0304/BUDS-Crochet/pkg/render"
	"github.com/deiva0304/BUDS-Crochet/pkg/session"
	"github.com/deiva0304/BUDS-Crochet/pkg/stitch"
)

// editResponse is the body of every editing endpoint.
type editResponse struct {
	Message string `json:"message"`
	pattern.Summary
	// PreviewError is set when the edit applied but the preview could not
	// be rebuilt.
	PreviewError string `json:"preview_error,omitempty"`
}

type addStitchRequest struct {
	StitchType string `json:"stitch_type"`
	Amount     int    `json:"amount"`
}

// session returns the caller's editing session.
func (s *Server) session(r *http.Request) (*session.Session, error) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = session.DefaultID
	}
	return s.sessions.GetOrCreate(id)
}

// edit runs fn on the caller's pattern, reports the outcome to the edit
// hooks and writes either the error or the summary with msg.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, op string, fn func(p *pattern.Pattern) (string, error)) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(SessionHeader, sess.ID())

	var resp editResponse
	err = sess.Do(func(p *pattern.Pattern) error {
		msg, err := fn(p)
		resp = editResponse{Message: msg, Summary: p.Summary()}
		if _, perr := p.Preview(); err == nil && perr != nil {
			resp.PreviewError = previewMessage(perr)
		}
		observability.Edit().OnEdit(r.Context(), sess.ID(), op, resp.RowCount, resp.StitchCount, err)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// previewMessage describes a renderer failure without leaking internal
// error text.
func previewMessage(err error) string {
	switch errors.GetCode(err) {
	case "", errors.ErrCodeInternal:
		return "preview could not be rebuilt"
	default:
		return errors.UserMessage(err)
	}
}

// view runs fn on the caller's pattern without counting as an edit.
func (s *Server) view(w http.ResponseWriter, r *http.Request, fn func(p *pattern.Pattern) (any, error)) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(SessionHeader, sess.ID())

	var out any
	err = sess.Do(func(p *pattern.Pattern) error {
		out, err = fn(p)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// parseAddStitch reads the stitch and amount from a JSON body, or from the
// stitch_type and amount query parameters when there is no body.
func parseAddStitch(r *http.Request) (stitch.Type, int, error) {
	var req addStitchRequest
	if r.ContentLength != 0 && r.Body != nil && r.Body != http.NoBody {
		if err := decodeJSON(r, &req); err != nil {
			return 0, 0, err
		}
	} else {
		q := r.URL.Query()
		req.StitchType = q.Get("stitch_type")
		n, err := strconv.Atoi(q.Get("amount"))
		if err != nil {
			return 0, 0, errors.New(errors.ErrCodeInvalidAmount, "invalid amount %q", q.Get("amount"))
		}
		req.Amount = n
	}
	t, err := stitch.Parse(req.StitchType)
	if err != nil {
		return 0, 0, err
	}
	return t, req.Amount, nil
}

func (s *Server) handleAddStitch(w http.ResponseWriter, r *http.Request) {
	t, amount, err := parseAddStitch(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.edit(w, r, "append", func(p *pattern.Pattern) (string, error) {
		added, err := p.AppendStitches(r.Context(), t, amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %d %s stitches.", added, t.Name()), nil
	})
}

func (s *Server) handleNewRow(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, "new_row", func(p *pattern.Pattern) (string, error) {
		if !p.CommitRow(r.Context()) {
			return "Current row is empty; no row added.", nil
		}
		return "New row added.", nil
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, "undo", func(p *pattern.Pattern) (string, error) {
		if _, err := p.Undo(r.Context()); err != nil {
			return "", err
		}
		return "Undid last action.", nil
	})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, "redo", func(p *pattern.Pattern) (string, error) {
		if _, err := p.Redo(r.Context()); err != nil {
			return "", err
		}
		return "Redid last action.", nil
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, "clear", func(p *pattern.Pattern) (string, error) {
		p.Clear(r.Context())
		return "Pattern cleared.", nil
	})
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, func(p *pattern.Pattern) (any, error) {
		return map[string]int{
			"row_count":    p.RowCount(),
			"stitch_count": p.StitchCount(),
		}, nil
	})
}

func (s *Server) handleMaxLength(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, func(p *pattern.Pattern) (any, error) {
		n, bounded := p.MaxLength()
		return map[string]any{"max_length": n, "bounded": bounded}, nil
	})
}

func (s *Server) handleStitchOptions(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, func(p *pattern.Pattern) (any, error) {
		return map[string]any{"stitch_options": p.StitchOptions()}, nil
	})
}

func (s *Server) handleWrittenPattern(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, func(p *pattern.Pattern) (any, error) {
		return map[string]string{"written_pattern": p.Written()}, nil
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, func(p *pattern.Pattern) (any, error) {
		actions := p.History()
		if actions == nil {
			actions = []pattern.Action{}
		}
		return map[string]any{"actions": actions, "can_undo": p.CanUndo(), "can_redo": p.CanRedo()}, nil
	})
}

// artifact returns the session pattern's current preview in format f.
func (s *Server) artifact(r *http.Request, p *pattern.Pattern, f render.Format) ([]byte, error) {
	preview, err := p.Preview()
	if preview == nil && err == nil {
		preview, err = p.Rebuild(r.Context())
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render preview")
	}
	rp, ok := preview.(*render.Preview)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "session has no chart preview")
	}
	return s.chart.Artifact(r.Context(), rp, f)
}

func (s *Server) handleRenderPattern(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, func(p *pattern.Pattern) (any, error) {
		png, err := s.artifact(r, p, render.FormatPNG)
		if err != nil {
			return nil, err
		}
		return map[string]string{"imageBase64": base64.StdEncoding.EncodeToString(png)}, nil
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	formats, err := render.ParseFormats(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f := formats[0]

	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var data []byte
	err = sess.Do(func(p *pattern.Pattern) error {
		data, err = s.artifact(r, p, f)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(SessionHeader, sess.ID())
	w.Header().Set("Content-Type", f.ContentType())
	w.Write(data)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(SessionHeader, sess.ID())
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sess.ID()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}
