package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/deiva0304/BUDS-Crochet/pkg/auth"
	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
	"github.com/deiva0304/BUDS-Crochet/pkg/store"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userView is the public form of an account.
type userView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func viewOf(u *auth.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

type loginResponse struct {
	User userView `json:"user"`
	auth.Token
}

type userKey struct{}

// currentUser returns the account attached by requireAuth.
func currentUser(ctx context.Context) *auth.User {
	u, _ := ctx.Value(userKey{}).(*auth.User)
	return u
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// requireAuth rejects requests without a live bearer token and attaches the
// token's account to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			s.writeError(w, r, errors.New(errors.ErrCodeUnauthorized, "missing bearer token"))
			return
		}
		u, err := s.auth.Authenticate(r.Context(), tok)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, u)))
	})
}

// authorize fails with FORBIDDEN unless the caller owns doc.
func authorize(r *http.Request, doc *store.Document) error {
	u := currentUser(r.Context())
	if u == nil || !strings.EqualFold(doc.Owner, u.Email) {
		return errors.New(errors.ErrCodeForbidden, "pattern %s belongs to another maker", doc.ID)
	}
	return nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	tok, u, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, loginResponse{User: viewOf(u), Token: tok})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tok, u, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: viewOf(u), Token: tok})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(r.Context(), bearerToken(r))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]userView{"user": viewOf(currentUser(r.Context()))})
}
