package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Harshitk-cp/facturador/internal/api/middleware"
	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/pipeline"
	"github.com/Harshitk-cp/facturador/internal/validation"
	"go.uber.org/zap"
)

// Executor runs a named mutation.
type Executor interface {
	Execute(ctx context.Context, name string, sess *domain.Session, in validation.Input) (pipeline.Outcome, error)
}

// CookieConfig shapes the session cookie set on sign-in.
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

// MutationHandler adapts pipeline operations to HTTP.
type MutationHandler struct {
	pipe   Executor
	cookie CookieConfig
	logger *zap.Logger
}

func NewMutationHandler(pipe Executor, cookie CookieConfig, logger *zap.Logger) *MutationHandler {
	return &MutationHandler{pipe: pipe, cookie: cookie, logger: logger}
}

// Handle serves op. Failures render as an error object.
func (h *MutationHandler) Handle(op string) http.HandlerFunc {
	return h.serve(op, writeDomainError)
}

// HandleUpdate serves an in-place update. Failures render as
// {success:false,message} so the form can show them inline.
func (h *MutationHandler) HandleUpdate(op string) http.HandlerFunc {
	return h.serve(op, writeStatusError)
}

func (h *MutationHandler) serve(op string, fail func(http.ResponseWriter, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := readInput(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		out, err := h.pipe.Execute(r.Context(), op, middleware.SessionFromContext(r.Context()), in)
		if err != nil {
			fail(w, err)
			return
		}
		h.render(w, out)
	}
}

type sessionResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *MutationHandler) render(w http.ResponseWriter, out pipeline.Outcome) {
	switch o := out.(type) {
	case pipeline.Redirect:
		w.Header().Set("Location", o.Location)
		writeJSON(w, http.StatusSeeOther, map[string]string{"location": o.Location})
	case pipeline.Status:
		writeJSON(w, http.StatusOK, statusResponse{Success: o.Success, Message: o.Message})
	case pipeline.SignedIn:
		h.setSessionCookie(w, o.Session)
		writeJSON(w, http.StatusOK, sessionResponse{
			UserID:    o.Session.UserID.String(),
			Email:     o.Session.Email,
			Token:     o.Session.Token,
			ExpiresAt: o.Session.ExpiresAt,
		})
	default:
		h.logger.Error("unhandled pipeline outcome", zap.Any("outcome", out))
		writeDomainError(w, domain.ErrInternal)
	}
}

func (h *MutationHandler) setSessionCookie(w http.ResponseWriter, sess *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Logout clears the session cookie. Tokens are stateless, so a copied bearer
// token stays valid until it expires.
func (h *MutationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
