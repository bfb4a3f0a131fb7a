package handlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"microblog/internal/models"
)

type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type SignupResponse struct {
	Success bool        `json:"success"`
	User    UserSummary `json:"user"`
}

type SigninResponse struct {
	Success   bool                 `json:"success"`
	User      models.PublicProfile `json:"user"`
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expiresAt"`
}

type SessionResponse struct {
	User models.PublicProfile `json:"user"`
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, SignupResponse{
		Success: true,
		User:    UserSummary{ID: user.UserID, Username: user.Username, Email: user.Email},
	}, http.StatusCreated)
}

func (h *Handlers) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.AuthService.Authenticate(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	session, err := h.AuthService.IssueSession(user)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.setSessionCookie(w, session.Token, session.ExpiresAt)
	WriteJSON(w, SigninResponse{
		Success:   true,
		User:      user.Public(),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, http.StatusOK)
}

func (h *Handlers) Signout(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		WriteError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.AuthService.SignOut(r.Context(), session); err != nil {
		// the cookie is still cleared; the token expires on its own
		h.Log.WithError(err).WithField("user_id", session.UserID).Warn("failed to revoke session")
	}

	h.clearSessionCookie(w)
	WriteJSON(w, MessageResponse{Success: true}, http.StatusOK)
}

// Session returns the profile behind the current session token.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		WriteError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), session.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, SessionResponse{User: user.Public()}, http.StatusOK)
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cfg.Session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.Cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		h.Log.WithFields(logrus.Fields{"path": r.URL.Path}).Warn("handler reached without session")
		WriteError(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return session.UserID, true
}

