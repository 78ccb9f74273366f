package middleware

import (
	"net/http"
	"regexp"

	"techtree-backend/pkg/common"

	"github.com/google/uuid"
)

const (
	// SessionHeader carries an explicit chat session id.
	SessionHeader = "X-Session-ID"
	// SessionCookie holds the session id issued to browsers.
	SessionCookie = "techtree_session"

	sessionCookieMaxAge = 30 * 24 * 60 * 60
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// Session resolves the chat session: the X-Session-ID header, else the
// session cookie, else a fresh UUID issued as that cookie.
func Session(secureCookie bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := r.Header.Get(SessionHeader); id != "" {
				if !sessionIDPattern.MatchString(id) {
					respondWithError(w, http.StatusBadRequest, "Invalid session id")
					return
				}
				next.ServeHTTP(w, r.WithContext(common.WithSessionID(r.Context(), id)))
				return
			}

			if c, err := r.Cookie(SessionCookie); err == nil && sessionIDPattern.MatchString(c.Value) {
				next.ServeHTTP(w, r.WithContext(common.WithSessionID(r.Context(), c.Value)))
				return
			}

			id := uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   sessionCookieMaxAge,
				HttpOnly: true,
				Secure:   secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r.WithContext(common.WithSessionID(r.Context(), id)))
		})
	}
}
