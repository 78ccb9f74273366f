package middleware

import (
	"errors"
	"net/http"
	"strings"

	"techtree-backend/pkg/auth"
	"techtree-backend/pkg/common"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// AuthOptions configures Authenticate.
type AuthOptions struct {
	// Validator checks bearer tokens. When nil and TrustGateway is false
	// every request passes through anonymously.
	Validator *auth.JWTValidator
	// TrustGateway accepts user headers set by the Lambda entrypoint after
	// API Gateway has validated the caller.
	TrustGateway bool
	Logger       *zap.Logger
}

// Authenticate resolves the caller from a gateway context or a bearer token
// and stores it in the request context.
func Authenticate(opts AuthOptions) func(next http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		if opts.Validator == nil && !opts.TrustGateway {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.TrustGateway && r.Header.Get("X-API-Gateway-Authorized") == "true" {
				user, ok := userFromGateway(r)
				if !ok {
					respondUnauthorized(w, "Missing user context from API Gateway")
					return
				}
				next.ServeHTTP(w, withUser(r, user))
				return
			}

			if opts.Validator == nil {
				respondUnauthorized(w, "Request not authorized by API Gateway")
				return
			}

			token := extractToken(r)
			if token == "" {
				respondUnauthorized(w, "Missing authorization header")
				return
			}

			claims, err := opts.Validator.ValidateToken(token)
			if err != nil {
				logger.Debug("Token rejected",
					zap.Error(err),
					zap.String("path", r.URL.Path),
					zap.String("remoteAddr", getClientIP(r)),
				)
				respondUnauthorized(w, tokenErrorMessage(err))
				return
			}

			user := &auth.UserContext{
				UserID: claims.Subject,
				Email:  claims.Email,
				Roles:  claims.Roles,
			}
			next.ServeHTTP(w, withUser(r, user))
		})
	}
}

// RequireRole rejects callers without any of roles. Requests that were not
// authenticated at all pass through, so the route stays open when auth is
// disabled.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.GetUserFromContext(r.Context())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			for _, role := range roles {
				if user.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondWithError(w, http.StatusForbidden, "Insufficient permissions")
		})
	}
}

func userFromGateway(r *http.Request) (*auth.UserContext, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		return nil, false
	}

	roles := []string{"authenticated"}
	if raw := r.Header.Get("X-User-Roles"); raw != "" {
		roles = roles[:0]
		for _, role := range strings.Split(raw, ",") {
			if role = strings.TrimSpace(role); role != "" {
				roles = append(roles, role)
			}
		}
	}

	return &auth.UserContext{
		UserID: userID,
		Email:  r.Header.Get("X-User-Email"),
		Roles:  roles,
	}, true
}

func withUser(r *http.Request, user *auth.UserContext) *http.Request {
	ctx := auth.SetUserInContext(r.Context(), user)
	ctx = common.WithUserID(ctx, user.UserID)
	return r.WithContext(ctx)
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "Invalid token signature"
	default:
		return "Invalid token"
	}
}

// extractToken extracts the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// getClientIP returns the caller address, preferring proxy headers
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip, _, _ := strings.Cut(xff, ","); ip != "" {
			return strings.TrimSpace(ip)
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(w http.ResponseWriter, message string) {
	respondWithError(w, http.StatusUnauthorized, message)
}

// respondWithError sends an error response with a specific status code
func respondWithError(w http.ResponseWriter, code int, message string) {
	errType := "UNAUTHORIZED"
	switch code {
	case http.StatusForbidden:
		errType = "FORBIDDEN"
	case http.StatusBadRequest:
		errType = "VALIDATION"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"type":    errType,
		"message": message,
	})
}
