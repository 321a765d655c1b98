package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Claims are the bearer token claims issued by the identity provider.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Admin bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator validates HS256 bearer tokens and stores the caller's identity
// in the request context.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
	logger zerolog.Logger
}

// NewAuthenticator creates an authenticator for tokens signed with secret. An
// empty issuer disables the iss check.
func NewAuthenticator(secret, issuer string, logger zerolog.Logger) *Authenticator {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Authenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// Authenticate rejects requests without a valid bearer token.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			a.logger.Warn().Str("path", r.URL.Path).Msg("missing bearer token")
			writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
			return
		}

		who, err := a.Identify(raw)
		if err != nil {
			a.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid bearer token")
			writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), who)))
	})
}

// Identify parses and verifies a raw token.
func (a *Authenticator) Identify(raw string) (model.Identity, error) {
	claims := &Claims{}
	_, err := a.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return model.Identity{}, err
	}
	if claims.Subject == "" {
		return model.Identity{}, errors.New("token has no subject")
	}
	return model.Identity{UserID: claims.Subject, Name: claims.Name, Admin: claims.Admin}, nil
}

// RequireAdmin rejects authenticated callers without the admin claim. It must
// run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		who, ok := IdentityFrom(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required")
			return
		}
		if !who.Admin {
			writeError(w, r, http.StatusForbidden, model.ErrCodeForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity returns a copy of ctx carrying who.
func WithIdentity(ctx context.Context, who model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, who)
}

// IdentityFrom returns the caller stored by Authenticate.
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	who, ok := ctx.Value(identityKey).(model.Identity)
	return who, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
