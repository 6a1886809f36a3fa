package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/voxtask/voxtask/internal/database"
	"github.com/voxtask/voxtask/internal/models"
	"github.com/voxtask/voxtask/internal/request"
	"go.uber.org/zap"
)

const jwksCacheTTL = 1 * time.Hour

// TokenVerifier verifies bearer tokens against a JWKS endpoint, caching
// the key set between requests.
type TokenVerifier struct {
	jwksURL string
	issuer  string

	mu      sync.RWMutex
	keys    jwk.Set
	expires time.Time
}

// NewTokenVerifier creates a verifier for the given JWKS URL and expected issuer
func NewTokenVerifier(jwksURL, issuer string) *TokenVerifier {
	return &TokenVerifier{jwksURL: jwksURL, issuer: issuer}
}

// Verify parses and verifies a bearer token and extracts its claims
func (v *TokenVerifier) Verify(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	keys, err := v.keySet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	token, err := jwt.Parse([]byte(tokenString), jwt.WithKeySet(keys), jwt.WithValidate(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	if v.issuer != "" && token.Issuer() != v.issuer {
		return nil, fmt.Errorf("token issuer mismatch: expected %s, got %s", v.issuer, token.Issuer())
	}

	claims := &models.JWTClaims{
		Sub: token.Subject(),
		Iss: token.Issuer(),
		Exp: token.Expiration().Unix(),
		Iat: token.IssuedAt().Unix(),
	}
	if aud := token.Audience(); len(aud) > 0 {
		claims.Aud = aud[0]
	}
	if email, ok := token.Get("email"); ok {
		if s, ok := email.(string); ok {
			claims.Email = s
		}
	}
	if name, ok := token.Get("name"); ok {
		if s, ok := name.(string); ok {
			claims.Name = s
		}
	}

	return claims, nil
}

func (v *TokenVerifier) keySet(ctx context.Context) (jwk.Set, error) {
	v.mu.RLock()
	if v.keys != nil && time.Now().Before(v.expires) {
		keys := v.keys
		v.mu.RUnlock()
		return keys, nil
	}
	v.mu.RUnlock()

	keys, err := fetchJWKS(ctx, v.jwksURL)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.keys = keys
	v.expires = time.Now().Add(jwksCacheTTL)
	v.mu.Unlock()

	return keys, nil
}

func fetchJWKS(ctx context.Context, jwksURL string) (jwk.Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read JWKS response: %w", err)
	}

	keys, err := jwk.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}

	return keys, nil
}

// Auth creates middleware that verifies the bearer token and attaches the
// (possibly newly created) user to the request context.
func Auth(verifier *TokenVerifier, users *database.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims, err := verifier.Verify(r.Context(), tokenString)
			if err != nil {
				logger.Debug("token_verification_failed", zap.Error(err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := users.GetOrCreate(r.Context(), claims)
			if err != nil {
				logger.Error("failed_to_load_user", zap.Error(err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.WithUser(r.Context(), user)))
		})
	}
}
