package auth

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aidanwoods.dev/go-paseto"

	domainerrors "github.com/listenupapp/listenup-console/internal/errors"
	"github.com/listenupapp/listenup-console/internal/id"
)

const (
	tokenIssuer   = "listenup-console"
	tokenAudience = "listenup-console-admin"
)

// TokenService handles PASETO v4.local token generation and verification.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	duration     time.Duration
	now          func() time.Time
}

// NewTokenService creates a token service from a 32-byte key.
func NewTokenService(key []byte, duration time.Duration) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}
	sk, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}
	return &TokenService{symmetricKey: sk, duration: duration, now: time.Now}, nil
}

// Issue creates an admin token for subject, typically an operator name.
func (s *TokenService) Issue(subject string) (string, time.Time, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", time.Time{}, domainerrors.Validation("token subject is required")
	}

	now := s.now()
	expires := now.Add(s.duration)

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(subject)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expires)

	tokenID, err := id.Generate(id.PrefixToken)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(tokenID)

	//nolint:errcheck // Set only fails for values that cannot be encoded
	_ = token.Set("role", RoleAdmin)

	return token.V4Encrypt(s.symmetricKey, nil), expires, nil
}

// Verify decrypts a token and checks issuer, audience and validity window.
// Failures are reported as UNAUTHORIZED domain errors.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(s.now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnauthorized, "invalid token")
	}

	var claims Claims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnauthorized, "invalid token claims")
	}
	if !claims.IsAdmin() {
		return nil, domainerrors.Forbidden("token does not grant admin access")
	}
	return &claims, nil
}

// Duration returns the configured token lifetime.
func (s *TokenService) Duration() time.Duration {
	return s.duration
}
