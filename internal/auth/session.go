// AngelaMos | 2026
// session.go

package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/mentorcamp/backend/internal/config"
	"github.com/mentorcamp/backend/internal/core"
)

const (
	sessionType = "console"
	claimType   = "type"
	claimSpoof  = "spoof"
)

// SessionClaims is the console session. SpoofUserID is the overlay slot;
// it never replaces UserID.
type SessionClaims struct {
	UserID      string
	SpoofUserID string
	ExpiresAt   time.Time
}

// SessionManager signs console sessions into an ES256 JWT carried in an
// HttpOnly cookie.
type SessionManager struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	config     config.SessionConfig
	now        func() time.Time
}

func NewSessionManager(cfg config.SessionConfig) (*SessionManager, error) {
	privateKeyPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	privateKey, err := jwk.ParseKey(privateKeyPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return newSessionManager(privateKey, cfg)
}

// NewSessionManagerFromKey builds a manager around an in-memory key.
func NewSessionManagerFromKey(
	key *ecdsa.PrivateKey,
	cfg config.SessionConfig,
) (*SessionManager, error) {
	privateKey, err := jwk.Import(key)
	if err != nil {
		return nil, fmt.Errorf("import private key: %w", err)
	}
	return newSessionManager(privateKey, cfg)
}

func newSessionManager(
	privateKey jwk.Key,
	cfg config.SessionConfig,
) (*SessionManager, error) {
	if err := privateKey.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("set algorithm: %w", err)
	}

	keyID := uuid.New().String()[:8]
	if err := privateKey.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, fmt.Errorf("set key id: %w", err)
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	if cfg.CookieName == "" {
		cfg.CookieName = "mc_session"
	}

	return &SessionManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		config:     cfg,
		now:        time.Now,
	}, nil
}

func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	jwkPrivate, err := jwk.Import(privateKey)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}

	if setErr := jwkPrivate.Set(jwk.AlgorithmKey, jwa.ES256()); setErr != nil {
		return fmt.Errorf("set algorithm: %w", setErr)
	}

	privatePEM, err := jwk.Pem(jwkPrivate)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}

	if writeErr := os.WriteFile(privateKeyPath, privatePEM, 0o600); writeErr != nil {
		return fmt.Errorf("write private key: %w", writeErr)
	}

	jwkPublic, err := jwkPrivate.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	publicPEM, err := jwk.Pem(jwkPublic)
	if err != nil {
		return fmt.Errorf("encode public key: %w", err)
	}

	//nolint:gosec // G306: public key is intentionally world-readable
	if writeErr := os.WriteFile(publicKeyPath, publicPEM, 0o644); writeErr != nil {
		return fmt.Errorf("write public key: %w", writeErr)
	}

	return nil
}

func (m *SessionManager) Sign(claims SessionClaims) (string, error) {
	now := m.now()

	builder := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Subject(claims.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(m.config.Lifetime)).
		Claim(claimType, sessionType)

	if claims.SpoofUserID != "" {
		builder = builder.Claim(claimSpoof, claims.SpoofUserID)
	}

	token, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("build session: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.privateKey))
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}

	return string(signed), nil
}

func (m *SessionManager) Parse(value string) (*SessionClaims, error) {
	token, err := jwt.Parse(
		[]byte(value),
		jwt.WithKey(jwa.ES256(), m.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		if isExpiredError(err) {
			return nil, fmt.Errorf("parse session: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("parse session: %w", core.ErrTokenInvalid)
	}

	var kind string
	if err := token.Get(claimType, &kind); err != nil || kind != sessionType {
		return nil, fmt.Errorf(
			"parse session: wrong token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"parse session: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	claims := &SessionClaims{UserID: subject}
	if exp, ok := token.Expiration(); ok {
		claims.ExpiresAt = exp
	}

	var spoof string
	if err := token.Get(claimSpoof, &spoof); err == nil {
		claims.SpoofUserID = spoof
	}

	return claims, nil
}

// Issue signs claims and writes the session cookie.
func (m *SessionManager) Issue(w http.ResponseWriter, claims SessionClaims) error {
	value, err := m.Sign(claims)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.config.Lifetime / time.Second),
		HttpOnly: true,
		Secure:   m.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read returns core.ErrUnauthorized when no cookie is present.
func (m *SessionManager) Read(r *http.Request) (*SessionClaims, error) {
	cookie, err := r.Cookie(m.config.CookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
		return nil, fmt.Errorf("read session: %w", core.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	return m.Parse(cookie.Value)
}

// Clear drops the whole session, spoof slot included.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionManager) KeyID() string {
	var kid string
	//nolint:errcheck // key ID always set during construction
	_ = m.privateKey.Get(jwk.KeyIDKey, &kid)
	return kid
}

func isExpiredError(err error) bool {
	return errors.Is(err, jwt.TokenExpiredError())
}
