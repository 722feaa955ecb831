package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nikogura/folio/pkg/content"
	"github.com/pkg/errors"
)

const (
	// CookieName is the session cookie set by a successful login.
	CookieName = "admin-auth"
	// SessionTTL is how long an admin session stays valid.
	SessionTTL = 7 * 24 * time.Hour

	issuer  = "folio"
	subject = "admin"
)

// Gate checks the admin password and issues and verifies session markers.
type Gate struct {
	password   []byte
	secret     []byte
	ttl        time.Duration
	production bool
	now        func() time.Time
}

// NewGate creates a Gate. An empty secret is derived from the password, so
// changing the password invalidates existing sessions.
func NewGate(password, secret string, production bool) (g *Gate) {
	key := []byte(secret)
	if secret == "" {
		sum := sha256.Sum256([]byte("folio-session:" + password))
		key = sum[:]
	}

	g = &Gate{
		password:   []byte(password),
		secret:     key,
		ttl:        SessionTTL,
		production: production,
		now:        time.Now,
	}
	return g
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Login returns a signed session token when password matches.
func (g *Gate) Login(password string) (token string, err error) {
	if subtle.ConstantTimeCompare([]byte(password), g.password) != 1 {
		err = errors.Wrap(content.ErrUnauthorized, "invalid password")
		return token, err
	}

	now := g.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		err = errors.Wrap(err, "failed to sign session token")
		return token, err
	}

	return token, err
}

// Check reports whether token is a live session issued by this gate.
func (g *Gate) Check(token string) (ok bool) {
	if token == "" {
		return ok
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (key any, keyErr error) {
		key = g.secret
		return key, keyErr
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return ok
	}

	ok = parsed.Valid
	return ok
}

// Authorized reports whether the request carries a valid session cookie.
func (g *Gate) Authorized(r *http.Request) (ok bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ok
	}
	ok = g.Check(cookie.Value)
	return ok
}

// Cookie wraps token in the session cookie.
func (g *Gate) Cookie(token string) (cookie *http.Cookie) {
	cookie = &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(g.ttl / time.Second),
		HttpOnly: true,
		Secure:   g.production,
		SameSite: http.SameSiteStrictMode,
	}
	return cookie
}

// ClearCookie expires the session cookie.
func (g *Gate) ClearCookie() (cookie *http.Cookie) {
	cookie = &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.production,
		SameSite: http.SameSiteStrictMode,
	}
	return cookie
}
