package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Session cookie primitives =====

type AuthConfig struct {
	HMACSecret   []byte
	CookieName   string
	CookieDomain string
	SecureCookie bool
	TTL          time.Duration
}

// AuthManager signs the session id into an HttpOnly cookie. The admin
// credential itself never leaves the server-side session store.
type AuthManager struct{ cfg AuthConfig }

func NewAuthManager(secret string, secure bool, domain string, ttl time.Duration) *AuthManager {
	return &AuthManager{cfg: AuthConfig{
		HMACSecret:   []byte(secret),
		CookieName:   "admin_session",
		CookieDomain: domain, // "" keeps a host-only cookie
		SecureCookie: secure, // true in prod (TLS)
		TTL:          ttl,
	}}
}

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var errMissingCookie = errors.New("missing session cookie")

// Mint sets the session cookie for sessionID.
func (a *AuthManager) Mint(w http.ResponseWriter, sessionID string) error {
	now := time.Now()
	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TTL)),
			Subject:   sessionID,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.cfg.HMACSecret)
	if err != nil {
		return err
	}
	http.SetCookie(w, a.cookie(a.cfg.CookieName, signed, int(a.cfg.TTL.Seconds())))
	return nil
}

func (a *AuthManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, a.cookie(a.cfg.CookieName, "", -1))
	http.SetCookie(w, a.cookie(flashCookieName, "", -1))
}

func (a *AuthManager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   a.cfg.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

// SessionID returns the session id carried by a valid cookie.
func (a *AuthManager) SessionID(r *http.Request) (string, error) {
	c, err := r.Cookie(a.cfg.CookieName)
	if err != nil || c.Value == "" {
		return "", errMissingCookie
	}
	claims, err := a.parse(c.Value)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ===== One-shot flash values =====

const (
	flashCookieName = "admin_flash"
	flashTTL        = time.Minute
)

type flashClaims struct {
	Code string `json:"code"`
	jwt.RegisteredClaims
}

// SetFlash hands a freshly generated code to the next console render of the
// same session.
func (a *AuthManager) SetFlash(w http.ResponseWriter, sessionID, code string) error {
	now := time.Now()
	claims := flashClaims{
		Code: code,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
			Subject:   sessionID,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.cfg.HMACSecret)
	if err != nil {
		return err
	}
	http.SetCookie(w, a.cookie(flashCookieName, signed, int(flashTTL.Seconds())))
	return nil
}

// TakeFlash returns the pending code for sessionID and clears the cookie.
// Anything unsigned, expired or minted for another session yields "".
func (a *AuthManager) TakeFlash(w http.ResponseWriter, r *http.Request, sessionID string) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, a.cookie(flashCookieName, "", -1))

	claims := &flashClaims{}
	tkn, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (any, error) {
		return a.cfg.HMACSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.Subject != sessionID {
		return ""
	}
	return claims.Code
}

func (a *AuthManager) parse(tok string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.cfg.HMACSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role != "admin" || claims.Subject == "" {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
