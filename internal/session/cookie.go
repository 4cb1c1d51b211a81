package session

import (
	"net/http"
	"os"
	"strings"
)

const DefaultCookieName = "Access-Token"

type Config struct {
	CookieName string
	Secure     bool
	// SecretHex, when set, pins the signing secret so sessions survive restarts.
	SecretHex string
}

// ConfigFromEnv reads session settings from env vars.
func ConfigFromEnv() Config {
	name := os.Getenv("SESSION_COOKIE_NAME")
	if name == "" {
		name = DefaultCookieName
	}
	secure := strings.EqualFold(os.Getenv("SESSION_COOKIE_SECURE"), "true") || os.Getenv("SESSION_COOKIE_SECURE") == "1"
	return Config{CookieName: name, Secure: secure, SecretHex: os.Getenv("SESSION_SECRET")}
}

// Cookies writes and clears the session cookie.
type Cookies struct {
	name   string
	secure bool
}

func NewCookies(cfg Config) Cookies {
	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	return Cookies{name: name, secure: cfg.Secure}
}

// Name is the cookie name the resolver reads.
func (c Cookies) Name() string { return c.name }

// Set stores token in the session cookie.
func (c Cookies) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear deletes the session cookie.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
