// Package session turns a bearer credential into an authenticated page
// context ready for the engine to act on.
package session

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hamhuhhg/XActions/internal/browser"
	"github.com/hamhuhhg/XActions/internal/locate"
)

const (
	DefaultBaseURL = "https://x.com"
	// The application's session cookie.
	authCookieName = "auth_token"
	// Initial hydration pause after landing on the authenticated surface.
	defaultSettle = 3 * time.Second
)

// Config controls session establishment.
type Config struct {
	// BaseURL is the target application's root origin.
	BaseURL string
	// Headless launches the browser without a window; account checks run
	// headless, composer actions and interactive browsing run headed.
	Headless bool
	// Settle overrides the post-landing hydration pause when positive.
	Settle time.Duration
}

func (c Config) baseURL() string {
	if strings.TrimSpace(c.BaseURL) == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

func (c Config) settle() time.Duration {
	if c.Settle > 0 {
		return c.Settle
	}
	return defaultSettle
}

// Session owns one browser process, one context and one active page.
// It is exclusively owned by the workflow that opened it and is never
// shared across concurrent workflows.
type Session struct {
	launcher *browser.Launcher
	driver   *browser.Driver
	baseURL  string
	log      zerolog.Logger
	closed   bool
}

// Open launches a browser, injects the credential as a session cookie on
// the apex domain and lands on the authenticated home surface. On any
// failure the browser is torn down before the error is returned; no
// leaked processes.
func Open(ctx context.Context, cfg Config, credential string, log zerolog.Logger) (*Session, error) {
	base := cfg.baseURL()
	launcher, err := browser.NewLauncher(ctx, cfg.Headless)
	if err != nil {
		return nil, fmt.Errorf("browser launch: %w", err)
	}

	driver, err := launcher.NewDriver(ctx)
	if err != nil {
		_ = launcher.Close()
		return nil, fmt.Errorf("browser context: %w", err)
	}

	s := &Session{launcher: launcher, driver: driver, baseURL: base, log: log}

	if err := driver.Navigate(ctx, base); err != nil {
		s.Close()
		return nil, fmt.Errorf("open origin: %w", err)
	}
	if err := driver.SetSessionCookie(ctx, authCookieName, credential, cookieDomain(base)); err != nil {
		s.Close()
		return nil, fmt.Errorf("inject credential: %w", err)
	}
	if err := driver.Navigate(ctx, base+"/home"); err != nil {
		s.Close()
		return nil, fmt.Errorf("open home: %w", err)
	}
	locate.Sleep(ctx, cfg.settle())

	log.Info().
		Str("base", base).
		Bool("headless", launcher.Headless()).
		Str("token", Redact(credential)).
		Msg("session established")
	return s, nil
}

// Page returns the session's active page.
func (s *Session) Page() browser.Page {
	return s.driver
}

// BaseURL returns the origin the session was opened against.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// Close terminates the browser process. Idempotent and error-swallowing:
// teardown problems must never mask the error that led here.
func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	if s.driver != nil {
		if err := s.driver.Close(context.Background()); err != nil {
			s.log.Debug().Err(err).Msg("driver close")
		}
	}
	if s.launcher != nil {
		if err := s.launcher.Close(); err != nil {
			s.log.Debug().Err(err).Msg("launcher close")
		}
	}
}

// Redact keeps enough of a credential to correlate log lines without
// ever writing it in full.
func Redact(credential string) string {
	if len(credential) <= 6 {
		return "***"
	}
	return credential[:6] + "..."
}

// cookieDomain derives the apex cookie domain (".x.com") from the origin.
func cookieDomain(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Hostname() == "" {
		return ".x.com"
	}
	host := u.Hostname()
	parts := strings.Split(host, ".")
	if len(parts) > 2 {
		host = strings.Join(parts[len(parts)-2:], ".")
	}
	return "." + host
}
