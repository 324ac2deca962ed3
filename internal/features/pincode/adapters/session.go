package adapter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sayaji-jay/anjani-pincode-system/internal/core/config"
	"github.com/sayaji-jay/anjani-pincode-system/internal/core/logger"
	"github.com/sayaji-jay/anjani-pincode-system/internal/core/proxy"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"
)

// sessionCookieName is the portal's session cookie.
const sessionCookieName = "ASP.NET_SessionId"

// sessionState is the explicit lifecycle value of the portal session.
type sessionState int

const (
	sessionAnonymous sessionState = iota
	sessionAuthenticated
)

// SessionManager owns the portal login and session credential. It logs in
// through a headless browser because the portal sets its session cookie via
// a scripted login form, and hands out the cookie value for plain HTTP
// requests afterwards. Safe for use from one goroutine at a time per
// request; internal state is mutex-guarded.
type SessionManager struct {
	baseURL  string
	username string
	password string
	proxy    proxy.Settings
	logger   *zap.Logger

	mu    sync.Mutex
	state sessionState
	token string
}

// NewSessionManager creates a SessionManager for the given portal credentials.
func NewSessionManager(cfg config.PortalConfig, proxySettings proxy.Settings) *SessionManager {
	return &SessionManager{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		proxy:    proxySettings,
		logger:   logger.Get(),
	}
}

// Token returns the current session credential, performing the initial login
// when still anonymous.
func (m *SessionManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == sessionAuthenticated {
		return m.token, nil
	}
	return m.loginLocked(ctx)
}

// Refresh discards the current credential and logs in again. Called when a
// request observed the session-expiry redirect.
func (m *SessionManager) Refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = sessionAnonymous
	return m.loginLocked(ctx)
}

func (m *SessionManager) loginLocked(ctx context.Context) (string, error) {
	token, err := m.login(ctx)
	if err != nil {
		m.state = sessionAnonymous
		return "", err
	}

	m.token = token
	m.state = sessionAuthenticated
	m.logger.Info("Portal login succeeded")
	return token, nil
}

// login drives the portal's login form in a headless browser and extracts
// the session cookie.
func (m *SessionManager) login(ctx context.Context) (string, error) {
	var localProxyAddr string
	if m.proxy.HasProxy() && m.proxy.Username != "" && m.proxy.Password != "" {
		forwarder, err := proxy.NewForwardingProxy(m.proxy.FullURL())
		if err != nil {
			return "", fmt.Errorf("failed to create proxy forwarder: %w", err)
		}
		localProxyAddr, err = forwarder.Start(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to start proxy forwarder: %w", err)
		}
		defer forwarder.Stop()
	} else if m.proxy.HasProxy() {
		localProxyAddr = m.proxy.HostPort()
	}

	m.logger.Debug("Launching login browser",
		zap.Bool("proxy_enabled", m.proxy.HasProxy()),
		zap.String("proxy_addr", localProxyAddr),
	)

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)

	if localProxyAddr != "" {
		l = l.Proxy(localProxyAddr)
	}

	u, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	err = rod.Try(func() {
		page := browser.MustPage(m.baseURL)
		page.MustWaitLoad()

		page.MustElement("#txtUserID").MustInput(m.username)
		page.MustElement("#txtPassword").MustInput(m.password)

		wait := page.MustWaitNavigation()
		page.MustElement("#cmdLogin").MustClick()
		wait()
	})
	if err != nil {
		return "", fmt.Errorf("portal login failed: %w", err)
	}

	cookies, err := browser.GetCookies()
	if err != nil {
		return "", fmt.Errorf("failed to read browser cookies: %w", err)
	}
	for _, cookie := range cookies {
		if cookie.Name == sessionCookieName {
			return cookie.Value, nil
		}
	}

	return "", errors.New("login succeeded but session cookie not found")
}
