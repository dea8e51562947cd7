// Package portal retrieves raw page markup from Librus Synergia or from saved pages.
package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/librus-sync/internal/models"
	"github.com/noah-isme/librus-sync/pkg/config"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
)

const (
	loginPath    = "/loguj"
	passwordFlag = `name="passwd"`
	maxPageBytes = 8 << 20
)

var domainPaths = map[models.Domain]string{
	models.DomainGrades:        "/przegladaj_oceny/uczen",
	models.DomainEvents:        "/terminarz",
	models.DomainAnnouncements: "/ogloszenia",
	models.DomainAttendance:    "/przegladaj_nb/uczen",
}

// Client logs into the portal with a cookie session and downloads domain pages.
type Client struct {
	baseURL  string
	login    string
	password string
	http     *http.Client
	logger   *zap.Logger

	mu       sync.Mutex
	loggedIn bool
}

// NewClient builds a portal client. The session is established lazily on first fetch.
func NewClient(cfg config.PortalConfig, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("portal base url required")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		login:    cfg.Login,
		password: cfg.Password,
		http:     &http.Client{Jar: jar, Timeout: timeout},
		logger:   logger,
	}, nil
}

// Fetch returns the markup of the domain page. Events are fetched for the given month.
// A session that expired mid-run is re-established once.
func (c *Client) Fetch(ctx context.Context, domain models.Domain, period models.Period) (string, error) {
	path, ok := domainPaths[domain]
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown domain %q", domain))
	}
	target := c.baseURL + path
	if domain == models.DomainEvents && period.Year > 0 {
		q := url.Values{}
		q.Set("miesiac", strconv.Itoa(period.Month))
		q.Set("rok", strconv.Itoa(period.Year))
		target += "?" + q.Encode()
	}

	for attempt := 0; attempt < 2; attempt++ {
		if err := c.ensureSession(ctx); err != nil {
			return "", err
		}
		body, redirected, err := c.get(ctx, target)
		if err != nil {
			return "", err
		}
		if !redirected {
			return body, nil
		}
		c.logger.Info("portal session expired", zap.String("domain", string(domain)))
		c.resetSession()
	}
	return "", appErrors.Clone(appErrors.ErrUnauthenticated, "portal keeps redirecting to the login page")
}

func (c *Client) ensureSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loggedIn {
		return nil
	}

	form := url.Values{}
	form.Set("login", c.login)
	form.Set("passwd", c.password)
	form.Set("czy_js", "0")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnreachable.Code, appErrors.ErrUnreachable.Status, "portal login request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := readPage(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden ||
		strings.Contains(body, passwordFlag) {
		return appErrors.Clone(appErrors.ErrUnauthenticated, "")
	}
	c.loggedIn = true
	c.logger.Debug("portal session established")
	return nil
}

func (c *Client) resetSession() {
	c.mu.Lock()
	c.loggedIn = false
	c.mu.Unlock()
}

// get downloads the page and reports whether the portal bounced the request to the login form.
func (c *Client) get(ctx context.Context, target string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", false, appErrors.Wrap(err, appErrors.ErrUnreachable.Code, appErrors.ErrUnreachable.Status,
			"portal request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := readPage(resp)
	if err != nil {
		return "", false, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", true, nil
	}
	if resp.Request != nil && resp.Request.URL != nil && strings.HasPrefix(resp.Request.URL.Path, loginPath) {
		return "", true, nil
	}
	return body, false, nil
}

func readPage(resp *http.Response) (string, error) {
	if resp.StatusCode >= http.StatusInternalServerError {
		return "", appErrors.Clone(appErrors.ErrUnreachable, fmt.Sprintf("portal responded with %d", resp.StatusCode))
	}
	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusUnauthorized &&
		resp.StatusCode != http.StatusForbidden {
		return "", appErrors.Clone(appErrors.ErrUnreachable, fmt.Sprintf("portal responded with %d", resp.StatusCode))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnreachable.Code, appErrors.ErrUnreachable.Status, "read portal page")
	}
	return string(data), nil
}
