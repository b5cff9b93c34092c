package classifier

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/thomas-vilte/commitintent/internal/config"
	domainErrors "github.com/thomas-vilte/commitintent/internal/errors"
	"github.com/thomas-vilte/commitintent/internal/logger"
	"github.com/thomas-vilte/commitintent/internal/models"
)

const (
	maxResponseSize = 1 << 20
	maxErrorBody    = 512
)

// HTTPClient is the transport seam; *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type clientKey struct {
	timeout  time.Duration
	insecure bool
}

// Client posts diffs to the commit intent endpoint.
type Client struct {
	mu      sync.Mutex
	fixed   HTTPClient
	clients map[clientKey]HTTPClient
}

type Option func(*Client)

// WithHTTPClient makes every request go through c, ignoring the timeout and TLS
// settings of the configuration.
func WithHTTPClient(c HTTPClient) Option {
	return func(cl *Client) { cl.fixed = c }
}

func NewClient(opts ...Option) *Client {
	c := &Client{clients: make(map[clientKey]HTTPClient)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze sends the diff and returns the raw intent text.
func (c *Client) Analyze(ctx context.Context, diff string, cfg config.Config) (string, error) {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(models.AnalysisRequest{Diff: diff})
	if err != nil {
		return "", domainErrors.ErrInternal.WithError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", domainErrors.ErrAPIConnection.
			WithError(err).
			WithContext("url", cfg.APIURL)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	log.Debug("sending diff for analysis", "url", cfg.APIURL, "size", len(diff))

	resp, err := c.httpClient(cfg).Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", domainErrors.ErrAPITimeout.
				WithError(err).
				WithContext("url", cfg.APIURL).
				WithContext("timeout_ms", cfg.TimeoutMs)
		}
		return "", domainErrors.ErrAPIConnection.
			WithError(err).
			WithContext("url", cfg.APIURL)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug("error closing response body", "error", err)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if isTimeout(err) {
			return "", domainErrors.ErrAPITimeout.
				WithError(err).
				WithContext("url", cfg.APIURL)
		}
		return "", domainErrors.ErrAPIConnection.
			WithError(err).
			WithContext("url", cfg.APIURL)
	}

	log.Debug("analysis response received",
		"status", resp.StatusCode,
		"size", len(data),
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", domainErrors.ErrAPIStatus.
			WithContext("url", cfg.APIURL).
			WithContext("status", resp.StatusCode).
			WithContext("body", truncate(strings.TrimSpace(string(data)), maxErrorBody))
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return "", domainErrors.ErrMalformedResponse.
			WithError(err).
			WithContext("url", cfg.APIURL)
	}
	if result.Intent == "" {
		return "", domainErrors.ErrMalformedResponse.WithContext("url", cfg.APIURL)
	}

	return result.Intent, nil
}

// httpClient returns a client for the timeout and TLS settings of cfg, reusing
// one per distinct combination so connections are pooled across runs.
func (c *Client) httpClient(cfg config.Config) HTTPClient {
	if c.fixed != nil {
		return c.fixed
	}

	key := clientKey{
		timeout:  cfg.Timeout(),
		insecure: cfg.AllowInsecureSSL && isHTTPS(cfg.APIURL),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if hc, ok := c.clients[key]; ok {
		return hc
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if key.insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	hc := &http.Client{Timeout: key.timeout, Transport: transport}
	c.clients[key] = hc
	return hc
}

func isHTTPS(rawURL string) bool {
	return len(rawURL) >= len("https://") && strings.EqualFold(rawURL[:len("https://")], "https://")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:n], len(s))
}
