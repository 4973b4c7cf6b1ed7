package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"nudge-backend/config"
	"nudge-backend/domain"
)

// URL scheme constants
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

const detailLimit = 180

// Retryable upstream statuses. 408 is handled separately as a timeout.
var retryableStatuses = map[int]bool{
	429: true, 500: true, 501: true, 502: true, 503: true, 504: true,
}

// Result is the outcome of one fetch. Exactly one of OK and ErrorCode is
// meaningful; Retryable only applies to failures.
type Result struct {
	OK          bool
	FinalURL    string
	HTTPStatus  *int
	ContentType string
	Body        []byte
	ErrorCode   string
	ErrorDetail string
	Retryable   bool
}

// HTTPClient is the request surface the fetcher needs, kept narrow for tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs bounded article fetches: redirects followed, content type
// gated to HTML, body streamed under a byte cap.
type Client struct {
	cfg        config.FetchConfig
	httpClient HTTPClient
	logger     *slog.Logger
}

func NewClient(cfg config.FetchConfig, logger *slog.Logger) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: transport,
		},
		logger: logger,
	}
}

// NewClientWithHTTPClient injects a custom HTTP client, for tests.
func NewClientWithHTTPClient(cfg config.FetchConfig, httpClient HTTPClient, logger *slog.Logger) *Client {
	return &Client{cfg: cfg, httpClient: httpClient, logger: logger}
}

// ValidateURL rejects anything that is not a plain http(s) URL with a host.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if parsed.Scheme != SchemeHTTP && parsed.Scheme != SchemeHTTPS {
		return errors.New("only HTTP or HTTPS schemes allowed")
	}
	if parsed.Hostname() == "" {
		return errors.New("URL must contain a host")
	}
	return nil
}

// Fetch retrieves the URL and classifies every failure mode into an error
// code plus a retryable flag. It never returns a Go error; the Result carries
// the verdict so the worker can persist it as an attempt.
func (c *Client) Fetch(ctx context.Context, rawURL string) Result {
	if err := ValidateURL(rawURL); err != nil {
		return Result{
			ErrorCode:   domain.ErrCodeInvalidURL,
			ErrorDetail: "URL appears invalid. Please double-check it.",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout+c.cfg.ReadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{
			ErrorCode:   domain.ErrCodeInvalidURL,
			ErrorDetail: shortDetail(err.Error()),
		}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.classifyTransportError(ctx, rawURL, err)
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	contentType := resp.Header.Get("Content-Type")

	if retryableStatuses[status] {
		return Result{
			FinalURL:    finalURL,
			HTTPStatus:  &status,
			ContentType: contentType,
			ErrorCode:   fmt.Sprintf("http_%d", status),
			ErrorDetail: fmt.Sprintf("Upstream returned HTTP %d.", status),
			Retryable:   true,
		}
	}
	if status == http.StatusRequestTimeout {
		return Result{
			FinalURL:    finalURL,
			HTTPStatus:  &status,
			ContentType: contentType,
			ErrorCode:   domain.ErrCodeTimeout,
			ErrorDetail: "Request timed out (HTTP 408).",
			Retryable:   true,
		}
	}
	if status >= 400 {
		return Result{
			FinalURL:    finalURL,
			HTTPStatus:  &status,
			ContentType: contentType,
			ErrorCode:   fmt.Sprintf("http_%d", status),
			ErrorDetail: fmt.Sprintf("Upstream returned HTTP %d.", status),
		}
	}

	lower := strings.ToLower(contentType)
	if contentType != "" && !strings.Contains(lower, "text/html") && !strings.Contains(lower, "application/xhtml+xml") {
		return Result{
			FinalURL:    finalURL,
			HTTPStatus:  &status,
			ContentType: contentType,
			ErrorCode:   domain.ErrCodeNonHTML,
			ErrorDetail: "Link does not look like an HTML page (non-HTML content type).",
		}
	}

	body, readErr := c.readBounded(resp.Body)
	if readErr != nil {
		if errors.Is(readErr, errBodyTooLarge) {
			return Result{
				FinalURL:    finalURL,
				HTTPStatus:  &status,
				ContentType: contentType,
				ErrorCode:   domain.ErrCodeMaxBytesExceeded,
				ErrorDetail: "Page is too large to process.",
			}
		}
		return c.classifyTransportError(ctx, rawURL, readErr)
	}

	c.logger.InfoContext(ctx, "page fetched",
		"url", rawURL,
		"final_url", finalURL,
		"status", status,
		"bytes", len(body),
	)

	return Result{
		OK:          true,
		FinalURL:    finalURL,
		HTTPStatus:  &status,
		ContentType: contentType,
		Body:        body,
	}
}

var errBodyTooLarge = errors.New("body exceeds max bytes")

// readBounded streams the body with a running total and aborts the moment the
// cap is crossed, so the remainder is never downloaded.
func (c *Client) readBounded(body io.Reader) ([]byte, error) {
	buf := make([]byte, 0, 64*1024)
	chunk := make([]byte, 32*1024)
	var total int64

	for {
		n, err := body.Read(chunk)
		if n > 0 {
			total += int64(n)
			if total > c.cfg.MaxBytes {
				return nil, errBodyTooLarge
			}
			buf = append(buf, chunk[:n]...)
		}
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (c *Client) classifyTransportError(ctx context.Context, rawURL string, err error) Result {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout(),
		errors.Is(err, context.DeadlineExceeded):
		c.logger.WarnContext(ctx, "fetch timed out", "url", rawURL, "error", err)
		return Result{
			ErrorCode:   domain.ErrCodeTimeout,
			ErrorDetail: shortDetail(err.Error()),
			Retryable:   true,
		}
	case isTransportError(err):
		c.logger.WarnContext(ctx, "fetch connection error", "url", rawURL, "error", err)
		return Result{
			ErrorCode:   domain.ErrCodeConnectionError,
			ErrorDetail: shortDetail(err.Error()),
			Retryable:   true,
		}
	default:
		c.logger.ErrorContext(ctx, "unexpected fetch error", "url", rawURL, "error", err)
		return Result{
			ErrorCode:   domain.ErrCodeUnexpectedFetch,
			ErrorDetail: shortDetail(err.Error()),
		}
	}
}

func isTransportError(err error) bool {
	var urlErr *url.Error
	var opErr *net.OpError
	var dnsErr *net.DNSError
	return errors.As(err, &urlErr) || errors.As(err, &opErr) || errors.As(err, &dnsErr)
}

// shortDetail clips stored error text so attempt rows stay bounded.
func shortDetail(msg string) string {
	msg = strings.TrimSpace(msg)
	if len(msg) <= detailLimit {
		return msg
	}
	return msg[:detailLimit-3] + "..."
}

// ShortDetail exposes the clipping rule to other packages recording attempts.
func ShortDetail(msg string) string {
	return shortDetail(msg)
}
