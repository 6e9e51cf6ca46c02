package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"smokecheck/internal/log"
)

const userAgent = "smokecheck/1.0"

// Fetcher is the network surface the checks depend on. Every call is a
// single request; nothing is retried or cached.
type Fetcher interface {
	GetJSON(ctx context.Context, url string, v any) error
	GetText(ctx context.Context, url string) (string, error)
	Get(ctx context.Context, url string) (*Response, error)
	HeadStatus(ctx context.Context, url string) (int, error)
}

// Response is a fully read GET response.
type Response struct {
	StatusCode int
	Body       []byte
}

// StatusError is returned by GetJSON and GetText for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d (%s)", e.StatusCode, e.URL)
}

// ErrRateLimited is wrapped when the GitHub API reports an exhausted quota.
var ErrRateLimited = errors.New("GitHub API rate limit exceeded")

// HTTPFetcher implements Fetcher over net/http.
type HTTPFetcher struct {
	client  *http.Client
	apiBase string
	token   string
}

// NewHTTPFetcher returns a fetcher without a client timeout; callers bound
// individual requests through ctx. Requests under apiBase are sent with the
// GitHub API headers and, when token is set, a bearer token.
func NewHTTPFetcher(apiBase, token string) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{},
		apiBase: strings.TrimRight(apiBase, "/"),
		token:   token,
	}
}

func (f *HTTPFetcher) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	if f.apiBase != "" && strings.HasPrefix(url, f.apiBase) {
		req.Header.Set("Accept", "application/vnd.github+json")
		if f.token != "" {
			req.Header.Set("Authorization", "Bearer "+f.token)
		}
	}
	return req, nil
}

func (f *HTTPFetcher) Get(ctx context.Context, url string) (*Response, error) {
	req, err := f.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.Logger.Warn("failed to fetch URL",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if err := checkRateLimit(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Logger.Warn("failed to read response body",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Logger.Debug("fetched URL",
		zap.String("url", url),
		zap.Int("status_code", resp.StatusCode),
		zap.Int("content_length", len(body)),
	)

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (f *HTTPFetcher) GetText(ctx context.Context, url string) (string, error) {
	resp, err := f.Get(ctx, url)
	if err != nil {
		return "", err
	}
	if !isSuccess(resp.StatusCode) {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return string(resp.Body), nil
}

func (f *HTTPFetcher) GetJSON(ctx context.Context, url string, v any) error {
	resp, err := f.Get(ctx, url)
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("failed to decode JSON from %s: %w", url, err)
	}
	return nil
}

// HeadStatus sends a HEAD request, following redirects, and returns the
// final status code. The body is never downloaded.
func (f *HTTPFetcher) HeadStatus(ctx context.Context, url string) (int, error) {
	req, err := f.newRequest(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.Logger.Debug("HEAD request failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return 0, fmt.Errorf("failed to probe URL: %w", err)
	}
	defer resp.Body.Close()

	log.Logger.Debug("probed URL",
		zap.String("url", url),
		zap.Int("status_code", resp.StatusCode),
	)
	return resp.StatusCode, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// checkRateLimit turns an exhausted GitHub quota into ErrRateLimited so the
// report says why the API refused instead of a bare 403.
func checkRateLimit(resp *http.Response) error {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}
	if resp.Header.Get("X-RateLimit-Remaining") != "0" {
		return nil
	}

	reset := resp.Header.Get("X-RateLimit-Reset")
	if resetUnix, err := strconv.ParseInt(reset, 10, 64); err == nil {
		resetAt := time.Unix(resetUnix, 0).UTC()
		return fmt.Errorf("%w, resets at %s", ErrRateLimited, resetAt.Format(time.RFC3339))
	}
	return ErrRateLimited
}
