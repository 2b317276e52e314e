package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 2 << 20

// DefaultUserAgent identifies outbound requests.
const DefaultUserAgent = "searchrelay/1.0 (+https://github.com/searchrelay/searchrelay)"

// newHTTPClient builds a client whose connection setup is bounded by
// dialTimeout. Overall request deadlines come from the caller's context.
func newHTTPClient(dialTimeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         (&net.Dialer{Timeout: dialTimeout}).DialContext,
			TLSHandshakeTimeout: dialTimeout,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}

// fetcher issues GET requests on behalf of one provider.
type fetcher struct {
	provider  string
	client    *http.Client
	userAgent string
}

// get performs a GET with its own timeout and returns the body of a 200
// response. Every failure is a *ProviderError.
func (f *fetcher) get(ctx context.Context, op, rawURL string, params url.Values, timeout time.Duration) ([]byte, error) {
	fail := func(status int, err error) error {
		return &ProviderError{Provider: f.provider, Op: op, StatusCode: status, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fail(0, fmt.Errorf("invalid request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fail(resp.StatusCode, ErrUnexpectedStatus)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fail(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	return body, nil
}

func (f *fetcher) malformed(op string, err error) error {
	return &ProviderError{Provider: f.provider, Op: op, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
}
