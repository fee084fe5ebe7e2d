package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// probePath is requested by Probe. Any HTTP answer, including 401, shows
// the API is reachable.
const probePath = "/auth/perfil"

// Probe checks that baseURL answers HTTP without changing the client's
// configured root. Only transport failures are reported.
func (c *Client) Probe(ctx context.Context, baseURL string) error {
	root := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(root)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API address %q", baseURL)
	}

	op := "probe " + root
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root+probePath, nil)
	if err != nil {
		return fmt.Errorf("creating request %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}
