package publicapis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBase    = "https://api.publicapis.org"
	defaultTimeout = 10 * time.Second

	// Una request por segundo con burst 1: discovery hace una sola llamada
	// por invocación, el limiter solo frena invocaciones repetidas.
	defaultRatePerSec = 1
	entriesPath       = "/entries"
	maxErrorBody      = 512
)

// Client es el HTTP client del directorio de APIs públicas.
// Hace un único intento por llamada: sin retries.
type Client struct {
	http    *http.Client
	base    string
	limiter *rate.Limiter
}

// NewClient crea un Client. base vacío usa el directorio de producción,
// timeout <= 0 usa 10s y ratePerSec <= 0 usa 1 req/s.
func NewClient(base string, timeout time.Duration, ratePerSec float64) *Client {
	if base == "" {
		base = defaultBase
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ratePerSec <= 0 {
		ratePerSec = defaultRatePerSec
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		base:    base,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
	}
}

// get hace un GET con rate limiting y decodifica el JSON en out.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
