package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxBodyBytes limita lo que se lee de una respuesta del proveedor.
const maxBodyBytes = 1 << 20

// ErrUnexpectedStatus se retorna cuando el proveedor responde fuera de 2xx.
var ErrUnexpectedStatus = errors.New("unexpected status")

// GetClient hace GETs con query params y retorna el cuerpo crudo (JSON).
// Los errores de transporte se propagan.
type GetClient interface {
	Get(ctx context.Context, rawURL string, params map[string]string) ([]byte, error)
}

// HTTPGetClient implementa GetClient sobre net/http.
type HTTPGetClient struct {
	client *http.Client
}

// NewHTTPGetClient crea un cliente con el timeout dado (0 = sin timeout propio).
func NewHTTPGetClient(timeout time.Duration) *HTTPGetClient {
	return &HTTPGetClient{client: &http.Client{Timeout: timeout}}
}

// WithHTTPClient reemplaza el *http.Client subyacente (tests con httptest).
func (c *HTTPGetClient) WithHTTPClient(hc *http.Client) *HTTPGetClient {
	c.client = hc
	return c
}

func (c *HTTPGetClient) Get(ctx context.Context, rawURL string, params map[string]string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return body, nil
}
