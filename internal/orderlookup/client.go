// Package orderlookup fetches order records from the order service for page
// rendering.
package orderlookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ariefcatur/ringsize-hub/internal/orders"
)

var (
	ErrUpstreamStatus = errors.New("order service returned non-ok status")
	ErrNoOrder        = errors.New("order service returned no order")
)

// maxBody caps how much of an order response is read.
const maxBody = 1 << 20

type Client struct {
	BaseURL string // no trailing slash; New trims it
	HTTP    *http.Client
	Timeout time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		Timeout: timeout,
	}
}

// OrderURL builds {base}/order?orderId={id}.
func (c *Client) OrderURL(orderID string) string {
	return c.BaseURL + "/order?orderId=" + url.QueryEscape(orderID)
}

// Fetch requests one order. Responses are never cached.
func (c *Client) Fetch(ctx context.Context, orderID string) (*orders.OrderInformation, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.OrderURL(orderID), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read order: %w", err)
	}
	o, err := orders.DecodeOrderInformation(b)
	if errors.Is(err, orders.ErrEmptyBody) {
		return nil, ErrNoOrder
	}
	if err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return o, nil
}

// Load is Fetch with every failure reported as a missing order.
func (c *Client) Load(ctx context.Context, orderID string) *orders.OrderInformation {
	o, err := c.Fetch(ctx, orderID)
	if err != nil {
		log.Printf("orderlookup: order %q: %v", orderID, err)
		return nil
	}
	return o
}
