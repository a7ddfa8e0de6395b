package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/domain"
	"github.com/slerbakk/storefront/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is the public product API the storefront is built on.
const DefaultBaseURL = "https://v2.api.noroff.dev/online-shop"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnavailable     = errors.New("product catalog unavailable")
)

// Source is where products come from.
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type listResponse struct {
	Data []domain.Product `json:"data"`
	Meta PageMeta         `json:"meta"`
}

type productResponse struct {
	Data domain.Product `json:"data"`
}

type PageMeta struct {
	IsFirstPage  bool `json:"isFirstPage"`
	IsLastPage   bool `json:"isLastPage"`
	CurrentPage  int  `json:"currentPage"`
	PreviousPage *int `json:"previousPage"`
	NextPage     *int `json:"nextPage"`
	PageCount    int  `json:"pageCount"`
	TotalCount   int  `json:"totalCount"`
}

// Client talks to the upstream product API over HTTP. Every request goes
// through a circuit breaker; a 404 does not count against it.
type Client struct {
	baseURL string
	http    *http.Client
	list    *gobreaker.CircuitBreaker[[]domain.Product]
	single  *gobreaker.CircuitBreaker[*domain.Product]
}

func NewClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	notFoundIsHealthy := func(err error) bool {
		return err == nil || errors.Is(err, ErrProductNotFound)
	}
	cfg := circuitbreaker.DefaultConfig()
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		list:   circuitbreaker.New[[]domain.Product]("catalog-list", cfg, log, notFoundIsHealthy),
		single: circuitbreaker.New[*domain.Product]("catalog-get", cfg, log, notFoundIsHealthy),
	}
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := c.list.Execute(func() ([]domain.Product, error) {
		var resp listResponse
		if err := c.getJSON(ctx, c.baseURL, &resp); err != nil {
			return nil, err
		}
		if resp.Data == nil {
			return []domain.Product{}, nil
		}
		return resp.Data, nil
	})
	return products, breakerError(err)
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrProductNotFound
	}
	product, err := c.single.Execute(func() (*domain.Product, error) {
		var resp productResponse
		if err := c.getJSON(ctx, c.baseURL+"/"+url.PathEscape(id), &resp); err != nil {
			return nil, err
		}
		return &resp.Data, nil
	})
	return product, breakerError(err)
}

func (c *Client) getJSON(ctx context.Context, u string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", u, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrProductNotFound
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
