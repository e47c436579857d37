package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dvbwitso/kire-studio/internal/domain"
	"github.com/sony/gobreaker/v2"
)

var ErrUnavailable = errors.New("cms unavailable")

// Config points the client at a Sanity-style content API.
type Config struct {
	BaseURL    string // e.g. https://3klw8jzl.api.sanity.io
	Dataset    string // e.g. production
	APIVersion string // e.g. 2024-01-01
	Token      string // bearer token, required for mutations only
}

// Client talks to the headless CMS over its query and mutate endpoints.
// All calls run behind a circuit breaker; once the CMS starts failing the
// breaker opens and callers get ErrUnavailable immediately instead of
// waiting out timeouts.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "cms",
			MaxRequests: 3,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// productDoc mirrors the CMS product schema. Prices are formatted strings
// there; conversion to domain types happens in toCatalogItem.
type productDoc struct {
	ID                 string  `json:"_id"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	Description        string  `json:"description"`
	Price              string  `json:"price"`
	OriginalPrice      string  `json:"originalPrice"`
	DiscountPercentage float64 `json:"discountPercentage"`
	Stock              int     `json:"stock"`
	IsNew              bool    `json:"isNew"`
	NewUntil           string  `json:"newUntil"`
	ImageURL           string  `json:"imageUrl"`
}

type calendarDayDoc struct {
	Date  string `json:"date"`
	Slots []struct {
		Time      string `json:"time"`
		Available bool   `json:"available"`
	} `json:"slots"`
}

// FetchProducts returns the shop catalog ordered by category then name.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.CatalogItem, error) {
	const query = `*[_type == "product"] | order(category asc, name asc) {
		_id, name, category, description, price, originalPrice,
		discountPercentage, stock, isNew, newUntil,
		"imageUrl": image.asset->url
	}`
	return c.fetchItems(ctx, query)
}

// FetchServices returns the bookable services. Services have no stock; the
// field decodes to zero and stays unused on the booking path.
func (c *Client) FetchServices(ctx context.Context) ([]domain.CatalogItem, error) {
	const query = `*[_type == "service"] | order(category asc, name asc) {
		_id, name, category, description, duration, price, originalPrice,
		discountPercentage, isNew, newUntil,
		"imageUrl": image.asset->url
	}`
	return c.fetchItems(ctx, query)
}

func (c *Client) fetchItems(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	data, err := c.runQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	var docs []productDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode catalog result: %w", err)
	}

	items := make([]domain.CatalogItem, 0, len(docs))
	for _, doc := range docs {
		item, err := toCatalogItem(doc)
		if err != nil {
			// A single malformed document must not take the whole
			// catalog down with it.
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// FetchSchedule returns the booking availability table.
func (c *Client) FetchSchedule(ctx context.Context) (domain.Schedule, error) {
	const query = `*[_type == "calendarDay"] | order(date asc) { date, slots }`

	data, err := c.runQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	var docs []calendarDayDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode schedule result: %w", err)
	}

	schedule := make(domain.Schedule, len(docs))
	for _, doc := range docs {
		slots := make([]domain.TimeSlot, 0, len(doc.Slots))
		for _, s := range doc.Slots {
			slots = append(slots, domain.TimeSlot{Time: s.Time, Available: s.Available})
		}
		schedule[doc.Date] = slots
	}
	return schedule, nil
}

// DecrementStock asks the CMS to lower a product's stock counter. Called
// fire-and-forget at order completion; the CMS clamps at zero on its side
// as well, this is a best-effort sync of the editor-facing counter.
func (c *Client) DecrementStock(ctx context.Context, productID string, amount int) error {
	mutation := map[string]any{
		"patch": map[string]any{
			"id":  productID,
			"dec": map[string]any{"stock": amount},
		},
	}
	return c.runMutations(ctx, []any{mutation})
}

// CreateBooking stores a confirmed booking as a CMS document so the studio
// staff see it next to the rest of the content.
func (c *Client) CreateBooking(ctx context.Context, b domain.Booking) error {
	mutation := map[string]any{
		"create": map[string]any{
			"_type":     "booking",
			"bookingId": b.ID,
			"service":   b.Service,
			"date":      b.Date,
			"time":      b.Time,
			"name":      b.Name,
			"phone":     b.Phone,
			"email":     b.Email,
			"createdAt": b.CreatedAt.Format(time.RFC3339),
		},
	}
	return c.runMutations(ctx, []any{mutation})
}

func (c *Client) runQuery(ctx context.Context, query string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?query=%s",
		c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.Dataset, url.QueryEscape(query))

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode query envelope: %w", err)
	}
	return envelope.Result, nil
}

func (c *Client) runMutations(ctx context.Context, mutations []any) error {
	endpoint := fmt.Sprintf("%s/v%s/data/mutate/%s",
		c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.Dataset)

	payload, err := json.Marshal(map[string]any{"mutations": mutations})
	if err != nil {
		return fmt.Errorf("marshal mutations: %w", err)
	}

	_, err = c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, http.MethodPost, endpoint, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build cms request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read cms response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cms returned status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

func toCatalogItem(doc productDoc) (domain.CatalogItem, error) {
	price, err := domain.ParsePrice(doc.Price)
	if err != nil {
		return domain.CatalogItem{}, err
	}

	item := domain.CatalogItem{
		ID:                 doc.ID,
		Name:               doc.Name,
		Category:           doc.Category,
		Description:        doc.Description,
		Price:              price,
		DiscountPercentage: doc.DiscountPercentage,
		Stock:              doc.Stock,
		IsNew:              doc.IsNew,
		ImageURL:           doc.ImageURL,
	}

	if doc.OriginalPrice != "" {
		original, err := domain.ParsePrice(doc.OriginalPrice)
		if err == nil {
			item.OriginalPrice = &original
		}
	}
	if doc.NewUntil != "" {
		until, err := time.Parse(time.RFC3339, doc.NewUntil)
		if err != nil {
			// Date-only values are what the studio editor usually enters.
			until, err = time.Parse(domain.DateKey, doc.NewUntil)
		}
		if err == nil {
			item.NewUntil = &until
		}
	}
	return item, nil
}
