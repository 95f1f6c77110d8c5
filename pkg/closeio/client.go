// Package closeio provides API-key authenticated REST access to the Close CRM.
package closeio

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://api.close.com/api/v1"
	defaultPageSize = 100
)

// Resource paths, relative to the API base URL.
const (
	pathLead            = "/lead/"
	pathContact         = "/contact/"
	pathLeadCustomField = "/custom_field/lead/"
)

// Client defines the Close API operations used by the importer and report.
type Client interface {
	// ListLeads returns every lead in the organization, following pagination.
	ListLeads(ctx context.Context) ([]Lead, error)
	// ListContacts returns every contact in the organization, following pagination.
	ListContacts(ctx context.Context) ([]Contact, error)
	// ListLeadCustomFields returns every custom field defined on leads.
	ListLeadCustomFields(ctx context.Context) ([]CustomField, error)
	CreateLead(ctx context.Context, req LeadCreate) (*Lead, error)
	CreateContact(ctx context.Context, req ContactCreate) (*Contact, error)
	CreateLeadCustomField(ctx context.Context, req CustomFieldCreate) (*CustomField, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithPageSize sets the _limit used when listing resources.
func WithPageSize(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithRateLimit throttles API calls to rps requests per second.
// A value <= 0 disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

type httpClient struct {
	apiKey   string
	baseURL  string
	pageSize int
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a Close API client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		pageSize: defaultPageSize,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) ListLeads(ctx context.Context) ([]Lead, error) {
	leads, err := listAll[Lead](ctx, c, pathLead)
	if err != nil {
		return nil, eris.Wrap(err, "closeio: list leads")
	}
	return leads, nil
}

func (c *httpClient) ListContacts(ctx context.Context) ([]Contact, error) {
	contacts, err := listAll[Contact](ctx, c, pathContact)
	if err != nil {
		return nil, eris.Wrap(err, "closeio: list contacts")
	}
	return contacts, nil
}

func (c *httpClient) ListLeadCustomFields(ctx context.Context) ([]CustomField, error) {
	fields, err := listAll[CustomField](ctx, c, pathLeadCustomField)
	if err != nil {
		return nil, eris.Wrap(err, "closeio: list lead custom fields")
	}
	return fields, nil
}

func (c *httpClient) CreateLead(ctx context.Context, req LeadCreate) (*Lead, error) {
	body, err := req.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "closeio: marshal lead")
	}
	var lead Lead
	if err := c.do(ctx, http.MethodPost, pathLead, body, &lead); err != nil {
		return nil, eris.Wrapf(err, "closeio: create lead %q", req.Name)
	}
	return &lead, nil
}

func (c *httpClient) CreateContact(ctx context.Context, req ContactCreate) (*Contact, error) {
	if req.LeadID == "" {
		return nil, eris.New("closeio: lead id is required for contact")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "closeio: marshal contact")
	}
	var contact Contact
	if err := c.do(ctx, http.MethodPost, pathContact, body, &contact); err != nil {
		return nil, eris.Wrapf(err, "closeio: create contact %q", req.Name)
	}
	return &contact, nil
}

func (c *httpClient) CreateLeadCustomField(ctx context.Context, req CustomFieldCreate) (*CustomField, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "closeio: marshal custom field")
	}
	var field CustomField
	if err := c.do(ctx, http.MethodPost, pathLeadCustomField, body, &field); err != nil {
		return nil, eris.Wrapf(err, "closeio: create lead custom field %q", req.Name)
	}
	return &field, nil
}

// page is the envelope Close wraps around every list response.
type page[T any] struct {
	Data    []T  `json:"data"`
	HasMore bool `json:"has_more"`
}

// listAll walks _skip/_limit pages until has_more is false.
func listAll[T any](ctx context.Context, c *httpClient, path string) ([]T, error) {
	var out []T
	skip := 0
	for {
		q := url.Values{}
		q.Set("_skip", strconv.Itoa(skip))
		q.Set("_limit", strconv.Itoa(c.pageSize))

		var p page[T]
		if err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &p); err != nil {
			return nil, err
		}
		out = append(out, p.Data...)

		if !p.HasMore || len(p.Data) == 0 {
			return out, nil
		}
		skip += len(p.Data)
	}
}

// wait blocks until the rate limiter allows one event, or ctx is cancelled.
func (c *httpClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *httpClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	if err := c.wait(ctx); err != nil {
		return eris.Wrap(err, "closeio: rate limit")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return eris.Wrap(err, "closeio: create request")
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "closeio: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "closeio: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return eris.Errorf("closeio: %s %s: unexpected status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "closeio: unmarshal response")
	}
	return nil
}
