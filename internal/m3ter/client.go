package m3ter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smallbiznis/meterseed/internal/catalog"
	"go.uber.org/zap"
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	IngestURL string
	OrgID     string
	AccessKey string
	APISecret string
	Timeout   time.Duration
}

// Client is an authenticated HTTP client for the metering platform. It holds
// a single bearer token for its lifetime; one instance serves one stage run.
type Client struct {
	baseURL   string
	ingestURL string
	orgID     string
	accessKey string
	apiSecret string
	token     string
	client    *http.Client
	log       *zap.Logger
}

func New(opts Options, log *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		ingestURL: strings.TrimRight(opts.IngestURL, "/"),
		orgID:     strings.TrimSpace(opts.OrgID),
		accessKey: strings.TrimSpace(opts.AccessKey),
		apiSecret: strings.TrimSpace(opts.APISecret),
		client:    &http.Client{Timeout: timeout},
		log:       log,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Authenticate exchanges the access key pair for a bearer token.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.accessKey == "" || c.apiSecret == "" || c.orgID == "" {
		return &AuthError{Err: fmt.Errorf("access key, api secret and org id are required")}
	}

	body, _ := json.Marshal(map[string]string{"grant_type": "client_credentials"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", bytes.NewReader(body))
	if err != nil {
		return &AuthError{Err: err}
	}
	creds := base64.StdEncoding.EncodeToString([]byte(c.accessKey + ":" + c.apiSecret))
	req.Header.Set("Authorization", "Basic "+creds)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		return &AuthError{Err: fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return &AuthError{Err: err}
	}
	if tok.AccessToken == "" {
		return &AuthError{Err: fmt.Errorf("token endpoint returned no access_token")}
	}
	c.token = tok.AccessToken
	c.log.Info("authenticated", zap.String("org_id", c.orgID))
	return nil
}

func (c *Client) CreateProduct(ctx context.Context, p catalog.Product) (string, error) {
	return c.create(ctx, "product", "products", p)
}

func (c *Client) CreateMeter(ctx context.Context, m catalog.Meter) (string, error) {
	return c.create(ctx, "meter", "meters", m)
}

func (c *Client) CreateAggregation(ctx context.Context, a catalog.Aggregation) (string, error) {
	return c.create(ctx, "aggregation", "aggregations", a)
}

func (c *Client) CreatePlanTemplate(ctx context.Context, t catalog.PlanTemplate) (string, error) {
	return c.create(ctx, "plan template", "plantemplates", t)
}

func (c *Client) CreatePlan(ctx context.Context, p catalog.Plan) (string, error) {
	return c.create(ctx, "plan", "plans", p)
}

func (c *Client) CreatePricing(ctx context.Context, p catalog.Pricing) (string, error) {
	return c.create(ctx, "pricing", "pricings", p)
}

func (c *Client) CreateAccount(ctx context.Context, a catalog.Account) (string, error) {
	return c.create(ctx, "account", "accounts", a)
}

func (c *Client) CreateAccountPlan(ctx context.Context, ap catalog.AccountPlan) (string, error) {
	return c.create(ctx, "account plan", "accountplans", ap)
}

func (c *Client) ProductByCode(ctx context.Context, code string) (string, error) {
	return c.findByCode(ctx, "product", "products", code)
}

func (c *Client) MeterByCode(ctx context.Context, code string) (string, error) {
	return c.findByCode(ctx, "meter", "meters", code)
}

func (c *Client) AggregationByCode(ctx context.Context, code string) (string, error) {
	return c.findByCode(ctx, "aggregation", "aggregations", code)
}

func (c *Client) PlanTemplateByCode(ctx context.Context, code string) (string, error) {
	return c.findByCode(ctx, "plan template", "plantemplates", code)
}

func (c *Client) PlanByCode(ctx context.Context, code string) (string, error) {
	return c.findByCode(ctx, "plan", "plans", code)
}

func (c *Client) AccountByCode(ctx context.Context, code string) (string, error) {
	return c.findByCode(ctx, "account", "accounts", code)
}

// Measurement is a single synthesized usage record. Measure keys are
// aggregation codes provisioned during the catalog stage.
type Measurement struct {
	UID       string           `json:"uid"`
	Meter     string           `json:"meter"`
	Account   string           `json:"account"`
	Timestamp string           `json:"ts"`
	Measure   map[string]int64 `json:"measure"`
}

// MeasurementBatch is one ingestion request for one account.
type MeasurementBatch struct {
	Measurements []Measurement `json:"measurements"`
}

// SubmitMeasurements posts one batch to the ingestion host.
func (c *Client) SubmitMeasurements(ctx context.Context, batch MeasurementBatch) error {
	if c.token == "" {
		return ErrNotAuthenticated
	}
	endpoint := fmt.Sprintf("%s/organizations/%s/measurements", c.ingestURL, c.orgID)
	resp, err := c.post(ctx, endpoint, batch)
	if err != nil {
		return &APIError{Kind: "measurements", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		return &APIError{Kind: "measurements", Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

type createResponse struct {
	ID string `json:"id"`
}

func (c *Client) create(ctx context.Context, kind, collection string, payload any) (string, error) {
	if c.token == "" {
		return "", ErrNotAuthenticated
	}
	endpoint := fmt.Sprintf("%s/organizations/%s/%s", c.baseURL, c.orgID, collection)
	resp, err := c.post(ctx, endpoint, payload)
	if err != nil {
		return "", &APIError{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		return "", &APIError{Kind: kind, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var created createResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", &APIError{Kind: kind, Err: fmt.Errorf("decode response: %w", err)}
	}
	if created.ID == "" {
		return "", &APIError{Kind: kind, Err: fmt.Errorf("response carried no id")}
	}
	c.log.Info("entity created", zap.String("kind", kind), zap.String("id", created.ID))
	return created.ID, nil
}

type listResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	} `json:"data"`
}

// findByCode returns the id of an existing entity with the given code, or ""
// when none exists. Serves the skip-if-exists mode.
func (c *Client) findByCode(ctx context.Context, kind, collection, code string) (string, error) {
	if c.token == "" {
		return "", ErrNotAuthenticated
	}
	endpoint := fmt.Sprintf("%s/organizations/%s/%s?codes=%s", c.baseURL, c.orgID, collection, url.QueryEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", &APIError{Kind: kind, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &APIError{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		return "", &APIError{Kind: kind, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", &APIError{Kind: kind, Err: fmt.Errorf("decode response: %w", err)}
	}
	for _, item := range list.Data {
		if item.Code == code {
			return item.ID, nil
		}
	}
	return "", nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}
