package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx answer of the health API. Message is the server's
// "error" field, or the status text when the body carried none.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("health api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsValidation reports whether err is an APIError with status 400
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

type errorBody struct {
	Error string `json:"error"`
}

// Client talks to the health API over HTTP/JSON
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// Option mutates the Client during New
type Option func(*Client) error

// WithTimeout overrides the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		c.http.SetTimeout(d)
		return nil
	}
}

// WithHTTPClient routes requests through hc's transport
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("nil http client")
		}
		if hc.Transport != nil {
			c.http.SetTransport(hc.Transport)
		}
		if hc.Timeout > 0 {
			c.http.SetTimeout(hc.Timeout)
		}
		return nil
	}
}

// WithLogger sets the logger used for request tracing at debug level
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	c := &Client{
		http: resty.New().
			SetBaseURL(base.String()).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetTimeout(defaultTimeout),
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.http.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.logger.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Dur("duration", resp.Time()).
			Msg("health api call")
		return nil
	})

	return c, nil
}

// ListVitalSigns returns a user's vital signs newest first. A limit of zero
// or less uses the server default.
func (c *Client) ListVitalSigns(ctx context.Context, userID int64, limit int) ([]VitalSign, error) {
	var out []VitalSign
	err := c.get(ctx, "/api/vital-signs", listParams(userID, limit), &out)
	return out, err
}

// CreateVitalSign records a measurement set and returns the stored record
func (c *Client) CreateVitalSign(ctx context.Context, in VitalSignInput) (*VitalSign, error) {
	var out VitalSign
	if err := c.post(ctx, "/api/vital-signs", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMedications returns a user's medications newest first. A nil active
// lists both active and inactive ones.
func (c *Client) ListMedications(ctx context.Context, userID int64, active *bool) ([]Medication, error) {
	params := listParams(userID, 0)
	if active != nil {
		params.Set("isActive", strconv.FormatBool(*active))
	}

	var out []Medication
	err := c.get(ctx, "/api/medications", params, &out)
	return out, err
}

// CreateMedication records a medication and returns the stored record
func (c *Client) CreateMedication(ctx context.Context, in MedicationInput) (*Medication, error) {
	var out Medication
	if err := c.post(ctx, "/api/medications", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListConsultations returns a user's consultations newest first
func (c *Client) ListConsultations(ctx context.Context, userID int64, limit int) ([]Consultation, error) {
	var out []Consultation
	err := c.get(ctx, "/api/ai-consultation", listParams(userID, limit), &out)
	return out, err
}

// RequestConsultation asks for AI guidance on symptoms and returns the
// persisted consultation with the context it was built from
func (c *Client) RequestConsultation(ctx context.Context, in ConsultationInput) (*ConsultationResult, error) {
	var out ConsultationResult
	if err := c.post(ctx, "/api/ai-consultation", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserByEmail returns the user registered with email, or nil
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var out *User
	err := c.get(ctx, "/api/users", url.Values{"email": {email}}, &out)
	return out, err
}

// ListUsers returns every user
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := c.get(ctx, "/api/users", nil, &out)
	return out, err
}

// CreateUser registers a user
func (c *Client) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	var out User
	if err := c.post(ctx, "/api/users", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func listParams(userID int64, limit int) url.Values {
	params := url.Values{}
	if userID > 0 {
		params.Set("userId", strconv.FormatInt(userID, 10))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(out).
		SetError(&errorBody{}).
		Get(path)
	return checkResponse(resp, err)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(out).
		SetError(&errorBody{}).
		Post(path)
	return checkResponse(resp, err)
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("health api request: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	message := http.StatusText(resp.StatusCode())
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		message = body.Error
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: message}
}
