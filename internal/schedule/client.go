package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/Versuscsdota/MirrorCRM/internal/dateutil"
	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

const (
	schedulePath  = "/schedule"
	employeesPath = "/employees"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client is the REST implementation of Service.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
	now    func() time.Time
}

var _ Service = (*Client)(nil)

// NewClient creates a Schedule Service client.
// Requests are never retried: a rejected commit must reach the user, not be replayed.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{logger: logger, now: time.Now}
	c.http = resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(logger.Sugar()).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Cache-Control", "no-cache").
		SetHeader("Pragma", "no-cache").
		OnBeforeRequest(c.bustCache)
	if opts.Token != "" {
		c.http.SetAuthToken(opts.Token)
	}
	return c
}

// bustCache stamps GET requests so intermediaries never serve a stale list.
func (c *Client) bustCache(_ *resty.Client, r *resty.Request) error {
	if r.Method == http.MethodGet {
		r.SetQueryParam("__ts", strconv.FormatInt(c.now().UnixMilli(), 10))
	}
	return nil
}

type dayResponse struct {
	Items []slot.Slot `json:"items"`
}

type monthResponse struct {
	Days []slot.MonthDay `json:"days"`
}

// ListDay returns the slots of one date.
func (c *Client) ListDay(ctx context.Context, date string) ([]slot.Slot, error) {
	if _, err := dateutil.ParseDate(date); err != nil || date == "" {
		return nil, dateutil.ErrInvalidDateFormat
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("date", date).
		Get(schedulePath)
	if err := c.check("list day", resp, err); err != nil {
		return nil, err
	}

	var out dayResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	c.logger.Debug("listed slots", zap.String("date", date), zap.Int("count", len(out.Items)))
	return out.Items, nil
}

// Month returns per-day slot counts for a YYYY-MM month.
func (c *Client) Month(ctx context.Context, month string) ([]slot.MonthDay, error) {
	if _, err := dateutil.ParseMonth(month); err != nil || month == "" {
		return nil, dateutil.ErrInvalidMonthFormat
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("month", month).
		Get(schedulePath)
	if err := c.check("month", resp, err); err != nil {
		return nil, err
	}

	var out monthResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Days, nil
}

// Create stores a new slot and returns the server's copy.
func (c *Client) Create(ctx context.Context, req slot.CreateRequest) (slot.Slot, error) {
	if err := req.Validate(); err != nil {
		return slot.Slot{}, err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(schedulePath)
	if err := c.check("create", resp, err); err != nil {
		return slot.Slot{}, err
	}

	var created slot.Slot
	if err := decode(resp, &created); err != nil {
		return slot.Slot{}, err
	}
	c.logger.Info("slot created",
		zap.String("id", created.ID),
		zap.String("date", req.Date),
		zap.String("start", req.Start),
	)
	return created, nil
}

// Update changes an existing slot. An empty response body yields a zero Slot.
func (c *Client) Update(ctx context.Context, req slot.UpdateRequest) (slot.Slot, error) {
	if err := req.Validate(); err != nil {
		return slot.Slot{}, err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Put(schedulePath)
	if err := c.check("update", resp, err); err != nil {
		return slot.Slot{}, err
	}

	var updated slot.Slot
	if err := decode(resp, &updated); err != nil {
		return slot.Slot{}, err
	}
	c.logger.Info("slot updated",
		zap.String("id", req.ID),
		zap.String("start", req.Start),
		zap.String("end", req.End),
		zap.String("resource_id", req.ResourceID),
	)
	return updated, nil
}

// Delete removes a slot.
func (c *Client) Delete(ctx context.Context, id, date string) error {
	if id == "" {
		return slot.ErrMissingID
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("id", id).
		SetQueryParam("date", date).
		Delete(schedulePath)
	if err := c.check("delete", resp, err); err != nil {
		return err
	}
	c.logger.Info("slot deleted", zap.String("id", id), zap.String("date", date))
	return nil
}

// Resources returns the employees used as grid rows. The endpoint answers
// either with a bare array or with {"items": [...]}.
func (c *Client) Resources(ctx context.Context) ([]slot.Resource, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(employeesPath)
	if err := c.check("resources", resp, err); err != nil {
		return nil, err
	}

	var list []slot.Resource
	if err := json.Unmarshal(resp.Body(), &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Items []slot.Resource `json:"items"`
	}
	if err := decode(resp, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Items, nil
}

// check turns a transport error or a non-2xx response into an error.
func (c *Client) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Warn("schedule request failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		apiErr := &APIError{Status: resp.StatusCode(), Body: resp.String()}
		c.logger.Warn("schedule request rejected",
			zap.String("op", op),
			zap.Int("status", apiErr.Status),
			zap.String("body", apiErr.Body),
		)
		return apiErr
	}
	return nil
}

func decode(resp *resty.Response, v any) error {
	body := resp.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
