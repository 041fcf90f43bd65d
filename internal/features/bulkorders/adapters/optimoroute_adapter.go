package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"qc-dashboard/internal/core/config"
	"qc-dashboard/internal/core/httpclient"
	"qc-dashboard/internal/core/logger"
	"qc-dashboard/internal/core/proxy"
	"qc-dashboard/internal/features/bulkorders/domain"

	"go.uber.org/zap"
)

// ErrUpstreamStatus is returned when OptimoRoute answers with a non-2xx status.
var ErrUpstreamStatus = errors.New("optimoroute returned unexpected status")

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 32 << 20

// OptimoRouteAdapter implements ports.OrderSearcher using the OptimoRoute REST API.
type OptimoRouteAdapter struct {
	// client is the HTTP client used for API requests; it carries the bearer key.
	client *http.Client
	// baseURL is the API root, e.g. https://api.optimoroute.com/v1.
	baseURL string
}

// NewOptimoRouteAdapter creates a new instance of OptimoRouteAdapter.
func NewOptimoRouteAdapter(cfg config.OptimoRouteConfig, p proxy.Settings) *OptimoRouteAdapter {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OptimoRouteAdapter{
		client:  httpclient.NewClient(timeout, httpclient.WithBearerToken(cfg.APIKey), httpclient.WithProxy(p)),
		baseURL: strings.TrimRight(cfg.URL, "/"),
	}
}

// SearchOrders fetches one page of orders for the date range, continuing after q.AfterTag.
func (a *OptimoRouteAdapter) SearchOrders(ctx context.Context, q domain.SearchQuery) (*domain.Page, error) {
	body := searchRequest{
		DateRange:                  dateRange{From: q.Range.From, To: q.Range.To},
		IncludeOrderData:           true,
		IncludeScheduleInformation: true,
		AfterTag:                   q.AfterTag,
	}

	raw, err := a.post(ctx, "search_orders", body)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode search response: %w", domain.ErrUpstream, err)
	}

	if !resp.Success {
		logger.Get().Warn("OptimoRoute search rejected",
			zap.String("code", resp.Code),
			zap.String("message", resp.Message),
		)
		page := domain.SoftFailure(resp.Code, resp.Message)
		page.Raw = raw
		return page, nil
	}

	orders := make([]domain.Order, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		orders = append(orders, mapToDomain(o))
	}

	page := &domain.Page{
		Success:    true,
		Orders:     orders,
		IsComplete: resp.IsComplete,
		Raw:        raw,
	}
	if resp.AfterTag != nil {
		page.AfterTag = *resp.AfterTag
	}
	return page, nil
}

// GetCompletionDetails fetches completion details for up to one batch of order numbers.
func (a *OptimoRouteAdapter) GetCompletionDetails(ctx context.Context, orderNos []string) (*domain.CompletionBatch, error) {
	req := completionRequest{Orders: make([]orderRef, 0, len(orderNos))}
	for _, no := range orderNos {
		req.Orders = append(req.Orders, orderRef{OrderNo: no})
	}

	raw, err := a.post(ctx, "get_completion_details", req)
	if err != nil {
		return nil, err
	}

	var resp completionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode completion response: %w", domain.ErrUpstream, err)
	}

	batch := &domain.CompletionBatch{
		Success: resp.Success,
		Code:    resp.Code,
		Message: resp.Message,
		Details: make(map[string]domain.CompletionDetails, len(resp.Orders)),
	}
	for _, c := range resp.Orders {
		if c.OrderNo == "" {
			continue
		}
		batch.Details[c.OrderNo] = *mapCompletion(&c)
	}
	return batch, nil
}

// HealthCheck verifies that the API is reachable and the key is accepted.
func (a *OptimoRouteAdapter) HealthCheck(ctx context.Context) error {
	today := time.Now().Format(domain.DateLayout)
	page, err := a.SearchOrders(ctx, domain.SearchQuery{Range: domain.DateRange{From: today, To: today}})
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	if !page.Success {
		return fmt.Errorf("health check rejected: %s %s", page.Code, page.Message)
	}
	return nil
}

func (a *OptimoRouteAdapter) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	url := fmt.Sprintf("%s/%s", a.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute %s request: %w", domain.ErrUpstream, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s response: %w", domain.ErrUpstream, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w: %s %d", domain.ErrUpstream, ErrUpstreamStatus, endpoint, resp.StatusCode)
	}

	return raw, nil
}

// mapToDomain converts a raw OptimoRoute order into the canonical Order. Each field is taken
// from the first upstream location that carries it.
func mapToDomain(o optimoOrder) domain.Order {
	var data optimoOrderData
	if o.Data != nil {
		data = *o.Data
	}

	order := domain.Order{
		OrderNo:  firstNonEmpty(data.OrderNo, o.OrderNo, o.OrderNoSnake),
		ID:       o.ID,
		Date:     firstNonEmpty(data.Date, o.Date),
		Type:     data.Type,
		Duration: int(data.Duration),
		Notes:    data.Notes,
		Location: mapLocation(data.Location, o.Location),
		Schedule: mapSchedule(o.ScheduleInformation, o.Driver),
	}

	switch {
	case o.CompletionDetails != nil:
		order.Completion = mapCompletion(o.CompletionDetails)
	case o.CompletionResponse != nil:
		order.Completion = mapCompletion(o.CompletionResponse)
	}

	return order
}

func mapLocation(candidates ...*optimoLocation) *domain.Location {
	for _, l := range candidates {
		if l == nil {
			continue
		}
		return &domain.Location{
			Address:   l.Address,
			Name:      firstNonEmpty(l.LocationName, l.Name),
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
		}
	}
	return nil
}

func mapSchedule(s *optimoSchedule, d *optimoDriver) *domain.Schedule {
	if s == nil && d == nil {
		return nil
	}
	out := &domain.Schedule{}
	if s != nil {
		out.DriverSerial = s.DriverSerial
		out.DriverName = s.DriverName
		out.VehicleLabel = s.VehicleLabel
		out.StopNumber = s.StopNumber
		out.ScheduledAt = firstNonEmpty(s.ScheduledAt, s.ScheduledAtDt)
	}
	if d != nil {
		out.DriverSerial = firstNonEmpty(out.DriverSerial, d.Serial)
		out.DriverName = firstNonEmpty(out.DriverName, d.Name)
	}
	return out
}

func mapCompletion(c *optimoCompletion) *domain.CompletionDetails {
	out := &domain.CompletionDetails{
		Success: c.Success != nil && *c.Success,
		Code:    c.Code,
		Message: c.Message,
	}
	if c.Data != nil {
		out.Data = &domain.CompletionData{
			Status:      c.Data.Status,
			StartTime:   c.Data.StartTime.Time(),
			EndTime:     c.Data.EndTime.Time(),
			TrackingURL: c.Data.TrackingURL,
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// internal structs for mapping

// searchRequest is the body of POST /search_orders.
type searchRequest struct {
	DateRange                  dateRange `json:"dateRange"`
	IncludeOrderData           bool      `json:"includeOrderData"`
	IncludeScheduleInformation bool      `json:"includeScheduleInformation"`
	AfterTag                   string    `json:"after_tag,omitempty"`
}

type dateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// searchResponse is the body returned by POST /search_orders.
type searchResponse struct {
	Success    bool          `json:"success"`
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	Orders     []optimoOrder `json:"orders"`
	AfterTag   *string       `json:"after_tag"`
	IsComplete bool          `json:"isComplete"`
}

type completionRequest struct {
	Orders []orderRef `json:"orders"`
}

type orderRef struct {
	OrderNo string `json:"orderNo"`
}

// completionResponse is the body returned by POST /get_completion_details.
type completionResponse struct {
	Success bool               `json:"success"`
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Orders  []optimoCompletion `json:"orders"`
}

// optimoOrder is one order as returned by the search endpoint or relayed by older clients.
type optimoOrder struct {
	ID                  string            `json:"id"`
	OrderNo             string            `json:"orderNo"`
	OrderNoSnake        string            `json:"order_no"`
	Date                string            `json:"date"`
	Data                *optimoOrderData  `json:"data"`
	Location            *optimoLocation   `json:"location"`
	ScheduleInformation *optimoSchedule   `json:"scheduleInformation"`
	Driver              *optimoDriver     `json:"driver"`
	CompletionDetails   *optimoCompletion `json:"completionDetails"`
	CompletionResponse  *optimoCompletion `json:"completion_response"`
}

type optimoOrderData struct {
	OrderNo  string          `json:"orderNo"`
	Date     string          `json:"date"`
	Type     string          `json:"type"`
	Duration float64         `json:"duration"`
	Notes    string          `json:"notes"`
	Location *optimoLocation `json:"location"`
}

type optimoLocation struct {
	Address      string   `json:"address"`
	LocationName string   `json:"locationName"`
	Name         string   `json:"name"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

type optimoSchedule struct {
	DriverSerial  string `json:"driverSerial"`
	DriverName    string `json:"driverName"`
	VehicleLabel  string `json:"vehicleLabel"`
	StopNumber    int    `json:"stopNumber"`
	ScheduledAt   string `json:"scheduledAt"`
	ScheduledAtDt string `json:"scheduledAtDt"`
}

type optimoDriver struct {
	Serial string `json:"serial"`
	Name   string `json:"name"`
}

type optimoCompletion struct {
	Success *bool                 `json:"success"`
	OrderNo string                `json:"orderNo"`
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Data    *optimoCompletionData `json:"data"`
}

type optimoCompletionData struct {
	Status      string      `json:"status"`
	StartTime   *optimoTime `json:"startTime"`
	EndTime     *optimoTime `json:"endTime"`
	TrackingURL string      `json:"tracking_url"`
}

// optimoTime accepts the upstream time object ({"utcTime": ..., "unixTimestamp": ...}),
// a plain RFC3339 string or a unix timestamp number.
type optimoTime struct {
	t *time.Time
}

// Time returns the parsed time or nil when absent or unparseable.
func (o *optimoTime) Time() *time.Time {
	if o == nil {
		return nil
	}
	return o.t
}

// UnmarshalJSON parses the supported time encodings.
func (o *optimoTime) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" || s == `""` {
		return nil
	}

	switch s[0] {
	case '{':
		var obj struct {
			UTCTime       string   `json:"utcTime"`
			LocalTime     string   `json:"localTime"`
			UnixTimestamp *float64 `json:"unixTimestamp"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return nil
		}
		if obj.UnixTimestamp != nil {
			t := time.Unix(int64(*obj.UnixTimestamp), 0).UTC()
			o.t = &t
			return nil
		}
		o.t = parseTimeString(firstNonEmpty(obj.UTCTime, obj.LocalTime))
	case '"':
		o.t = parseTimeString(strings.Trim(s, `"`))
	default:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			t := time.Unix(int64(n), 0).UTC()
			o.t = &t
		}
	}
	return nil
}

func parseTimeString(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	logger.Get().Warn("Failed to parse completion time", zap.String("value", s))
	return nil
}
