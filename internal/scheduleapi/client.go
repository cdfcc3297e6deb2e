// Package scheduleapi is the HTTP client for the remote Schedule &
// Appointment Service. All persistence goes through this service; the core
// keeps no local storage.
package scheduleapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"pawplanner/internal/model"
)

const wireDate = "2006-01-02"

// Client calls the schedule service REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter

	rdb      *redis.Client
	cacheTTL time.Duration

	// Cache keys written per employee, so writes can drop exactly the
	// GET responses they invalidate.
	mu        sync.Mutex
	cacheKeys map[int64]map[string]struct{}
}

// NewClient constructs a client with baseURL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 20),
		cacheKeys:  make(map[int64]map[string]struct{}),
	}
}

// SetRateLimit reconfigures the outbound request limiter.
func (c *Client) SetRateLimit(perSecond float64, burst int) {
	if perSecond <= 0 || burst <= 0 {
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// UseRedisCache configures optional Redis caching for range fetches.
func (c *Client) UseRedisCache(rdb *redis.Client, ttl time.Duration) {
	c.rdb = rdb
	c.cacheTTL = ttl
}

type rangeResponse struct {
	Schedules    []rawDaySchedule `json:"schedules"`
	Appointments []rawAppointment `json:"appointments"`
}

// The save endpoint takes and returns a one-element batch.
type saveRequest struct {
	Schedules []rawDaySchedule `json:"schedules"`
}

type saveResponse struct {
	Schedules []rawDaySchedule `json:"schedules"`
}

// FetchRange fetches schedules and appointments for one employee over a date
// range in a single request. Dates travel as YYYY-MM-DD strings.
func (c *Client) FetchRange(ctx context.Context, employeeID int64, start, end time.Time) (*model.ScheduleWindow, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/v1/employees/%d/schedule-range?start=%s&end=%s",
		c.baseURL, employeeID, start.Format(wireDate), end.Format(wireDate))
	cacheKey := fmt.Sprintf("schedrange:%d:%s:%s", employeeID, start.Format(wireDate), end.Format(wireDate))

	var resp rangeResponse
	if !c.readCache(ctx, cacheKey, &resp) {
		if err := c.doGet(ctx, endpoint, &resp); err != nil {
			return nil, err
		}
		c.writeCache(ctx, employeeID, cacheKey, resp)
	}

	window := &model.ScheduleWindow{
		EmployeeID: employeeID,
		Start:      start,
		End:        end,
	}
	for _, raw := range resp.Schedules {
		s, err := raw.toModel(employeeID)
		if err != nil {
			return nil, fmt.Errorf("decode schedule %d: %w", raw.ID, err)
		}
		window.Schedules = append(window.Schedules, s)
	}
	for _, raw := range resp.Appointments {
		a, err := raw.toModel()
		if err != nil {
			return nil, fmt.Errorf("decode appointment %d: %w", raw.ID, err)
		}
		window.Appointments = append(window.Appointments, a)
	}
	return window, nil
}

// SaveSchedule upserts one day's schedule: create when the record has no ID,
// update otherwise. Returns the saved record with its assigned ID.
func (c *Client) SaveSchedule(ctx context.Context, employeeID int64, s model.DaySchedule) (model.DaySchedule, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.DaySchedule{}, err
	}

	endpoint := fmt.Sprintf("%s/api/v1/employees/%d/schedules", c.baseURL, employeeID)
	body := saveRequest{Schedules: []rawDaySchedule{fromModel(s)}}

	var resp saveResponse
	if err := c.doPost(ctx, endpoint, body, &resp); err != nil {
		return model.DaySchedule{}, err
	}
	c.invalidateEmployee(ctx, employeeID)

	if len(resp.Schedules) == 0 {
		return model.DaySchedule{}, fmt.Errorf("schedule api: empty save response")
	}
	return resp.Schedules[0].toModel(employeeID)
}

// DeleteSchedule removes a persisted schedule record.
func (c *Client) DeleteSchedule(ctx context.Context, employeeID, scheduleID int64) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/api/v1/employees/%d/schedules/%d", c.baseURL, employeeID, scheduleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	c.addHeaders(req)
	if err := c.do(req, nil); err != nil {
		return err
	}
	c.invalidateEmployee(ctx, employeeID)
	return nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.rdb == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (c *Client) writeCache(ctx context.Context, employeeID int64, key string, val any) {
	if c.rdb == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cacheKeys[employeeID] == nil {
		c.cacheKeys[employeeID] = make(map[string]struct{})
	}
	c.cacheKeys[employeeID][key] = struct{}{}
}

// invalidateEmployee drops cached range responses for the employee after a
// write, so the forced refetch sees the new state.
func (c *Client) invalidateEmployee(ctx context.Context, employeeID int64) {
	if c.rdb == nil {
		return
	}

	c.mu.Lock()
	keys := make([]string, 0, len(c.cacheKeys[employeeID]))
	for key := range c.cacheKeys[employeeID] {
		keys = append(keys, key)
	}
	delete(c.cacheKeys, employeeID)
	c.mu.Unlock()

	if len(keys) > 0 {
		_ = c.rdb.Del(ctx, keys...).Err()
	}
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	c.addHeaders(req)
	return c.do(req, out)
}

func (c *Client) doPost(ctx context.Context, endpoint string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.addHeaders(req)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("schedule api: http %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	req.Header.Set("x-request-id", uuid.NewString())
}
