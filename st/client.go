package st

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shimmeringbee/retry"
)

const DefaultBaseURL = "https://api.smartthings.com/v1"

const DefaultRequestTimeout = 3000 * time.Millisecond
const DefaultRequestRetries = 5

// Client is a minimal SmartThings cloud client covering the three calls the
// mapping core needs: describe, status and command. Transient transport
// failures are retried here; taxonomy errors pass through untouched.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient constructs a Client with the given personal access token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint, used for tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = h
	}
}

// deviceResponse carries the fields of the describe payload the core needs,
// including the OCF block Samsung appliances report product data in.
type deviceResponse struct {
	Device
	OCF *struct {
		ManufacturerName string `json:"manufacturerName,omitempty"`
		ModelNumber      string `json:"modelNumber,omitempty"`
	} `json:"ocf,omitempty"`
}

// DescribeDevice returns the device's identity and capability set, with
// disabled capabilities folded in from the reported status.
func (c *Client) DescribeDevice(ctx context.Context, deviceID string) (Device, error) {
	if deviceID == "" {
		return Device{}, ErrEmptyDeviceID
	}

	data, err := c.get(ctx, "/devices/"+deviceID)
	if err != nil {
		return Device{}, err
	}

	var resp deviceResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Device{}, fmt.Errorf("st: failed to parse device: %w", err)
	}

	d := resp.Device

	if resp.OCF != nil {
		if d.ManufacturerName == "" {
			d.ManufacturerName = resp.OCF.ManufacturerName
		}

		// Samsung OCF model numbers carry firmware suffixes after a pipe.
		if d.Model == "" {
			d.Model, _, _ = strings.Cut(resp.OCF.ModelNumber, "|")
		}
	}

	status, err := c.FetchStatus(ctx, deviceID)
	if err != nil {
		return Device{}, err
	}

	for i := range d.Components {
		d.Components[i].DisabledCapabilities = disabledCapabilities(status, d.Components[i].ID)
	}

	return d, nil
}

// disabledCapabilities extracts the custom.disabledCapabilities list a
// component reports about itself.
func disabledCapabilities(status DeviceStatus, componentID string) []string {
	comp, ok := status[componentID]
	if !ok {
		return nil
	}

	attr, ok := comp["custom.disabledCapabilities"]["disabledCapabilities"]
	if !ok {
		return nil
	}

	list, ok := attr.Value.([]any)
	if !ok {
		return nil
	}

	var disabled []string
	for _, v := range list {
		if s, ok := v.(string); ok {
			disabled = append(disabled, s)
		}
	}

	return disabled
}

// FetchStatus returns the raw status of all components of a device.
func (c *Client) FetchStatus(ctx context.Context, deviceID string) (DeviceStatus, error) {
	if deviceID == "" {
		return nil, ErrEmptyDeviceID
	}

	data, err := c.get(ctx, "/devices/"+deviceID+"/status")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Components DeviceStatus `json:"components"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("st: failed to parse device status: %w", err)
	}

	return resp.Components, nil
}

// IssueCommand executes a single command against a device. The returned
// result reports acceptance, not resulting state; callers reconcile against
// the next snapshot.
func (c *Client) IssueCommand(ctx context.Context, deviceID string, cmd Command) (CommandResult, error) {
	if deviceID == "" {
		return CommandResult{}, ErrEmptyDeviceID
	}

	body, err := json.Marshal(CommandRequest{Commands: []Command{cmd}})
	if err != nil {
		return CommandResult{}, fmt.Errorf("st: failed to encode command: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/devices/"+deviceID+"/commands", body)
	if err != nil {
		return CommandResult{}, err
	}

	var resp CommandResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return CommandResult{}, fmt.Errorf("st: failed to parse command response: %w", err)
	}

	if len(resp.Results) == 0 {
		return CommandResult{ID: uuid.NewString(), Status: CommandStatusAccepted}, nil
	}

	result := resp.Results[0]
	if result.Status == CommandStatusFailed {
		return result, fmt.Errorf("st: command %s: %w", result.ID, ErrCommandRejected)
	}

	return result, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) do(pctx context.Context, method string, path string, body []byte) ([]byte, error) {
	var data []byte
	var terminal error

	err := retry.Retry(pctx, DefaultRequestTimeout, DefaultRequestRetries, func(ctx context.Context) error {
		d, err := c.doOnce(ctx, method, path, body)
		if err != nil {
			if IsRemoteUnavailable(err) {
				return err
			}

			// Auth and rejection failures will not improve on retry.
			terminal = err
			return nil
		}

		data = d
		return nil
	})

	if terminal != nil {
		return nil, terminal
	}

	return data, err
}

func (c *Client) doOnce(ctx context.Context, method string, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("st: failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and transport failures are indistinguishable from an
		// unreachable remote for the layers above.
		return nil, fmt.Errorf("%w: %s", ErrRemoteUnavailable, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRemoteUnavailable, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    messageFromBody(data),
			RequestID:  resp.Header.Get("X-ST-Correlation"),
		}
	}

	return data, nil
}

func messageFromBody(data []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(data, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}

	s := string(data)
	if len(s) > 200 {
		s = s[:200] + "..."
	}

	return s
}
