package detector

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientOpts configures the inference runtime client.
type ClientOpts struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the inference runtime's HTTP API: a multipart image upload
// comes back as a list of detections.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates an inference runtime client.
func NewClient(opts ClientOpts) *Client {
	c := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	return &Client{httpClient: c}
}

type detectResponse struct {
	Detections []Detection `json:"detections"`
}

// Detect sends the image to the runtime and returns its detections in the
// order the runtime produced them.
func (c *Client) Detect(ctx context.Context, image []byte) ([]Detection, error) {
	result := &detectResponse{}

	_, err := handleError(c.httpClient.NewRequest().
		SetContext(ctx).
		SetFileReader("image", "image.jpg", bytes.NewReader(image)).
		SetResult(result).
		Post("/detect"))
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	return result.Detections, nil
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Ping checks that the runtime is reachable and has its weights loaded.
// Used at startup for the fail-fast gate and by the status endpoint.
func (c *Client) Ping(ctx context.Context) error {
	result := &healthResponse{}

	_, err := handleError(c.httpClient.NewRequest().
		SetContext(ctx).
		SetResult(result).
		Get("/health"))
	if err != nil {
		return fmt.Errorf("detector health: %w", err)
	}
	if !result.ModelLoaded {
		return fmt.Errorf("detector runtime has no model loaded (status: %s)", result.Status)
	}

	return nil
}

// handleError is a generic error handler for failing responses (>399 status
// code). Without this, failing responses would have nil error.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}

	return res, nil
}
