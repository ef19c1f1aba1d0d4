package seedlogs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/trackload/pkg/logger"
)

// maxBody bounds how much of a response is read.
const maxBody = 8 << 20

// HTTPClient wraps http.Client with JSON helpers.
type HTTPClient struct {
	base   string
	client *http.Client
}

func newHTTPClient(base string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
}

// Do sends body (if any) as JSON and returns the status and raw response.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request body: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, r)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// JSON performs a request that must answer 200 and decodes the body into out.
func (c *HTTPClient) JSON(ctx context.Context, method, path string, body, out any) error {
	status, data, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, status, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeDuplicate
	outcomeFailed
)

// submitLog posts one entry and classifies the answer.
func (c *HTTPClient) submitLog(ctx context.Context, l LogRequest) (outcome, error) {
	status, data, err := c.Do(ctx, http.MethodPost, "/logs", l)
	if err != nil {
		return outcomeFailed, err
	}

	var ack AckResponse
	switch status {
	case http.StatusAccepted:
		return outcomeAccepted, nil
	case http.StatusOK:
		if err := json.Unmarshal(data, &ack); err == nil && ack.Duplicate {
			return outcomeDuplicate, nil
		}
		return outcomeAccepted, nil
	default:
		return outcomeFailed, fmt.Errorf("status %d: %s", status, bytes.TrimSpace(data))
	}
}
