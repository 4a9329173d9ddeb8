package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"faceauth/pkg/embedding"
)

// Extraction failures are typed so callers can pass the reason through to
// the client without creating any account state.
var (
	ErrInvalidImage      = errors.New("invalid image")
	ErrNoFaceDetected    = errors.New("no face detected in image")
	ErrExtractionTimeout = errors.New("face extraction timed out")
)

// Extractor produces a face embedding from a raw image payload.
type Extractor interface {
	Extract(ctx context.Context, imageB64 string) (embedding.Vector, error)
}

// Client talks to the external recognizer service over HTTP.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

type extractRequest struct {
	FaceImage string `json:"face_image"`
}

type extractResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error"`
}

func (c *Client) Extract(ctx context.Context, imageB64 string) (embedding.Vector, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(extractRequest{FaceImage: imageB64})
	if err != nil {
		return nil, fmt.Errorf("failed to encode extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrExtractionTimeout
		}
		return nil, fmt.Errorf("recognizer request failed: %w", err)
	}
	defer resp.Body.Close()

	var result extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode recognizer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, mapExtractorError(result.Error)
	}

	if len(result.Embedding) == 0 {
		return nil, ErrNoFaceDetected
	}

	return embedding.Vector(result.Embedding), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

func mapExtractorError(code string) error {
	switch code {
	case "no_face_detected":
		return ErrNoFaceDetected
	case "invalid_image":
		return ErrInvalidImage
	default:
		return fmt.Errorf("recognizer rejected image: %s", code)
	}
}
