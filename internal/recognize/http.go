package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPRecognizer calls a hosted text recognition endpoint. Every call gets a
// hard deadline so a slow OCR backend fails the request instead of hanging it.
type HTTPRecognizer struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	client   *http.Client
}

var _ Recognizer = &HTTPRecognizer{}

// NewHTTPRecognizer create a recognizer against the given endpoint
func NewHTTPRecognizer(endpoint, apiKey string, timeout time.Duration) *HTTPRecognizer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPRecognizer{
		endpoint: endpoint,
		apiKey:   apiKey,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

type recognizeRequest struct {
	ImageURL string `json:"image_url"`
}

type recognizeResponse struct {
	Text string `json:"text"`
}

// RecognizeImage implement Recognizer
func (r *HTTPRecognizer) RecognizeImage(ctx context.Context, imageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := json.Marshal(&recognizeRequest{ImageURL: imageURL})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recognition service returned status %d", res.StatusCode)
	}
	payload := new(recognizeResponse)
	if err := json.NewDecoder(res.Body).Decode(payload); err != nil {
		return "", fmt.Errorf("failed to decode recognition response: %w", err)
	}
	return payload.Text, nil
}
