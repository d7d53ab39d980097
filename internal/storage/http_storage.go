package storage

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	apperrors "go-darkness-grader/internal/errors"
)

// HTTPImageSource fetches images over HTTP with bounded retries.
type HTTPImageSource struct {
	client *http.Client
}

// NewHTTPImageSource creates an HTTP image source
func NewHTTPImageSource(timeout time.Duration) *HTTPImageSource {
	transport := &http.Transport{
		// Connection pooling sized for one-shot image downloads
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageSource{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// Fetch downloads and decodes the image at the given URL. Transient 5xx
// responses and transport errors are retried up to three attempts; 4xx
// responses stop immediately.
func (s *HTTPImageSource) Fetch(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, apperrors.NewUsageError("invalid image URL", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "go-darkness-grader/1.0")

	resp, err := s.fetchWithRetry(req)
	if err != nil {
		return nil, apperrors.NewIOError("failed to fetch image", err)
	}
	defer resp.Body.Close()

	img, err := decodeImage(resp.Body)
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to process image "+imageURL, err)
	}
	return img, nil
}

func (s *HTTPImageSource) fetchWithRetry(req *http.Request) (*http.Response, error) {
	const attempts = 3
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
		} else {
			switch {
			case resp.StatusCode == http.StatusOK:
				return resp, nil
			case resp.StatusCode >= 400 && resp.StatusCode < 500:
				// Client errors are not retryable
				resp.Body.Close()
				return nil, fmt.Errorf("client error: status code %d", resp.StatusCode)
			default:
				resp.Body.Close()
				lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
			}
		}

		if attempt < attempts-1 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
