// utils/http.go
package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxDownloadBytes matches the Bot API limit for files a bot may download.
const MaxDownloadBytes = 20 << 20

var HTTPClient = &http.Client{
	Timeout: 120 * time.Second,
}

// Download fetches url into memory, refusing bodies larger than MaxDownloadBytes.
func Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read download body: %w", err)
	}
	if len(data) > MaxDownloadBytes {
		return nil, fmt.Errorf("download exceeds %d bytes", MaxDownloadBytes)
	}
	return data, nil
}
