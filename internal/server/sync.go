package server

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// BuildRefreshURL normalizes a configured backend base URL to its canonical
// /refresh endpoint: a bare host gets the path appended, an existing path is
// extended unless it already ends in /refresh, and query/fragment are dropped.
func BuildRefreshURL(baseURL string) (string, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return "", fmt.Errorf("backend refresh URL is empty")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("backend refresh URL is invalid")
	}

	switch {
	case parsed.Path == "" || parsed.Path == "/":
		parsed.Path = "/refresh"
	case !strings.HasSuffix(parsed.Path, "/refresh"):
		parsed.Path = strings.TrimRight(parsed.Path, "/") + "/refresh"
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String(), nil
}

// NotifyRefresh POSTs to the backend's refresh endpoint and returns the URL
// it hit. Non-2xx responses are errors carrying the response body.
func NotifyRefresh(baseURL string) (string, error) {
	refreshURL, err := BuildRefreshURL(baseURL)
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(refreshURL, "application/json", nil)
	if err != nil {
		return "", fmt.Errorf("backend refresh failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := strings.TrimSpace(string(body))
		if detail != "" {
			return "", fmt.Errorf("backend refresh failed (%d: %s)", resp.StatusCode, detail)
		}
		return "", fmt.Errorf("backend refresh failed (%d)", resp.StatusCode)
	}

	return refreshURL, nil
}
