// Package browser provides Chrome/Chromedp initialization and configuration.
package browser

import (
	"context"
	"errors"
	"strings"
)

// IsBrowserClosed checks if an error indicates the browser was forcefully closed.
// This includes context canceled, context deadline exceeded, and common chromedp errors.
func IsBrowserClosed(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	closedPatterns := []string{
		"context canceled",
		"context deadline exceeded",
		"websocket: close",
		"target closed",
		"browser: not connected",
		"session closed",
		"page closed",
		"connection refused",
		"broken pipe",
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range closedPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}

	return false
}
