// Package browser provides Chrome/Chromedp initialization and configuration.
package browser

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// Config holds browser configuration options.
type Config struct {
	ExecPath     string
	ProfilePath  string
	Headless     bool
	WindowWidth  int
	WindowHeight int
	Timeout      time.Duration
}

// DefaultConfig returns default browser configuration.
func DefaultConfig() Config {
	return Config{
		ExecPath:     "chromium",
		WindowWidth:  1600,
		WindowHeight: 1000,
		Timeout:      2 * time.Hour,
	}
}

// Context holds the browser contexts and cancel functions.
type Context struct {
	Ctx         context.Context
	AllocCancel context.CancelFunc
	CtxCancel   context.CancelFunc
}

// New creates a new browser context with the given configuration.
func New(cfg Config) (*Context, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(cfg.ExecPath),
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.ProfilePath != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.ProfilePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	ctx, ctxCancel := chromedp.NewContext(allocCtx)

	ctx, timeoutCancel := context.WithTimeout(ctx, cfg.Timeout)

	// Wrap both cancels
	combinedCancel := func() {
		timeoutCancel()
		ctxCancel()
	}

	return &Context{
		Ctx:         ctx,
		AllocCancel: allocCancel,
		CtxCancel:   combinedCancel,
	}, nil
}

// Close closes all browser contexts.
func (c *Context) Close() {
	if c.CtxCancel != nil {
		c.CtxCancel()
	}
	if c.AllocCancel != nil {
		c.AllocCancel()
	}
}

// Navigate navigates to the given URL and waits for the document body.
func Navigate(ctx context.Context, url string) error {
	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("could not navigate to %s: %w", url, err)
	}
	return nil
}

// PageHTML returns the rendered HTML of the current page.
func PageHTML(ctx context.Context) (string, error) {
	var html string
	if err := chromedp.Run(ctx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("could not read page source: %w", err)
	}
	return html, nil
}

// Cookies exports the browser session cookies so plain HTTP fetches can
// reuse the authenticated portal session.
func Cookies(ctx context.Context) ([]*http.Cookie, error) {
	var out []*http.Cookie
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			out = append(out, &http.Cookie{
				Name:   c.Name,
				Value:  c.Value,
				Domain: c.Domain,
				Path:   c.Path,
			})
		}
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("could not export session cookies: %w", err)
	}
	return out, nil
}

// GetCurrentURL returns the current page URL.
func GetCurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := chromedp.Run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}
