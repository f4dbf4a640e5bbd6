package portal

import (
	"context"
	"time"

	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/auth"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/browser"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/download"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/listing"
)

// BrowserSession is the chromedp-backed Session. It owns the portal
// base URL and, after login, an image fetcher carrying the session
// cookies.
type BrowserSession struct {
	baseURL      string
	fetchTimeout time.Duration
	fetcher      *download.Fetcher
}

// NewBrowserSession returns a Session driving the real browser.
func NewBrowserSession(baseURL string, fetchTimeout time.Duration) *BrowserSession {
	return &BrowserSession{
		baseURL:      baseURL,
		fetchTimeout: fetchTimeout,
	}
}

// Login authenticates and captures the session cookies for image
// fetches.
func (s *BrowserSession) Login(ctx context.Context, creds auth.Credentials) error {
	if err := auth.Login(ctx, s.baseURL, creds); err != nil {
		return err
	}
	cookies, err := browser.Cookies(ctx)
	if err != nil {
		return err
	}
	s.fetcher = download.NewFetcher(s.fetchTimeout, cookies)
	return nil
}

// ActivateSearch triggers the portal's default search view.
func (s *BrowserSession) ActivateSearch(ctx context.Context) error {
	return listing.ActivateSearch(ctx)
}

// ListPage opens the listing page at the given index and returns its
// rendered HTML.
func (s *BrowserSession) ListPage(ctx context.Context, page int) (string, error) {
	if err := browser.Navigate(ctx, listing.URL(s.baseURL, page)); err != nil {
		return "", err
	}
	return browser.PageHTML(ctx)
}

// OpenDetail navigates to an animal's detail page.
func (s *BrowserSession) OpenDetail(ctx context.Context, href string) error {
	return download.OpenDetail(ctx, s.baseURL, href)
}

// ShowPhoto opens the full-size photo overlay.
func (s *BrowserSession) ShowPhoto(ctx context.Context) error {
	return download.ShowPicture(ctx)
}

// PhotoURL reads the full-size image source URL.
func (s *BrowserSession) PhotoURL(ctx context.Context) (string, error) {
	return download.PictureURL(ctx)
}

// ClosePhoto closes the photo overlay.
func (s *BrowserSession) ClosePhoto(ctx context.Context) error {
	return download.ClosePicture(ctx)
}

// FetchImage downloads the raw image bytes at src, forwarding the
// captured session cookies.
func (s *BrowserSession) FetchImage(ctx context.Context, src string) ([]byte, error) {
	if s.fetcher == nil {
		s.fetcher = download.NewFetcher(s.fetchTimeout, nil)
	}
	return s.fetcher.Get(ctx, src)
}
