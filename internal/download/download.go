// Package download drives the photo view on an animal's detail page and
// fetches the full-size image bytes.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/browser"
)

// Fixed positions of the photo elements on the detail page.
const (
	photoThumbXPath   = `//*[@id="mainbody"]/table[7]/tbody/tr[2]/td[1]/table/tbody/tr/td[2]/a/img`
	fullSizeImgXPath  = `//*[@id="fullSize"]/div[2]/img`
	closeOverlayXPath = `//*[@id="fullSize"]/a`
)

// OpenDetail navigates to an animal's detail page. The href comes from
// the listing page and is resolved against the portal base URL.
func OpenDetail(ctx context.Context, baseURL, href string) error {
	url := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(href, "/")
	return browser.Navigate(ctx, url)
}

// ShowPicture clicks the photo thumbnail to open the full-size overlay.
func ShowPicture(ctx context.Context) error {
	if err := chromedp.Run(ctx,
		chromedp.Click(photoThumbXPath, chromedp.BySearch),
		chromedp.WaitVisible(fullSizeImgXPath, chromedp.BySearch),
	); err != nil {
		return fmt.Errorf("could not open photo overlay: %w", err)
	}
	return nil
}

// PictureURL reads the source URL of the full-size image.
func PictureURL(ctx context.Context) (string, error) {
	var src string
	var ok bool
	if err := chromedp.Run(ctx,
		chromedp.AttributeValue(fullSizeImgXPath, "src", &src, &ok, chromedp.BySearch),
	); err != nil {
		return "", fmt.Errorf("could not read photo source: %w", err)
	}
	if !ok || src == "" {
		return "", fmt.Errorf("photo overlay has no image source")
	}
	return src, nil
}

// ClosePicture closes the full-size photo overlay.
func ClosePicture(ctx context.Context) error {
	if err := chromedp.Run(ctx,
		chromedp.Click(closeOverlayXPath, chromedp.BySearch),
	); err != nil {
		return fmt.Errorf("could not close photo overlay: %w", err)
	}
	return nil
}

// Fetcher downloads image bytes over plain HTTP, forwarding the portal
// session cookies so images behind the login still resolve.
type Fetcher struct {
	client  *http.Client
	cookies []*http.Cookie
}

// NewFetcher returns a Fetcher with the given request timeout.
func NewFetcher(timeout time.Duration, cookies []*http.Cookie) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		cookies: cookies,
	}
}

// Get fetches the image at src and returns its raw bytes.
func (f *Fetcher) Get(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL %q: %w", src, err)
	}
	for _, c := range f.cookies {
		if cookieMatchesHost(c, req.URL.Hostname()) {
			req.AddCookie(c)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d for %s", resp.StatusCode, src)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read image body: %w", err)
	}
	return data, nil
}

// cookieMatchesHost applies the usual domain-suffix rule so cookies are
// only sent to the portal's own hosts.
func cookieMatchesHost(c *http.Cookie, host string) bool {
	domain := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
	host = strings.ToLower(host)
	if domain == "" {
		return true
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
