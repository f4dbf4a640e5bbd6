// Package listing handles the portal's animal list pages: URL
// construction, search activation, and table-cell extraction.
package listing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// Cell is one <td> scraped from a listing page, reduced to the parts
// the row filter needs: its flattened text and the href of the first
// anchor inside it (empty if the cell has no linked anchor).
type Cell struct {
	Text string
	Href string
}

// URL builds the listing page URL for the given page index.
// The portal keys pagination off the listStart query parameter.
func URL(baseURL string, page int) string {
	return fmt.Sprintf("%s/list?&listStart=%d", strings.TrimRight(baseURL, "/"), page)
}

// ExtractCells parses a rendered listing page and returns its table
// cells in document order.
func ExtractCells(pageHTML string) ([]Cell, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	var cells []Cell
	doc.Find("td").Each(func(_ int, td *goquery.Selection) {
		cell := Cell{Text: td.Text()}
		if a := td.Find("a").First(); a.Length() > 0 {
			cell.Href, _ = a.Attr("href")
		}
		cells = append(cells, cell)
	})
	return cells, nil
}

// Portal positions of the search controls on the landing page.
const (
	listAnchorXPath   = `//*[@id="mainbody"]/table[2]/tbody/tr[2]/td/a`
	simpleFilterXPath = `//*[@id="simpleFilter"]/div[1]/a`
)

// ActivateSearch triggers the portal's default search view by clicking
// the animal list anchor and then the simple filter link.
func ActivateSearch(ctx context.Context) error {
	if err := chromedp.Run(ctx,
		chromedp.Click(listAnchorXPath, chromedp.BySearch),
		chromedp.Sleep(1*time.Second),
		chromedp.Click(simpleFilterXPath, chromedp.BySearch),
		chromedp.Sleep(1*time.Second),
	); err != nil {
		return fmt.Errorf("could not activate search view: %w", err)
	}
	return nil
}
