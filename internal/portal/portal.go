// Package portal coordinates the full scraper pipeline: login, search
// activation, the listing page loop, row filtering, and photo downloads.
package portal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/auth"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/browser"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/config"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/filter"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/listing"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/report"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/storage"
)

// Session is the automated browser session the pipeline drives. The
// production implementation wraps chromedp; tests supply a fake.
type Session interface {
	// Login authenticates against the portal.
	Login(ctx context.Context, creds auth.Credentials) error
	// ActivateSearch triggers the portal's default search view.
	ActivateSearch(ctx context.Context) error
	// ListPage opens the listing page at the given index and returns
	// its rendered HTML.
	ListPage(ctx context.Context, page int) (string, error)
	// OpenDetail navigates to an animal's detail page.
	OpenDetail(ctx context.Context, href string) error
	// ShowPhoto opens the full-size photo overlay.
	ShowPhoto(ctx context.Context) error
	// PhotoURL reads the full-size image source URL.
	PhotoURL(ctx context.Context) (string, error)
	// ClosePhoto closes the photo overlay.
	ClosePhoto(ctx context.Context) error
	// FetchImage downloads the raw image bytes at src.
	FetchImage(ctx context.Context, src string) ([]byte, error)
}

// Portal runs the scrape pipeline against a Session.
type Portal struct {
	cfg     *config.Config
	session Session
	store   *storage.Store
	filter  *filter.Filter
	stats   *report.Stats
	log     zerolog.Logger
}

// New builds a Portal. The hold and year patterns from the config are
// compiled once up front.
func New(cfg *config.Config, session Session, store *storage.Store, log zerolog.Logger) (*Portal, error) {
	f, err := filter.New(cfg.Hold, cfg.YearPattern)
	if err != nil {
		return nil, err
	}
	return &Portal{
		cfg:     cfg,
		session: session,
		store:   store,
		filter:  f,
		stats:   report.New(),
		log:     log,
	}, nil
}

// Stats returns the statistics collected so far.
func (p *Portal) Stats() *report.Stats {
	return p.stats
}

// Run executes the whole pipeline: login, search activation, then the
// page loop from StartPage up to (but not including) EndPage. Each
// page's matches are downloaded before the next page is fetched. The
// first navigation, fetch, or save error aborts the run.
func (p *Portal) Run(ctx context.Context) error {
	defer p.stats.Finish()

	p.log.Info().Str("user", p.cfg.User).Msg("logging into portal")
	if err := p.session.Login(ctx, auth.Credentials{
		Pin:      p.cfg.Pin,
		User:     p.cfg.User,
		Password: p.cfg.Password,
	}); err != nil {
		return p.abort(0, "", err)
	}

	if err := p.session.ActivateSearch(ctx); err != nil {
		return p.abort(0, "", err)
	}

	for page := p.cfg.StartPage; page < p.cfg.EndPage; page++ {
		if err := p.processPage(ctx, page); err != nil {
			return err
		}
	}

	p.log.Info().Str("summary", p.stats.Summary()).Msg("run complete")
	return nil
}

// processPage fetches one listing page, filters its rows, and downloads
// every matching photo.
func (p *Portal) processPage(ctx context.Context, page int) error {
	p.log.Info().Int("page", page).Msg("processing listing page")

	pageHTML, err := p.session.ListPage(ctx, page)
	if err != nil {
		return p.abort(page, "", err)
	}

	cells, err := listing.ExtractCells(pageHTML)
	if err != nil {
		return p.abort(page, "", err)
	}

	candidates := p.filter.Collect(cells)
	p.stats.PagesProcessed++
	p.stats.RowsMatched += len(candidates)
	p.log.Debug().
		Int("page", page).
		Int("cells", len(cells)).
		Int("matches", len(candidates)).
		Msg("page scanned")

	for _, cand := range candidates {
		if err := p.downloadPhoto(ctx, page, cand); err != nil {
			p.stats.DownloadsFailed++
			return p.abort(page, cand.Href, err)
		}
	}
	return nil
}

// downloadPhoto runs the per-animal steps in order: open the detail
// page, open the photo overlay, read the image source, fetch the bytes,
// save them, then close the overlay.
func (p *Portal) downloadPhoto(ctx context.Context, page int, cand filter.Candidate) error {
	p.log.Info().
		Int("page", page).
		Str("href", cand.Href).
		Str("file", cand.Filename).
		Msg("downloading photo")

	if err := p.session.OpenDetail(ctx, cand.Href); err != nil {
		return err
	}
	if err := p.session.ShowPhoto(ctx); err != nil {
		return err
	}
	src, err := p.session.PhotoURL(ctx)
	if err != nil {
		return err
	}
	data, err := p.session.FetchImage(ctx, src)
	if err != nil {
		return err
	}
	if err := p.store.Save(cand.Filename, data); err != nil {
		return err
	}
	p.stats.AddDownload(int64(len(data)))

	return p.session.ClosePhoto(ctx)
}

// abort records the error and wraps it with whatever position context
// is available. A closed browser window gets its own message since it
// is the most common way a run dies.
func (p *Portal) abort(page int, href string, err error) error {
	p.stats.AddError(page, href, err.Error())

	if browser.IsBrowserClosed(err) {
		return fmt.Errorf("browser session closed: %w", err)
	}
	if href != "" {
		return fmt.Errorf("page %d, %s: %w", page, href, err)
	}
	if page > 0 {
		return fmt.Errorf("page %d: %w", page, err)
	}
	return err
}
