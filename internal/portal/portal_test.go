package portal

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/auth"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/config"
	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/storage"
)

// fakeSession plays back canned listing pages and a canned photo so the
// pipeline can run without a browser.
type fakeSession struct {
	pages     map[int]string
	photoData []byte

	loggedIn        bool
	searchActivated bool
	requestedPages  []int
	openedDetails   []string
	photosShown     int
	photosClosed    int

	listErr error
}

func (s *fakeSession) Login(ctx context.Context, creds auth.Credentials) error {
	s.loggedIn = true
	return nil
}

func (s *fakeSession) ActivateSearch(ctx context.Context) error {
	s.searchActivated = true
	return nil
}

func (s *fakeSession) ListPage(ctx context.Context, page int) (string, error) {
	if s.listErr != nil {
		return "", s.listErr
	}
	s.requestedPages = append(s.requestedPages, page)
	return s.pages[page], nil
}

func (s *fakeSession) OpenDetail(ctx context.Context, href string) error {
	s.openedDetails = append(s.openedDetails, href)
	return nil
}

func (s *fakeSession) ShowPhoto(ctx context.Context) error {
	s.photosShown++
	return nil
}

func (s *fakeSession) PhotoURL(ctx context.Context) (string, error) {
	return "http://images.example/full.jpg", nil
}

func (s *fakeSession) ClosePhoto(ctx context.Context) error {
	s.photosClosed++
	return nil
}

func (s *fakeSession) FetchImage(ctx context.Context, src string) ([]byte, error) {
	return s.photoData, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Pin = "1234"
	cfg.User = "tester"
	cfg.Password = "secret"
	cfg.OutputDir = t.TempDir()
	return cfg
}

func newTestPortal(t *testing.T, cfg *config.Config, session Session) *Portal {
	t.Helper()
	store, err := storage.NewStore(cfg.OutputDir)
	require.NoError(t, err)
	p, err := New(cfg, session, store, zerolog.Nop())
	require.NoError(t, err)
	return p
}

const matchingPage = `<html><body><table><tbody>
	<tr>
		<td><a href="animal?id=7">Buddy123</a></td>
		<td>Hold-24-
Adopted</td>
	</tr>
</tbody></table></body></html>`

const emptyPage = `<html><body><table><tbody>
	<tr>
		<td><a href="animal?id=8">Rex</a></td>
		<td>Available</td>
	</tr>
</tbody></table></body></html>`

func TestRunTwoPagesOneMatch(t *testing.T) {
	cfg := testConfig(t)
	cfg.StartPage = 1
	cfg.EndPage = 3

	session := &fakeSession{
		pages:     map[int]string{1: matchingPage, 2: emptyPage},
		photoData: []byte{0xFF, 0xD8, 0xFF},
	}
	p := newTestPortal(t, cfg, session)

	require.NoError(t, p.Run(context.Background()))

	assert.True(t, session.loggedIn)
	assert.True(t, session.searchActivated)
	assert.Equal(t, []int{1, 2}, session.requestedPages)
	assert.Equal(t, []string{"animal?id=7"}, session.openedDetails)
	assert.Equal(t, 1, session.photosShown)
	assert.Equal(t, 1, session.photosClosed)

	// Exactly one file lands in the output directory.
	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Buddy123-Hold-24-.jpg", entries[0].Name())

	data, err := os.ReadFile(p.store.Path("Buddy123-Hold-24-"))
	require.NoError(t, err)
	assert.Equal(t, session.photoData, data)

	stats := p.Stats()
	assert.Equal(t, 2, stats.PagesProcessed)
	assert.Equal(t, 1, stats.RowsMatched)
	assert.Equal(t, 1, stats.DownloadsCompleted)
	assert.Equal(t, 0, stats.DownloadsFailed)
	assert.Empty(t, stats.Errors)
}

func TestRunHonorsStartPage(t *testing.T) {
	cfg := testConfig(t)
	cfg.StartPage = 5
	cfg.EndPage = 7

	session := &fakeSession{
		pages: map[int]string{5: emptyPage, 6: emptyPage},
	}
	p := newTestPortal(t, cfg, session)

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []int{5, 6}, session.requestedPages)
}

func TestRunDownloadsPageBeforeAdvancing(t *testing.T) {
	cfg := testConfig(t)
	cfg.StartPage = 1
	cfg.EndPage = 3

	session := &orderedSession{
		fakeSession: fakeSession{
			pages:     map[int]string{1: matchingPage, 2: matchingPage},
			photoData: []byte("img"),
		},
	}
	p := newTestPortal(t, cfg, session)

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{"list 1", "detail animal?id=7", "list 2", "detail animal?id=7"}, session.order)
}

// orderedSession records the interleaving of page loads and detail
// visits.
type orderedSession struct {
	fakeSession
	order []string
}

func (s *orderedSession) ListPage(ctx context.Context, page int) (string, error) {
	s.order = append(s.order, fmt.Sprintf("list %d", page))
	return s.fakeSession.ListPage(ctx, page)
}

func (s *orderedSession) OpenDetail(ctx context.Context, href string) error {
	s.order = append(s.order, "detail "+href)
	return s.fakeSession.OpenDetail(ctx, href)
}

func TestRunAbortsOnListError(t *testing.T) {
	cfg := testConfig(t)
	cfg.StartPage = 1
	cfg.EndPage = 3

	session := &fakeSession{
		listErr: fmt.Errorf("portal timed out"),
	}
	p := newTestPortal(t, cfg, session)

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 1")
	require.Len(t, p.Stats().Errors, 1)
	assert.Equal(t, 1, p.Stats().Errors[0].Page)
}

func TestRunAbortsOnFetchError(t *testing.T) {
	cfg := testConfig(t)
	cfg.StartPage = 1
	cfg.EndPage = 2

	session := &failingFetchSession{
		fakeSession: fakeSession{pages: map[int]string{1: matchingPage}},
	}
	p := newTestPortal(t, cfg, session)

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "animal?id=7")
	assert.Equal(t, 1, p.Stats().DownloadsFailed)

	entries, readErr := os.ReadDir(cfg.OutputDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

type failingFetchSession struct {
	fakeSession
}

func (s *failingFetchSession) FetchImage(ctx context.Context, src string) ([]byte, error) {
	return nil, fmt.Errorf("image server unreachable")
}

func TestNewRejectsBadHoldPattern(t *testing.T) {
	cfg := testConfig(t)
	cfg.Hold = "Hold("

	store, err := storage.NewStore(cfg.OutputDir)
	require.NoError(t, err)

	_, err = New(cfg, &fakeSession{}, store, zerolog.Nop())
	assert.Error(t, err)
}
