package portal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
	"github.com/noah-isme/librus-sync/pkg/storage"
)

// DirFetcher serves pages saved from a browser: <domain>.html, with events optionally
// kept per month as events-YYYY-MM.html.
type DirFetcher struct {
	pages *storage.LocalStorage
}

// NewDirFetcher reads pages from dir.
func NewDirFetcher(dir string) (*DirFetcher, error) {
	pages, err := storage.NewLocalStorage(dir)
	if err != nil {
		return nil, err
	}
	return &DirFetcher{pages: pages}, nil
}

// Fetch returns the saved page for the domain.
func (f *DirFetcher) Fetch(_ context.Context, domain models.Domain, period models.Period) (string, error) {
	candidates := []string{string(domain) + ".html"}
	if domain == models.DomainEvents {
		candidates = append([]string{models.SnapshotName(domain, period) + ".html"}, candidates...)
	}
	for _, name := range candidates {
		data, err := f.pages.Read(name)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", appErrors.Wrap(err, appErrors.ErrUnreachable.Code, appErrors.ErrUnreachable.Status,
				fmt.Sprintf("read saved page %s", name))
		}
	}
	return "", appErrors.Clone(appErrors.ErrUnreachable, fmt.Sprintf("no saved page for %s", domain))
}
