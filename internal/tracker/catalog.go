// ABOUTME: Catalog refresh: fetch remote lifts and reconcile them into the catalog.
// ABOUTME: Remote failures fall back to the local catalog plus missing defaults.
package tracker

import (
	"context"
	"slices"

	"github.com/harperreed/repquest/internal/catalog"
	"github.com/harperreed/repquest/internal/models"
)

// LiftFetcher loads the remote lift catalog.
type LiftFetcher interface {
	FetchLifts(ctx context.Context) ([]models.RemoteLift, error)
}

// RefreshCatalog reconciles the catalog against the remote lift list. It
// reports whether the remote answered with lifts; the error is only set when
// the result could not be saved.
func (t *Tracker) RefreshCatalog(ctx context.Context, fetcher LiftFetcher) (bool, error) {
	var (
		remote   []models.RemoteLift
		fetchErr error
	)
	if fetcher != nil {
		remote, fetchErr = fetcher.FetchLifts(ctx)
	}
	online := fetchErr == nil && len(remote) > 0
	switch {
	case fetchErr != nil:
		t.logger.Warn("lift fetch failed, using local catalog", "err", fetchErr)
	case len(remote) == 0:
		t.logger.Info("remote returned no lifts, using local catalog")
	}

	err := t.mutate("refresh catalog", func(d *models.UserData) bool {
		var next []models.Lift
		if online {
			next = catalog.Reconcile(remote, d.Lifts)
		} else {
			next = catalog.SelfHeal(d.Lifts)
		}
		before := len(d.LiftHistory)
		changed := !slices.EqualFunc(next, d.Lifts, liftsEqual)
		d.Lifts = next
		d.EnsureHistory()
		return changed || len(d.LiftHistory) != before
	})
	if online {
		t.logger.Info("catalog refreshed", "remote", len(remote))
	}
	return online, err
}

func liftsEqual(a, b models.Lift) bool {
	if a.ID != b.ID || a.Name != b.Name || a.DefaultWeight != b.DefaultWeight ||
		a.WeightIncrement != b.WeightIncrement || a.Icon != b.Icon {
		return false
	}
	if (a.DefaultReps == nil) != (b.DefaultReps == nil) {
		return false
	}
	return a.DefaultReps == nil || *a.DefaultReps == *b.DefaultReps
}
