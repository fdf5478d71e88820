package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/footyops/carnival-system/mysideline"
	"golang.org/x/sync/errgroup"
)

const importConcurrency = 4

// SyncService pulls the MySideline carnival feed and imports every record.
// Imports are idempotent, so a full re-sync is always safe.
type SyncService interface {
	SyncCarnivals(ctx context.Context) (int, error)
}

type syncService struct {
	feed      mysideline.FeedSource
	carnivals CarnivalService
	logger    *slog.Logger
}

func NewSyncService(feed mysideline.FeedSource, carnivals CarnivalService, logger *slog.Logger) SyncService {
	return &syncService{
		feed:      feed,
		carnivals: carnivals,
		logger:    logger,
	}
}

// SyncCarnivals fetches the feed and imports records concurrently. It returns
// the number of records processed. A failed record aborts the batch; the next
// scheduled run picks up where this one left off because imports that already
// landed are skipped.
func (s *syncService) SyncCarnivals(ctx context.Context) (int, error) {
	records, err := s.feed.FetchCarnivals(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch carnival feed: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)

	for _, record := range records {
		record := record
		g.Go(func() error {
			carnival, err := s.carnivals.ImportCarnival(gctx, record)
			if err != nil {
				return fmt.Errorf("failed to import carnival %q: %w", record.ExternalID, err)
			}
			s.logger.Debug("carnival feed record processed",
				slog.String("mysideline_id", record.ExternalID),
				slog.Int("carnival_id", carnival.ID))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	s.logger.Info("carnival feed sync complete", slog.Int("records", len(records)))
	return len(records), nil
}
