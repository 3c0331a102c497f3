package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/dugoutlabs/ballstats/internal/domain/player"
	"github.com/dugoutlabs/ballstats/internal/platform/logging"
)

const seedWorkerCount = 4

// FeedClient fetches the external bulk feed of player records used for
// first-time seeding. Implementations classify transport failures as
// ErrUpstreamUnavailable and malformed payloads as ErrInvalidUpstreamData.
type FeedClient interface {
	FetchPlayers(ctx context.Context) ([]player.Player, error)
}

// SeedResult reports the outcome of SeedFromFeed. When the collection
// already held records, Seeded is false and ExistingCount carries the count.
type SeedResult struct {
	Seeded        bool
	Loaded        int
	ExistingCount int64
}

// PlayerService orchestrates record-store operations for the player CRUD
// surface. The create and update existence checks are read-before-write and
// are not atomic with the write that follows; concurrent requests for the
// same id can race, which callers of this API accept.
type PlayerService struct {
	repo      player.Repository
	feed      FeedClient
	listLimit int64
	logger    *logging.Logger
}

func NewPlayerService(repo player.Repository, feed FeedClient, listLimit int64, logger *logging.Logger) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}
	if listLimit < 1 {
		listLimit = 1000
	}

	return &PlayerService{
		repo:      repo,
		feed:      feed,
		listLimit: listLimit,
		logger:    logger,
	}
}

// List returns every stored record up to the configured cap, in store order.
func (s *PlayerService) List(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	records, err := s.repo.List(ctx, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return records, nil
}

func (s *PlayerService) Get(ctx context.Context, id int) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Get")
	defer span.End()

	if id <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id must be a positive integer", ErrInvalidInput)
	}

	record, exists, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player with ID %d not found", ErrNotFound, id)
	}

	return record, nil
}

func (s *PlayerService) Create(ctx context.Context, id int, record player.Player) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Create")
	defer span.End()

	record.ID = id
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	_, exists, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check existing player: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: player with ID %d already exists", ErrAlreadyExists, id)
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}

	s.logger.InfoContext(ctx, "player created", "player_id", id)

	return nil
}

// Update replaces the whole stored record. Fields absent from the incoming
// payload are not preserved from the old record.
func (s *PlayerService) Update(ctx context.Context, id int, record player.Player) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Update")
	defer span.End()

	record.ID = id
	if err := record.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	_, exists, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return player.Player{}, fmt.Errorf("check existing player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player with ID %d not found", ErrNotFound, id)
	}

	modified, err := s.repo.Replace(ctx, id, record)
	if err != nil {
		return player.Player{}, fmt.Errorf("replace player: %w", err)
	}
	if modified == 0 {
		// The existence check passed, yet the replace touched nothing:
		// either a concurrent delete won the race or the store misbehaved.
		return player.Player{}, fmt.Errorf("%w: replace for player ID %d modified no records", ErrStoreInconsistency, id)
	}

	return record, nil
}

func (s *PlayerService) Delete(ctx context.Context, id int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Delete")
	defer span.End()

	if id <= 0 {
		return fmt.Errorf("%w: player id must be a positive integer", ErrInvalidInput)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: player with ID %d not found", ErrNotFound, id)
	}

	s.logger.InfoContext(ctx, "player deleted", "player_id", id)

	return nil
}

// SeedFromFeed bulk-loads the collection from the external feed, once.
// A non-empty collection makes this a no-op that reports the current count.
func (s *PlayerService) SeedFromFeed(ctx context.Context) (SeedResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.SeedFromFeed")
	defer span.End()

	count, err := s.repo.Count(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("count players: %w", err)
	}
	if count > 0 {
		return SeedResult{Seeded: false, ExistingCount: count}, nil
	}

	entries, err := s.feed.FetchPlayers(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("fetch feed: %w", err)
	}
	if len(entries) == 0 {
		return SeedResult{}, fmt.Errorf("%w: feed returned no entries", ErrInvalidUpstreamData)
	}

	backfilled, err := s.backfillRanks(entries)
	if err != nil {
		return SeedResult{}, err
	}

	inserted, err := s.repo.InsertMany(ctx, entries)
	if err != nil {
		return SeedResult{}, fmt.Errorf("insert players: %w", err)
	}
	if inserted != len(entries) {
		return SeedResult{}, fmt.Errorf("%w: batch insert stored %d of %d records", ErrStoreInconsistency, inserted, len(entries))
	}

	s.logger.InfoContext(ctx, "players seeded from feed",
		"loaded", inserted,
		"ranks_backfilled", backfilled,
	)

	return SeedResult{Seeded: true, Loaded: inserted}, nil
}

// backfillRanks fills missing rank values with the entry's hit count as
// text. A placeholder heuristic, not a leaderboard position: ties are not
// broken.
func (s *PlayerService) backfillRanks(entries []player.Player) (int, error) {
	pool, err := ants.NewPool(seedWorkerCount)
	if err != nil {
		return 0, fmt.Errorf("create seed worker pool: %w", err)
	}
	defer pool.Release()

	var backfilled atomic.Int32
	var workers sync.WaitGroup
	for i := range entries {
		i := i
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if strings.TrimSpace(entries[i].Rank) != "" {
				return
			}
			entries[i].Rank = strconv.Itoa(entries[i].Hits)
			backfilled.Add(1)
		}); err != nil {
			workers.Done()
			return 0, fmt.Errorf("submit seed task to worker pool: %w", err)
		}
	}
	workers.Wait()

	return int(backfilled.Load()), nil
}
