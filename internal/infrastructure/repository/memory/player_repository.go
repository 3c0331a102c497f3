package memory

import (
	"context"
	"sync"

	"github.com/dugoutlabs/ballstats/internal/domain/player"
)

// PlayerRepository is an in-memory record store preserving insertion order.
// It backs tests and the no-database dev mode.
type PlayerRepository struct {
	mu      sync.RWMutex
	order   []int
	records map[int]player.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		records: make(map[int]player.Player),
	}
}

func (r *PlayerRepository) List(_ context.Context, limit int64) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.order))
	for _, id := range r.order {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		out = append(out, r.records[id])
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id int) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	return record, ok, nil
}

func (r *PlayerRepository) Insert(_ context.Context, record player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.ID]; !ok {
		r.order = append(r.order, record.ID)
	}
	r.records[record.ID] = record

	return nil
}

func (r *PlayerRepository) Replace(_ context.Context, id int, record player.Player) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return 0, nil
	}
	record.ID = id
	r.records[id] = record

	return 1, nil
}

func (r *PlayerRepository) Delete(_ context.Context, id int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return 0, nil
	}
	delete(r.records, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return 1, nil
}

func (r *PlayerRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.records)), nil
}

func (r *PlayerRepository) InsertMany(_ context.Context, records []player.Player) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range records {
		if _, ok := r.records[record.ID]; !ok {
			r.order = append(r.order, record.ID)
		}
		r.records[record.ID] = record
	}

	return len(records), nil
}
