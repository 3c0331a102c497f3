package player

import "context"

// Repository describes the keyed document collection of player records as
// seen from use cases. Replace and Delete report affected counts so callers
// can detect writes that raced with the preceding existence check.
type Repository interface {
	List(ctx context.Context, limit int64) ([]Player, error)
	GetByID(ctx context.Context, id int) (Player, bool, error)
	Insert(ctx context.Context, record Player) error
	Replace(ctx context.Context, id int, record Player) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, records []Player) (int, error)
}
