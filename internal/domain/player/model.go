package player

import "fmt"

// Player is a single-season batting line for one player. The ID is the
// external-facing key; uniqueness is enforced by the service layer with a
// read-before-write check, not by the store.
type Player struct {
	ID          int
	Name        string
	AgeThatYear string
	Hits        int
	Year        int
	Bats        string
	Rank        string
}

// Description is the enrichment produced for a player record. Source tells
// callers whether the text came from the provider or from the deterministic
// fallback template.
type Description struct {
	Text   string
	Source DescriptionSource
}

type DescriptionSource string

const (
	DescriptionSourceGenerated DescriptionSource = "generated"
	DescriptionSourceFallback  DescriptionSource = "fallback"
)

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}

	return nil
}
