package mongodb

import "github.com/dugoutlabs/ballstats/internal/domain/player"

// playerDocument is the storage shape of a player record. The application
// key is the "id" field; the collection's native _id stays internal and is
// never exposed.
type playerDocument struct {
	ID          int    `bson:"id"`
	Name        string `bson:"Player"`
	AgeThatYear string `bson:"AgeThatYear"`
	Hits        int    `bson:"Hits"`
	Year        int    `bson:"Year"`
	Bats        string `bson:"Bats"`
	Rank        string `bson:"Rank"`
}

func documentFromPlayer(record player.Player) playerDocument {
	return playerDocument{
		ID:          record.ID,
		Name:        record.Name,
		AgeThatYear: record.AgeThatYear,
		Hits:        record.Hits,
		Year:        record.Year,
		Bats:        record.Bats,
		Rank:        record.Rank,
	}
}

func (d playerDocument) toPlayer() player.Player {
	return player.Player{
		ID:          d.ID,
		Name:        d.Name,
		AgeThatYear: d.AgeThatYear,
		Hits:        d.Hits,
		Year:        d.Year,
		Bats:        d.Bats,
		Rank:        d.Rank,
	}
}
