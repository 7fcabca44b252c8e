// poolmeta.go — SQLite-backed pool metadata loader.
//
// The detector core never touches storage; this collaborator reads the
// pairs database the harvesting pipeline maintains and turns rows into
// feed seed records.  Schema:
//
//   CREATE TABLE pools (
//       id        INTEGER PRIMARY KEY,
//       address   TEXT NOT NULL,
//       venue_id  INTEGER NOT NULL,
//       chain_id  INTEGER NOT NULL,
//       token0    TEXT NOT NULL,
//       token1    TEXT NOT NULL,
//       decimals0 INTEGER NOT NULL DEFAULT 18,
//       decimals1 INTEGER NOT NULL DEFAULT 18
//   );

package poolmeta

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// Pool is one metadata row: addresses stay textual here, hashing into the
// feed's 64-bit namespace happens at generation time.
type Pool struct {
	ID        int64
	Address   string
	VenueID   uint32
	ChainID   uint32
	Token0    string
	Token1    string
	Decimals0 uint8
	Decimals1 uint8
}

// Open connects to the pairs database and verifies the connection.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Load reads every pool row in id order.
func Load(db *sql.DB) ([]Pool, error) {
	rows, err := db.Query(
		`SELECT id, address, venue_id, chain_id, token0, token1, decimals0, decimals1
		 FROM pools ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pool
	for rows.Next() {
		var p Pool
		if err := rows.Scan(&p.ID, &p.Address, &p.VenueID, &p.ChainID,
			&p.Token0, &p.Token1, &p.Decimals0, &p.Decimals1); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
