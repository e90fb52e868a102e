package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-stakehouse/internal/storage/mysql"
)

// SeedDisclosure is one server seed's lifecycle: the hash is published
// when the seed is issued, the seed itself once it is rotated out.
type SeedDisclosure struct {
	ID             int64      `json:"id"`
	AccountID      string     `json:"account_id"`
	ServerSeedHash string     `json:"server_seed_hash"`
	ServerSeed     string     `json:"server_seed,omitempty"`
	RevealedAt     *time.Time `json:"revealed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type SeedRepository struct {
	dbhandler mysql.DB
}

func NewSeedRepository(dbhandler mysql.DB) *SeedRepository {
	return &SeedRepository{dbhandler: dbhandler}
}

// SaveCommitment records a freshly issued seed: hash public, seed held
// back until reveal.
func (repo *SeedRepository) SaveCommitment(accountID, serverSeed, serverSeedHash string) (int64, error) {
	const op = "repository.SeedRepository.SaveCommitment"

	now := time.Now()

	const query = "INSERT INTO seed_disclosures(account_uuid, server_seed, server_seed_hash, created_at) " +
		"VALUES(?, ?, ?, ?)"

	result, err := repo.dbhandler.PrepareAndExecute(query, accountID, serverSeed, serverSeedHash, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// Reveal marks a seed as disclosed.
func (repo *SeedRepository) Reveal(id int64) error {
	const op = "repository.SeedRepository.Reveal"

	now := time.Now()

	const query = "UPDATE seed_disclosures SET revealed_at = ? WHERE id = ? AND revealed_at IS NULL"

	_, err := repo.dbhandler.PrepareAndExecute(query, now, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DisclosureByHash looks a commitment up by its public hash. The
// server seed is blanked unless the seed has been revealed.
func (repo *SeedRepository) DisclosureByHash(serverSeedHash string) (*SeedDisclosure, error) {
	const op = "repository.SeedRepository.DisclosureByHash"

	const query = "SELECT id, account_uuid, server_seed, server_seed_hash, revealed_at, created_at " +
		"FROM seed_disclosures WHERE server_seed_hash = ?"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, serverSeedHash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var disclosure SeedDisclosure

	err = row.Scan(
		&disclosure.ID,
		&disclosure.AccountID,
		&disclosure.ServerSeed,
		&disclosure.ServerSeedHash,
		&disclosure.RevealedAt,
		&disclosure.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if disclosure.RevealedAt == nil {
		disclosure.ServerSeed = ""
	}

	return &disclosure, nil
}
