package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go-stakehouse/internal/ledger"
	"go-stakehouse/internal/lib/converter"
	"go-stakehouse/internal/storage/mysql"
)

// RoundRepository is the MySQL implementation of the ledger's
// RoundStore. Drawn entities are stored as a JSON array; seeds are
// plain columns so disclosed rounds can be verified with SQL alone.
type RoundRepository struct {
	dbhandler mysql.DB
}

func NewRoundRepository(dbhandler mysql.DB) *RoundRepository {
	return &RoundRepository{dbhandler: dbhandler}
}

func (repo *RoundRepository) SaveRound(round *ledger.SettledRound) error {
	const op = "repository.RoundRepository.SaveRound"

	drawn, err := json.Marshal(round.Drawn)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	const query = "INSERT INTO settled_rounds(uuid," +
		" account_uuid," +
		" session_uuid," +
		" game," +
		" amount," +
		" payout," +
		" is_win," +
		" outcome," +
		" drawn," +
		" server_seed," +
		" client_seed," +
		" nonce," +
		" settled_at) " +
		"VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	_, err = repo.dbhandler.PrepareAndExecute(query,
		round.ID,
		round.AccountID,
		round.SessionID,
		round.Game,
		converter.AmountToCents(round.Amount),
		converter.AmountToCents(round.Payout),
		round.IsWin,
		round.Outcome,
		string(drawn),
		round.Seeds.ServerSeed,
		round.Seeds.ClientSeed,
		round.Seeds.Nonce,
		round.SettledAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

const roundColumns = "uuid, account_uuid, session_uuid, game, amount, payout, is_win, outcome, " +
	"drawn, server_seed, client_seed, nonce, settled_at"

func (repo *RoundRepository) RoundByID(id string) (*ledger.SettledRound, error) {
	const op = "repository.RoundRepository.RoundByID"

	const query = "SELECT " + roundColumns + " FROM settled_rounds WHERE uuid = ?"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	round, err := scanRound(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return round, nil
}

func (repo *RoundRepository) RoundsByAccount(accountID string, limit int) ([]*ledger.SettledRound, error) {
	const op = "repository.RoundRepository.RoundsByAccount"

	if limit <= 0 {
		limit = 50
	}

	const query = "SELECT " + roundColumns + " FROM settled_rounds " +
		"WHERE account_uuid = ? ORDER BY settled_at DESC LIMIT ?"

	rows, err := repo.dbhandler.PrepareAndQuery(query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var rounds []*ledger.SettledRound

	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		rounds = append(rounds, round)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rounds, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRound(row rowScanner) (*ledger.SettledRound, error) {
	var (
		round       ledger.SettledRound
		amountCents int64
		payoutCents int64
		drawn       string
	)

	err := row.Scan(
		&round.ID,
		&round.AccountID,
		&round.SessionID,
		&round.Game,
		&amountCents,
		&payoutCents,
		&round.IsWin,
		&round.Outcome,
		&drawn,
		&round.Seeds.ServerSeed,
		&round.Seeds.ClientSeed,
		&round.Seeds.Nonce,
		&round.SettledAt,
	)
	if err != nil {
		return nil, err
	}

	round.Amount = converter.CentsToAmount(amountCents)
	round.Payout = converter.CentsToAmount(payoutCents)
	round.Profit = round.Payout.Sub(round.Amount)

	if err = json.Unmarshal([]byte(drawn), &round.Drawn); err != nil {
		return nil, err
	}

	return &round, nil
}
