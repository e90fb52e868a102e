// Package repository persists balances, settled rounds and seed
// disclosures in MySQL. Amounts are stored as integer cents.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/lib/converter"
	"go-stakehouse/internal/storage/mysql"
)

// BalanceRepository is the MySQL implementation of the ledger's
// BalanceStore: every debit and credit also writes a transaction row.
type BalanceRepository struct {
	dbhandler mysql.DB
}

func NewBalanceRepository(dbhandler mysql.DB) *BalanceRepository {
	return &BalanceRepository{dbhandler: dbhandler}
}

func (repo *BalanceRepository) Balance(accountID string) (decimal.Decimal, error) {
	const op = "repository.BalanceRepository.Balance"

	const query = "SELECT balance FROM account_balances WHERE account_uuid = ?"

	row, err := repo.dbhandler.PrepareAndQueryRow(query, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	var cents int64

	err = row.Scan(&cents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}

		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	return converter.CentsToAmount(cents), nil
}

func (repo *BalanceRepository) Debit(
	accountID string,
	amount decimal.Decimal,
	balanceType config.BalanceType,
	game config.Game,
) error {
	const op = "repository.BalanceRepository.Debit"

	if !amount.IsPositive() {
		return fmt.Errorf("%s: amount must be positive: %w", op, engine.ErrInvalidArgument)
	}

	cents := converter.AmountToCents(amount)
	now := time.Now()

	tx, err := repo.dbhandler.StartTransaction()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// The balance guard in the WHERE clause makes the debit atomic:
	// zero affected rows means the funds were not there.
	const query = "UPDATE account_balances SET balance = balance - ?, updated_at = ? " +
		"WHERE account_uuid = ? AND balance >= ?"

	result, err := tx.Exec(query, cents, now, accountID, cents)
	if err != nil {
		_ = tx.Rollback()

		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()

		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		_ = tx.Rollback()

		return fmt.Errorf("%s: %w", op, engine.ErrInsufficientFunds)
	}

	if err = createTransaction(tx, accountID, -cents, balanceType, game); err != nil {
		_ = tx.Rollback()

		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repo *BalanceRepository) Credit(
	accountID string,
	amount decimal.Decimal,
	balanceType config.BalanceType,
	game config.Game,
) error {
	const op = "repository.BalanceRepository.Credit"

	if amount.IsNegative() {
		return fmt.Errorf("%s: amount must not be negative: %w", op, engine.ErrInvalidArgument)
	}

	cents := converter.AmountToCents(amount)
	now := time.Now()

	tx, err := repo.dbhandler.StartTransaction()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	const query = "INSERT INTO account_balances(account_uuid, balance, created_at, updated_at) " +
		"VALUES(?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE balance = balance + VALUES(balance), updated_at = VALUES(updated_at)"

	if _, err = tx.Exec(query, accountID, cents, now, now); err != nil {
		_ = tx.Rollback()

		return fmt.Errorf("%s: %w", op, err)
	}

	if err = createTransaction(tx, accountID, cents, balanceType, game); err != nil {
		_ = tx.Rollback()

		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// createTransaction writes the audit row inside the caller's
// transaction, so a balance change and its transaction row land or
// roll back together.
func createTransaction(
	tx *sql.Tx,
	accountID string,
	cents int64,
	balanceType config.BalanceType,
	game config.Game,
) error {
	const op = "repository.createTransaction"

	now := time.Now()

	const query = "INSERT INTO balance_transactions(account_uuid, value, type, game, created_at, updated_at) " +
		"VALUES(?, ?, ?, ?, ?, ?)"

	if _, err := tx.Exec(query, accountID, cents, balanceType, game, now, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
