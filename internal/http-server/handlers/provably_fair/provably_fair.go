// Package provably_fair owns the seed lifecycle: per-account server
// seed commitments, client seed choice, nonce advancement, rotation
// with reveal, and outcome verification.
package provably_fair

import (
	"fmt"
	"sync"

	"go-stakehouse/internal/lib/logger/sl"
	"go-stakehouse/internal/lib/random"
	"go-stakehouse/internal/rng"
	"golang.org/x/exp/slog"
)

const defaultClientSeedLength = 16

// CommitmentStore persists seed commitments and reveals. The in-memory
// seed book works without one; pass nil to skip persistence.
type CommitmentStore interface {
	SaveCommitment(accountID, serverSeed, serverSeedHash string) (int64, error)
	Reveal(id int64) error
}

type accountSeeds struct {
	serverSeed     string
	serverSeedHash string
	clientSeed     string
	nonce          int64
	commitmentID   int64
}

// SeedBook hands each account a fresh seed triple per round: the
// server seed stays fixed (and secret) between rotations while the
// nonce advances, so a revealed seed lets the player replay every
// round played under it.
type SeedBook struct {
	log   *slog.Logger
	store CommitmentStore

	mu       sync.Mutex
	accounts map[string]*accountSeeds
}

func NewSeedBook(log *slog.Logger, store CommitmentStore) *SeedBook {
	return &SeedBook{
		log:      log,
		store:    store,
		accounts: make(map[string]*accountSeeds),
	}
}

// issue creates seed state for an account. Caller holds the lock.
func (b *SeedBook) issue(accountID string) (*accountSeeds, error) {
	const op = "provably_fair.SeedBook.issue"

	serverSeed, err := rng.NewServerSeed()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seeds := &accountSeeds{
		serverSeed:     serverSeed,
		serverSeedHash: rng.HashServerSeed(serverSeed),
		clientSeed:     random.NewRandomString(defaultClientSeedLength),
	}

	if b.store != nil {
		seeds.commitmentID, err = b.store.SaveCommitment(accountID, serverSeed, seeds.serverSeedHash)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	b.accounts[accountID] = seeds

	return seeds, nil
}

func (b *SeedBook) account(accountID string) (*accountSeeds, error) {
	seeds, ok := b.accounts[accountID]
	if !ok {
		return b.issue(accountID)
	}

	return seeds, nil
}

// NextTriple returns the triple for the account's next round and
// advances the nonce.
func (b *SeedBook) NextTriple(accountID string) (rng.SeedTriple, string, error) {
	const op = "provably_fair.SeedBook.NextTriple"

	b.mu.Lock()
	defer b.mu.Unlock()

	seeds, err := b.account(accountID)
	if err != nil {
		return rng.SeedTriple{}, "", fmt.Errorf("%s: %w", op, err)
	}

	triple := rng.SeedTriple{
		ServerSeed: seeds.serverSeed,
		ClientSeed: seeds.clientSeed,
		Nonce:      seeds.nonce,
	}

	seeds.nonce++

	return triple, seeds.serverSeedHash, nil
}

// Commitment returns the account's current seed hash, client seed and
// next nonce without consuming a nonce.
func (b *SeedBook) Commitment(accountID string) (serverSeedHash, clientSeed string, nonce int64, err error) {
	const op = "provably_fair.SeedBook.Commitment"

	b.mu.Lock()
	defer b.mu.Unlock()

	seeds, err := b.account(accountID)
	if err != nil {
		return "", "", 0, fmt.Errorf("%s: %w", op, err)
	}

	return seeds.serverSeedHash, seeds.clientSeed, seeds.nonce, nil
}

// SetClientSeed replaces the account's client seed for future rounds.
func (b *SeedBook) SetClientSeed(accountID, clientSeed string) error {
	const op = "provably_fair.SeedBook.SetClientSeed"

	b.mu.Lock()
	defer b.mu.Unlock()

	seeds, err := b.account(accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	seeds.clientSeed = clientSeed

	return nil
}

// Rotate reveals the account's current server seed, issues a fresh
// one, and returns the revealed seed with its hash so played rounds
// can now be verified.
func (b *SeedBook) Rotate(accountID string) (revealedSeed, revealedHash, nextHash string, err error) {
	const op = "provably_fair.SeedBook.Rotate"

	b.mu.Lock()
	defer b.mu.Unlock()

	seeds, err := b.account(accountID)
	if err != nil {
		return "", "", "", fmt.Errorf("%s: %w", op, err)
	}

	revealedSeed = seeds.serverSeed
	revealedHash = seeds.serverSeedHash

	if b.store != nil && seeds.commitmentID != 0 {
		if err = b.store.Reveal(seeds.commitmentID); err != nil {
			b.log.Error("failed to persist seed reveal", sl.Err(err))
		}
	}

	delete(b.accounts, accountID)

	fresh, err := b.issue(accountID)
	if err != nil {
		return "", "", "", fmt.Errorf("%s: %w", op, err)
	}

	return revealedSeed, revealedHash, fresh.serverSeedHash, nil
}
