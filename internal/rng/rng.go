// Package rng derives provably fair random values from a
// (server seed, client seed, nonce) triple.
//
// Every value is a pure function of its inputs: the same triple always
// produces the same draw, so any party holding the disclosed seeds can
// replay a round and check the outcome. The server seed is the only
// source of unpredictability and must stay secret until the round
// settles.
package rng

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
)

const serverSeedBytes = 32

// SeedTriple binds one round to its randomness inputs.
type SeedTriple struct {
	ServerSeed string `json:"server_seed"`
	ClientSeed string `json:"client_seed"`
	Nonce      int64  `json:"nonce"`
}

// ErrInvalidRange is returned when a caller asks for a draw over an
// empty or negative range. Wrapped with the op of the failing call.
type ErrInvalidRange struct {
	Max int
}

func (e *ErrInvalidRange) Error() string {
	return "max must be positive, got " + strconv.Itoa(e.Max)
}

// NewServerSeed returns a fresh high-entropy server seed
// (32 random bytes, base64 encoded).
func NewServerSeed() (string, error) {
	const op = "rng.NewServerSeed"

	buf := make([]byte, serverSeedBytes)

	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// HashServerSeed returns the SHA-256 hex commitment of a server seed.
// The commitment is published before any round; the seed itself is
// revealed only on rotation.
func HashServerSeed(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))

	return hex.EncodeToString(sum[:])
}

// digest computes the keyed hash for one nonce:
// HMAC-SHA256(key=serverSeed, message="serverSeed:clientSeed:nonce").
// An empty client seed is valid and still deterministic.
func digest(serverSeed, clientSeed string, nonce int64) [sha256.Size]byte {
	h := hmac.New(sha256.New, []byte(serverSeed))
	h.Write([]byte(serverSeed + ":" + clientSeed + ":" + strconv.FormatInt(nonce, 10)))

	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))

	return sum
}

// UniformInt returns a deterministic integer in [0, maxExclusive).
//
// The first 8 hash bytes are read as an unsigned 64-bit intermediate
// before the modulo reduction, which keeps the bias below max/2^64 for
// every range the evaluators use.
func UniformInt(serverSeed, clientSeed string, nonce int64, maxExclusive int) (int, error) {
	const op = "rng.UniformInt"

	if maxExclusive <= 0 {
		return 0, fmt.Errorf("%s: %w", op, &ErrInvalidRange{Max: maxExclusive})
	}

	sum := digest(serverSeed, clientSeed, nonce)
	value := binary.BigEndian.Uint64(sum[:8])

	return int(value % uint64(maxExclusive)), nil
}

// UniformFloat returns a deterministic value in [0, 1).
//
// It reads hash bytes 8..15, so the float drawn at a nonce is
// independent of the integer drawn at the same nonce.
func UniformFloat(serverSeed, clientSeed string, nonce int64) float64 {
	sum := digest(serverSeed, clientSeed, nonce)
	value := binary.BigEndian.Uint64(sum[8:16])

	return float64(value) / float64(1<<63) / 2
}

// WeightedPick returns an index i with probability proportional to
// weights[i], by cumulative-weight inversion over UniformFloat.
func WeightedPick(serverSeed, clientSeed string, nonce int64, weights []float64) (int, error) {
	const op = "rng.WeightedPick"

	if len(weights) == 0 {
		return 0, fmt.Errorf("%s: %w", op, &ErrInvalidRange{Max: 0})
	}

	var total float64
	for _, w := range weights {
		if w < 0 {
			return 0, fmt.Errorf("%s: negative weight %f", op, w)
		}

		total += w
	}

	if total <= 0 {
		return 0, fmt.Errorf("%s: %w", op, &ErrInvalidRange{Max: 0})
	}

	stopAt := UniformFloat(serverSeed, clientSeed, nonce) * total

	var cumulative float64
	for i, w := range weights {
		cumulative += w

		if stopAt <= cumulative {
			return i, nil
		}
	}

	return len(weights) - 1, nil
}

// MultiUniformInts returns count draws in [0, maxExclusive) at nonces
// baseNonce..baseNonce+count-1. Range errors fail before any draw.
func MultiUniformInts(serverSeed, clientSeed string, baseNonce int64, count, maxExclusive int) ([]int, error) {
	const op = "rng.MultiUniformInts"

	if maxExclusive <= 0 {
		return nil, fmt.Errorf("%s: %w", op, &ErrInvalidRange{Max: maxExclusive})
	}

	values := make([]int, count)

	for i := 0; i < count; i++ {
		value, err := UniformInt(serverSeed, clientSeed, baseNonce+int64(i), maxExclusive)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		values[i] = value
	}

	return values, nil
}

// Shuffle returns a deterministic Fisher-Yates permutation of items.
// The swap index at step i is drawn at nonce baseNonce+i over [0, i],
// consuming exactly len(items)-1 draws. The input is not modified.
func Shuffle[T any](items []T, serverSeed, clientSeed string, baseNonce int64) ([]T, error) {
	const op = "rng.Shuffle"

	shuffled := make([]T, len(items))
	copy(shuffled, items)

	for i := len(shuffled) - 1; i > 0; i-- {
		j, err := UniformInt(serverSeed, clientSeed, baseNonce+int64(i), i+1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled, nil
}

// Verify recomputes the draw for the triple and reports whether it
// matches claimed. A mismatch is an expected outcome, not an error;
// an invalid range can never match anything.
func Verify(serverSeed, clientSeed string, nonce int64, claimed, maxExclusive int) bool {
	value, err := UniformInt(serverSeed, clientSeed, nonce, maxExclusive)
	if err != nil {
		return false
	}

	return value == claimed
}

// Provider is the injectable form of the package-level functions, used
// by the game evaluators so tests can wrap draws with instrumentation.
type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

func (*Provider) UniformInt(serverSeed, clientSeed string, nonce int64, maxExclusive int) (int, error) {
	return UniformInt(serverSeed, clientSeed, nonce, maxExclusive)
}

func (*Provider) UniformFloat(serverSeed, clientSeed string, nonce int64) float64 {
	return UniformFloat(serverSeed, clientSeed, nonce)
}

func (*Provider) WeightedPick(serverSeed, clientSeed string, nonce int64, weights []float64) (int, error) {
	return WeightedPick(serverSeed, clientSeed, nonce, weights)
}
