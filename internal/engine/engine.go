// Package engine dispatches bets to the game round evaluators and
// defines the contract they share: pure, deterministic settlement of a
// bet against a seed triple.
package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/rng"
)

var (
	// ErrInvalidArgument marks malformed bet parameters or RNG ranges,
	// always raised before any draw is consumed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientFunds aborts settlement at the debit step.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrEvaluatorFailure marks an internal invariant violation inside
	// an evaluator. Non-retryable; the ledger refunds the debit.
	ErrEvaluatorFailure = errors.New("evaluator failure")

	// ErrUnknownGame is returned for a game id with no evaluator.
	ErrUnknownGame = errors.New("unknown game")
)

// Randomizer is the draw source injected into every evaluator. The
// production implementation is rng.Provider; tests wrap it to count or
// fix draws.
type Randomizer interface {
	UniformInt(serverSeed, clientSeed string, nonce int64, maxExclusive int) (int, error)
	UniformFloat(serverSeed, clientSeed string, nonce int64) float64
	WeightedPick(serverSeed, clientSeed string, nonce int64, weights []float64) (int, error)
}

// Bet is the stake plus evaluator-specific parameters.
type Bet struct {
	Amount decimal.Decimal
	Params any
}

// RoundResult is the reproducible settlement of one round. Re-running
// the evaluator with the same bet and seed triple yields an identical
// result.
type RoundResult struct {
	Game      config.Game            `json:"game"`
	Drawn     []string               `json:"drawn"`
	Outcome   string                 `json:"outcome"`
	Payout    decimal.Decimal        `json:"payout"`
	Profit    decimal.Decimal        `json:"profit"`
	IsWin     bool                   `json:"is_win"`
	Seeds     rng.SeedTriple         `json:"seeds"`
	DrawCount int                    `json:"draw_count"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Evaluator turns a bet plus a seed triple into a settled round.
// Implementations own no shared mutable state: every Play call works on
// local copies only, which keeps replay safe under concurrency.
type Evaluator interface {
	Play(seeds rng.SeedTriple, bet Bet) (*RoundResult, error)
}

// Engine routes game ids to their evaluators.
type Engine struct {
	evaluators map[config.Game]Evaluator
}

func New() *Engine {
	return &Engine{evaluators: make(map[config.Game]Evaluator)}
}

// Register binds an evaluator to a game id, replacing any previous one.
func (e *Engine) Register(game config.Game, evaluator Evaluator) {
	e.evaluators[game] = evaluator
}

// PlayRound validates the stake, then hands the bet to the game's
// evaluator. The stake check runs first so no entropy is spent on a
// round that can never settle.
func (e *Engine) PlayRound(game config.Game, seeds rng.SeedTriple, bet Bet) (*RoundResult, error) {
	const op = "engine.Engine.PlayRound"

	if !bet.Amount.IsPositive() {
		return nil, fmt.Errorf("%s: bet amount must be positive: %w", op, ErrInvalidArgument)
	}

	evaluator, ok := e.evaluators[game]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, game, ErrUnknownGame)
	}

	result, err := evaluator.Play(seeds, bet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// Games lists the registered game ids.
func (e *Engine) Games() []config.Game {
	games := make([]config.Game, 0, len(e.evaluators))
	for game := range e.evaluators {
		games = append(games, game)
	}

	return games
}
