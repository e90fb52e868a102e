// Package play handles POST /games/{game}/play: decode the bet, draw a
// seed triple, settle through the ledger, answer with the settled round
// and the seed commitment (never the live server seed).
package play

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go-stakehouse/internal/config"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/engine/baccarat"
	"go-stakehouse/internal/engine/coinflip"
	"go-stakehouse/internal/engine/dice"
	"go-stakehouse/internal/engine/holdem"
	"go-stakehouse/internal/engine/keno"
	"go-stakehouse/internal/engine/roulette"
	"go-stakehouse/internal/engine/sicbo"
	"go-stakehouse/internal/engine/slots"
	"go-stakehouse/internal/http-server/handlers/provably_fair"
	"go-stakehouse/internal/ledger"
	resp "go-stakehouse/internal/lib/api/response"
	"go-stakehouse/internal/lib/logger/sl"
	"go-stakehouse/internal/rng"
	"golang.org/x/exp/slog"
)

type Request struct {
	AccountUUID string          `json:"account_uuid" validate:"required"`
	SessionUUID string          `json:"session_uuid"`
	Amount      string          `json:"amount" validate:"required"`
	Params      json.RawMessage `json:"params"`
}

type Response struct {
	resp.Response
	RoundID        string    `json:"round_id"`
	Game           string    `json:"game"`
	Outcome        string    `json:"outcome"`
	Drawn          []string  `json:"drawn"`
	Amount         string    `json:"amount"`
	Payout         string    `json:"payout"`
	Profit         string    `json:"profit"`
	IsWin          bool      `json:"is_win"`
	ServerSeedHash string    `json:"server_seed_hash"`
	ClientSeed     string    `json:"client_seed"`
	Nonce          int64     `json:"nonce"`
	SettledAt      time.Time `json:"settled_at"`
}

// SicBoPositionRequest is one sic bo position in wire form; JSON
// cannot key a map by a struct.
type SicBoPositionRequest struct {
	Kind   string `json:"kind" validate:"required"`
	Total  int    `json:"total"`
	Face   int    `json:"face"`
	FaceA  int    `json:"face_a"`
	FaceB  int    `json:"face_b"`
	Amount string `json:"amount" validate:"required"`
}

// Settler is the slice of the ledger the handler needs.
type Settler interface {
	Settle(accountID, sessionID string, game config.Game, seeds rng.SeedTriple, bet engine.Bet) (*ledger.SettledRound, error)
}

type Play struct {
	log       *slog.Logger
	validator *validator.Validate
	settler   Settler
	seeds     *provably_fair.SeedBook
}

func NewPlay(log *slog.Logger, settler Settler, seeds *provably_fair.SeedBook) *Play {
	return &Play{
		log:       log,
		validator: validator.New(),
		settler:   settler,
		seeds:     seeds,
	}
}

func (p *Play) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.round.play.New"

		log := p.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

			return
		}

		if err := p.validator.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		game := config.Game(chi.URLParam(r, "game"))
		if !game.Known() {
			log.Error("unknown game", slog.String("game", string(game)))

			render.JSON(w, r, resp.Error("unknown game", http.StatusNotFound))

			return
		}

		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			log.Error("invalid amount", sl.Err(err))

			render.JSON(w, r, resp.Error("invalid amount", http.StatusBadRequest))

			return
		}

		params, err := parseParams(game, req.Params)
		if err != nil {
			log.Error("invalid game params", sl.Err(err))

			render.JSON(w, r, resp.Error("invalid game params", http.StatusBadRequest))

			return
		}

		triple, seedHash, err := p.seeds.NextTriple(req.AccountUUID)
		if err != nil {
			log.Error("failed to draw seed triple", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to draw seed triple", http.StatusInternalServerError))

			return
		}

		round, err := p.settler.Settle(req.AccountUUID, req.SessionUUID, game, triple,
			engine.Bet{Amount: amount, Params: params})
		if err != nil {
			status := http.StatusInternalServerError
			message := "failed to settle round"

			switch {
			case errors.Is(err, engine.ErrInsufficientFunds):
				status = http.StatusPaymentRequired
				message = "insufficient funds"
			case errors.Is(err, engine.ErrInvalidArgument):
				status = http.StatusBadRequest
				message = "invalid bet"
			case errors.Is(err, engine.ErrUnknownGame):
				status = http.StatusNotFound
				message = "unknown game"
			}

			log.Error("settlement failed", sl.Err(err))

			render.JSON(w, r, resp.Error(message, status))

			return
		}

		log.Info("round settled",
			slog.String("round_id", round.ID),
			slog.String("game", string(game)),
			slog.String("outcome", round.Outcome),
		)

		render.JSON(w, r, Response{
			Response:       resp.OK(),
			RoundID:        round.ID,
			Game:           string(round.Game),
			Outcome:        round.Outcome,
			Drawn:          round.Drawn,
			Amount:         round.Amount.String(),
			Payout:         round.Payout.String(),
			Profit:         round.Profit.String(),
			IsWin:          round.IsWin,
			ServerSeedHash: seedHash,
			ClientSeed:     triple.ClientSeed,
			Nonce:          triple.Nonce,
			SettledAt:      round.SettledAt,
		})
	}
}

// parseParams decodes the evaluator-specific bet parameters for a game.
func parseParams(game config.Game, raw json.RawMessage) (any, error) {
	const op = "handlers.round.play.parseParams"

	switch game {
	case config.Baccarat:
		var params baccarat.Params
		if err := unmarshalParams(raw, &params); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return params, nil

	case config.Holdem:
		return holdem.Params{}, nil

	case config.SicBo:
		var positions []SicBoPositionRequest
		if err := unmarshalParams(raw, &positions); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return sicboParams(positions)

	case config.Keno:
		var params keno.Params
		if err := unmarshalParams(raw, &params); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return params, nil

	case config.Slots:
		return slots.Params{}, nil

	case config.Dice:
		var params dice.Params
		if err := unmarshalParams(raw, &params); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return params, nil

	case config.CoinFlip:
		var params coinflip.Params
		if err := unmarshalParams(raw, &params); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return params, nil

	case config.Roulette:
		var params roulette.Params
		if err := unmarshalParams(raw, &params); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return params, nil
	}

	return nil, fmt.Errorf("%s: %q: %w", op, game, engine.ErrUnknownGame)
}

func unmarshalParams(raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return errors.New("params required")
	}

	return json.Unmarshal(raw, target)
}

var sicboKinds = map[string]sicbo.BetKind{
	"small":      sicbo.Small,
	"big":        sicbo.Big,
	"total":      sicbo.Total,
	"single":     sicbo.Single,
	"double":     sicbo.Double,
	"triple":     sicbo.Triple,
	"any_triple": sicbo.AnyTriple,
	"combo":      sicbo.Combo,
}

func sicboParams(positions []SicBoPositionRequest) (sicbo.Params, error) {
	const op = "handlers.round.play.sicboParams"

	bets := make(map[sicbo.BetSpec]decimal.Decimal, len(positions))

	for _, position := range positions {
		kind, ok := sicboKinds[position.Kind]
		if !ok {
			return sicbo.Params{}, fmt.Errorf("%s: unknown bet kind %q: %w",
				op, position.Kind, engine.ErrInvalidArgument)
		}

		amount, err := decimal.NewFromString(position.Amount)
		if err != nil {
			return sicbo.Params{}, fmt.Errorf("%s: %w", op, err)
		}

		spec := sicbo.BetSpec{
			Kind:  kind,
			Total: position.Total,
			Face:  position.Face,
			FaceA: position.FaceA,
			FaceB: position.FaceB,
		}

		bets[spec] = bets[spec].Add(amount)
	}

	return sicbo.Params{Bets: bets}, nil
}
