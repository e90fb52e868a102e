// Package balance handles GET /users/{uuid}/balance and the account's
// round history.
package balance

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"
	"go-stakehouse/internal/ledger"
	resp "go-stakehouse/internal/lib/api/response"
	"go-stakehouse/internal/lib/logger/sl"
	"golang.org/x/exp/slog"
)

type BalanceResponse struct {
	resp.Response
	AccountUUID string `json:"account_uuid"`
	Balance     string `json:"balance"`
}

type RoundHistoryItem struct {
	RoundID   string    `json:"round_id"`
	Game      string    `json:"game"`
	Amount    string    `json:"amount"`
	Payout    string    `json:"payout"`
	Outcome   string    `json:"outcome"`
	IsWin     bool      `json:"is_win"`
	SettledAt time.Time `json:"settled_at"`
}

type HistoryResponse struct {
	resp.Response
	AccountUUID string             `json:"account_uuid"`
	Rounds      []RoundHistoryItem `json:"rounds"`
}

// Reader is the slice of the ledger the handler needs.
type Reader interface {
	Balance(accountID string) (decimal.Decimal, error)
	History(accountID string, limit int) ([]*ledger.SettledRound, error)
}

type Balance struct {
	log    *slog.Logger
	reader Reader
}

func NewBalance(log *slog.Logger, reader Reader) *Balance {
	return &Balance{
		log:    log,
		reader: reader,
	}
}

func (b *Balance) Show() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.balance.Show"

		log := b.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		accountID := chi.URLParam(r, "uuid")

		amount, err := b.reader.Balance(accountID)
		if err != nil {
			log.Error("failed to read balance", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to read balance", http.StatusInternalServerError))

			return
		}

		render.JSON(w, r, BalanceResponse{
			Response:    resp.OK(),
			AccountUUID: accountID,
			Balance:     amount.String(),
		})
	}
}

func (b *Balance) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.balance.History"

		log := b.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		accountID := chi.URLParam(r, "uuid")

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				render.JSON(w, r, resp.Error("invalid limit", http.StatusBadRequest))

				return
			}

			limit = parsed
		}

		rounds, err := b.reader.History(accountID, limit)
		if err != nil {
			log.Error("failed to read round history", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to read round history", http.StatusInternalServerError))

			return
		}

		items := make([]RoundHistoryItem, 0, len(rounds))
		for _, round := range rounds {
			items = append(items, RoundHistoryItem{
				RoundID:   round.ID,
				Game:      string(round.Game),
				Amount:    round.Amount.String(),
				Payout:    round.Payout.String(),
				Outcome:   round.Outcome,
				IsWin:     round.IsWin,
				SettledAt: round.SettledAt,
			})
		}

		render.JSON(w, r, HistoryResponse{
			Response:    resp.OK(),
			AccountUUID: accountID,
			Rounds:      items,
		})
	}
}
