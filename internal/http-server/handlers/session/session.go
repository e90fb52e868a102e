// Package session handles POST /sessions/start and
// POST /sessions/{uuid}/end.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/ledger"
	resp "go-stakehouse/internal/lib/api/response"
	"go-stakehouse/internal/lib/logger/sl"
	"golang.org/x/exp/slog"
)

type StartRequest struct {
	AccountUUID string `json:"account_uuid" validate:"required"`
}

type StartResponse struct {
	resp.Response
	SessionUUID string    `json:"session_uuid"`
	AccountUUID string    `json:"account_uuid"`
	StartedAt   time.Time `json:"started_at"`
}

type EndResponse struct {
	resp.Response
	SessionUUID    string     `json:"session_uuid"`
	RoundCount     int        `json:"round_count"`
	RoundsWon      int        `json:"rounds_won"`
	RoundsLost     int        `json:"rounds_lost"`
	Wagered        string     `json:"wagered"`
	Won            string     `json:"won"`
	BiggestWin     string     `json:"biggest_win"`
	BiggestLoss    string     `json:"biggest_loss"`
	ClosingBalance string     `json:"closing_balance"`
	StartedAt      time.Time  `json:"started_at"`
	ClosedAt       *time.Time `json:"closed_at"`
}

// Registry is the slice of the ledger the handler needs. Closing goes
// through the ledger rather than the raw session registry so the final
// snapshot carries the account's balance.
type Registry interface {
	StartSession(accountID string) *ledger.Session
	EndSession(sessionID string) (*ledger.Session, error)
}

type Session struct {
	log       *slog.Logger
	validator *validator.Validate
	registry  Registry
}

func NewSession(log *slog.Logger, registry Registry) *Session {
	return &Session{
		log:       log,
		validator: validator.New(),
		registry:  registry,
	}
}

func (s *Session) Start() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.Start"

		log := s.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req StartRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

			return
		}

		if err := s.validator.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		opened := s.registry.StartSession(req.AccountUUID)

		log.Info("session started",
			slog.String("session_uuid", opened.ID),
			slog.String("account_uuid", opened.AccountID),
		)

		render.JSON(w, r, StartResponse{
			Response:    resp.OK(),
			SessionUUID: opened.ID,
			AccountUUID: opened.AccountID,
			StartedAt:   opened.StartedAt,
		})
	}
}

func (s *Session) End() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.End"

		log := s.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		sessionID := chi.URLParam(r, "uuid")

		closed, err := s.registry.EndSession(sessionID)
		if err != nil {
			if errors.Is(err, engine.ErrInvalidArgument) {
				log.Info("session not found", slog.String("session_uuid", sessionID))

				render.JSON(w, r, resp.Error("session not found", http.StatusNotFound))

				return
			}

			log.Error("failed to end session", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to end session", http.StatusInternalServerError))

			return
		}

		log.Info("session ended",
			slog.String("session_uuid", closed.ID),
			slog.Int("round_count", closed.RoundCount),
		)

		closingBalance := ""
		if closed.ClosingBalance != nil {
			closingBalance = closed.ClosingBalance.String()
		}

		render.JSON(w, r, EndResponse{
			Response:       resp.OK(),
			SessionUUID:    closed.ID,
			RoundCount:     closed.RoundCount,
			RoundsWon:      closed.RoundsWon,
			RoundsLost:     closed.RoundsLost,
			Wagered:        closed.Wagered.String(),
			Won:            closed.Won.String(),
			BiggestWin:     closed.BiggestWin.String(),
			BiggestLoss:    closed.BiggestLoss.String(),
			ClosingBalance: closingBalance,
			StartedAt:      closed.StartedAt,
			ClosedAt:       closed.ClosedAt,
		})
	}
}
