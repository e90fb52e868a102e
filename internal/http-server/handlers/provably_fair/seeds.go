package provably_fair

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	resp "go-stakehouse/internal/lib/api/response"
	"go-stakehouse/internal/lib/logger/sl"
	"golang.org/x/exp/slog"
)

type CommitmentResponse struct {
	resp.Response
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	NextNonce      int64  `json:"next_nonce"`
}

type RotateResponse struct {
	resp.Response
	RevealedServerSeed string `json:"revealed_server_seed"`
	RevealedSeedHash   string `json:"revealed_seed_hash"`
	NextServerSeedHash string `json:"next_server_seed_hash"`
}

type ClientSeedRequest struct {
	ClientSeed string `json:"client_seed" validate:"required,min=1,max=64"`
}

type Seeds struct {
	log       *slog.Logger
	validator *validator.Validate
	book      *SeedBook
}

func NewSeeds(log *slog.Logger, book *SeedBook) *Seeds {
	return &Seeds{
		log:       log,
		validator: validator.New(),
		book:      book,
	}
}

// Commitment handles GET /provably-fair/{uuid}/commitment.
func (s *Seeds) Commitment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.provably_fair.Seeds.Commitment"

		log := s.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		accountID := chi.URLParam(r, "uuid")

		hash, clientSeed, nonce, err := s.book.Commitment(accountID)
		if err != nil {
			log.Error("failed to load commitment", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to load commitment", http.StatusInternalServerError))

			return
		}

		render.JSON(w, r, CommitmentResponse{
			Response:       resp.OK(),
			ServerSeedHash: hash,
			ClientSeed:     clientSeed,
			NextNonce:      nonce,
		})
	}
}

// Rotate handles POST /provably-fair/{uuid}/rotate: reveal the old
// server seed and commit to a fresh one.
func (s *Seeds) Rotate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.provably_fair.Seeds.Rotate"

		log := s.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		accountID := chi.URLParam(r, "uuid")

		revealedSeed, revealedHash, nextHash, err := s.book.Rotate(accountID)
		if err != nil {
			log.Error("failed to rotate seed", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to rotate seed", http.StatusInternalServerError))

			return
		}

		log.Info("server seed rotated", slog.String("account_id", accountID))

		render.JSON(w, r, RotateResponse{
			Response:           resp.OK(),
			RevealedServerSeed: revealedSeed,
			RevealedSeedHash:   revealedHash,
			NextServerSeedHash: nextHash,
		})
	}
}

// ClientSeed handles POST /provably-fair/{uuid}/client-seed.
func (s *Seeds) ClientSeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.provably_fair.Seeds.ClientSeed"

		log := s.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req ClientSeedRequest

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

		accountID := chi.URLParam(r, "uuid")

		if err := s.book.SetClientSeed(accountID, req.ClientSeed); err != nil {
			log.Error("failed to set client seed", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to set client seed", http.StatusInternalServerError))

			return
		}

		render.JSON(w, r, resp.OK())
	}
}
