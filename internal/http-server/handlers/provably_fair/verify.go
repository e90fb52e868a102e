package provably_fair

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	resp "go-stakehouse/internal/lib/api/response"
	"go-stakehouse/internal/lib/logger/sl"
	"go-stakehouse/internal/rng"
	"golang.org/x/exp/slog"
)

type VerifyRequest struct {
	ServerSeed   string `json:"server_seed" validate:"required"`
	ClientSeed   string `json:"client_seed"`
	Nonce        int64  `json:"nonce" validate:"min=0"`
	MaxExclusive int    `json:"max_exclusive" validate:"required,min=1"`
	Claimed      int    `json:"claimed" validate:"min=0"`
}

type VerifyResponse struct {
	resp.Response
	Valid          bool   `json:"valid"`
	ServerSeedHash string `json:"server_seed_hash"`
}

type Verifier struct {
	log       *slog.Logger
	validator *validator.Validate
}

func NewVerifier(log *slog.Logger) *Verifier {
	return &Verifier{
		log:       log,
		validator: validator.New(),
	}
}

// New handles POST /provably-fair/verify: recompute the draw for a
// disclosed triple and compare. A mismatch is a normal 200 response
// with valid=false.
func (v *Verifier) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.provably_fair.Verifier.New"

		log := v.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req VerifyRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

			return
		}

		if err := v.validator.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		valid := rng.Verify(req.ServerSeed, req.ClientSeed, req.Nonce, req.Claimed, req.MaxExclusive)

		log.Info("verification completed",
			slog.Bool("valid", valid),
			slog.Int64("nonce", req.Nonce),
		)

		render.JSON(w, r, VerifyResponse{
			Response:       resp.OK(),
			Valid:          valid,
			ServerSeedHash: rng.HashServerSeed(req.ServerSeed),
		})
	}
}
