package provably_fair

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	resp "go-stakehouse/internal/lib/api/response"
	"go-stakehouse/internal/lib/logger/sl"
	"go-stakehouse/internal/repository"
	"golang.org/x/exp/slog"
)

// DisclosureFinder looks persisted seed commitments up by their public
// hash.
type DisclosureFinder interface {
	DisclosureByHash(serverSeedHash string) (*repository.SeedDisclosure, error)
}

type DisclosureResponse struct {
	resp.Response
	AccountUUID    string     `json:"account_uuid"`
	ServerSeedHash string     `json:"server_seed_hash"`
	ServerSeed     string     `json:"server_seed,omitempty"`
	Revealed       bool       `json:"revealed"`
	RevealedAt     *time.Time `json:"revealed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type Disclosures struct {
	log    *slog.Logger
	finder DisclosureFinder
}

func NewDisclosures(log *slog.Logger, finder DisclosureFinder) *Disclosures {
	return &Disclosures{
		log:    log,
		finder: finder,
	}
}

// Show handles GET /provably-fair/disclosures/{hash}: a player who kept
// a commitment hash can check whether its seed has been revealed yet.
func (d *Disclosures) Show() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.provably_fair.Disclosures.Show"

		log := d.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		hash := chi.URLParam(r, "hash")

		disclosure, err := d.finder.DisclosureByHash(hash)
		if err != nil {
			log.Error("failed to load disclosure", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to load disclosure", http.StatusInternalServerError))

			return
		}

		if disclosure == nil {
			render.JSON(w, r, resp.Error("unknown seed hash", http.StatusNotFound))

			return
		}

		render.JSON(w, r, DisclosureResponse{
			Response:       resp.OK(),
			AccountUUID:    disclosure.AccountID,
			ServerSeedHash: disclosure.ServerSeedHash,
			ServerSeed:     disclosure.ServerSeed,
			Revealed:       disclosure.RevealedAt != nil,
			RevealedAt:     disclosure.RevealedAt,
			CreatedAt:      disclosure.CreatedAt,
		})
	}
}
