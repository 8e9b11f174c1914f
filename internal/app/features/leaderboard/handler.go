// internal/app/features/leaderboard/handler.go
package leaderboard

import (
	"context"
	"net/http"
	"strconv"

	lbquery "github.com/commitchain/commitchaind/internal/app/store/queries/leaderboard"
	"github.com/commitchain/commitchaind/internal/app/system/httpjson"
	"github.com/commitchain/commitchaind/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the cross-group completion leaderboard.
type Handler struct {
	Log *zap.Logger
	DB  *mongo.Database
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, DB: db}
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeTop)
	return r
}

// ServeTop serves GET /leaderboard?limit=n: addresses ranked by completed
// goals, then total AVAX earned, with badge counts attached.
func (h *Handler) ServeTop(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := lbquery.Top(ctx, h.DB, limit)
	if err != nil {
		h.Log.Error("leaderboard aggregation", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"leaderboard": rows})
}
