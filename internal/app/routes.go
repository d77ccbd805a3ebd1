package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"

	"github.com/vancomm/probasweeper/internal/config"
	"github.com/vancomm/probasweeper/internal/handlers"
	"github.com/vancomm/probasweeper/internal/middleware"
	"github.com/vancomm/probasweeper/internal/repository"
	"github.com/vancomm/probasweeper/internal/solver"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// Handler routes the game API under APP_BASE_PATH.
func (a *App) Handler(repo repository.Store, params solver.EstimatorParams, maxCells int) http.Handler {
	origins := config.AllowedOrigins()
	game := handlers.NewGameHandler(
		a.logger, repo, config.NewWebSocket(origins), params, maxCells, createRand(),
	)

	router := http.NewServeMux()
	router.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	router.HandleFunc("POST /game", game.NewGame)
	router.HandleFunc("GET /game/{id}", game.Fetch)
	router.HandleFunc("POST /game/{id}/move", game.MakeAMove)
	router.HandleFunc("POST /game/{id}/bot", game.BotMove)
	router.HandleFunc("GET /game/{id}/connect", game.ConnectWS)

	var h http.Handler = router
	if basePath := config.BasePath(); basePath != "" {
		h = http.StripPrefix(basePath, h)
	}
	return middleware.Wrap(
		h,
		middleware.Recover(a.logger),
		middleware.Cors(origins),
		middleware.Logging(a.logger),
	)
}
