package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/vancomm/probasweeper/internal/config"
	"github.com/vancomm/probasweeper/internal/mines"
	"github.com/vancomm/probasweeper/internal/repository"
	"github.com/vancomm/probasweeper/internal/solver"
)

const (
	botName = "proba"

	// sessionTTL is how long an idle session keeps its lock and bot.
	sessionTTL = 30 * time.Minute
)

var ErrBotStuck = fmt.Errorf("%w: bot has no move to make", mines.ErrInvalidAction)

// session serializes the moves made on one game session and holds the bot
// that plays it. The bot is created on its first move.
type session struct {
	mu       sync.Mutex
	bot      *solver.ProbaPlayer
	lastUsed time.Time // guarded by GameHandler.mu
}

type GameHandler struct {
	logger *slog.Logger
	repo   repository.Store
	ws     *config.WebSocket
	params solver.EstimatorParams
	// maxCells bounds the boards NewGame accepts.
	maxCells int
	now      func() time.Time

	mu       sync.Mutex
	rnd      *rand.Rand
	sessions map[int64]*session
}

func NewGameHandler(
	logger *slog.Logger,
	repo repository.Store,
	ws *config.WebSocket,
	params solver.EstimatorParams,
	maxCells int,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		logger:   logger,
		repo:     repo,
		ws:       ws,
		params:   params,
		maxCells: maxCells,
		now:      func() time.Time { return time.Now().UTC() },
		rnd:      rnd,
		sessions: make(map[int64]*session),
	}
}

// session returns the entry of id, creating it if needed. Creating an entry
// also evicts the ones left idle for longer than sessionTTL.
func (h *GameHandler) session(id int64) *session {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()
	s, ok := h.sessions[id]
	if !ok {
		for other, idle := range h.sessions {
			if now.Sub(idle.lastUsed) > sessionTTL {
				delete(h.sessions, other)
			}
		}
		s = &session{}
		h.sessions[id] = s
	}
	s.lastUsed = now
	return s
}

func (h *GameHandler) forget(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// newRand derives an independent source so that games never share one.
func (h *GameHandler) newRand() *rand.Rand {
	h.mu.Lock()
	defer h.mu.Unlock()
	return rand.New(rand.NewPCG(h.rnd.Uint64(), h.rnd.Uint64()))
}

func (h *GameHandler) notifier(id int64) mines.Notifier {
	return mines.NotifierFunc(func(e mines.Event) {
		h.logger.Debug(e.String(), slog.Int64("game_session_id", id), slog.Int("turn", e.Turn))
	})
}

// play applies the move chosen by choose to the stored game and persists
// the result. choose runs under the session lock.
func (h *GameHandler) play(
	ctx context.Context,
	id int64,
	choose func(s *session, g *mines.Game) (mines.Move, error),
) (*GameSessionDTO, error) {
	s := h.session(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := h.repo.FetchGameSession(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		h.forget(id)
	}
	if err != nil {
		return nil, err
	}
	game, err := stored.Game()
	if err != nil {
		return nil, err
	}
	if game.IsOver() {
		h.forget(id)
		return nil, mines.ErrGameOver
	}

	move, err := choose(s, game)
	if err != nil {
		return nil, err
	}
	game.SetNotifier(h.notifier(id))
	if err := game.Apply(move); err != nil {
		return nil, err
	}

	params, err := repository.NewUpdateGameSessionParams(game, h.now())
	if err != nil {
		return nil, err
	}
	updated, err := h.repo.UpdateGameSession(ctx, id, params)
	if err != nil {
		return nil, fmt.Errorf("unable to update game session: %w", err)
	}
	if game.IsOver() {
		h.forget(id)
	}
	return NewGameSessionDTO(updated, game, &move), nil
}

func humanMove(move mines.Move) func(*session, *mines.Game) (mines.Move, error) {
	return func(*session, *mines.Game) (mines.Move, error) {
		return move, nil
	}
}

func (h *GameHandler) botMove(s *session, g *mines.Game) (mines.Move, error) {
	if s.bot == nil {
		s.bot = solver.NewProbaPlayer(botName, h.newRand(), h.params)
	}
	move, ok := s.bot.NextMove(&g.Grid)
	if !ok {
		return move, ErrBotStuck
	}
	if g.Player == "" {
		g.Player = botName
	}
	return move, nil
}

func (h *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateNewGameDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}

	if err := dto.GameParams().ValidateSize(h.maxCells); err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}
	game, err := mines.NewGame(dto.GameParams(), h.newRand())
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}
	game.Player = dto.Player

	params, err := repository.NewCreateGameSessionParams(game)
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}
	stored, err := h.repo.CreateGameSession(r.Context(), params)
	if err != nil {
		sendErrorOrLog(w, h.logger, fmt.Errorf("unable to create game session: %w", err))
		return
	}

	h.logger.Debug(
		"created game session",
		slog.Int64("game_session_id", stored.GameSessionId),
		slog.Any("params", game.GameParams),
	)
	sendJSONOrLog(w, h.logger, NewGameSessionDTO(stored, game, nil))
}

func (h *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionId(r)
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}

	stored, err := h.repo.FetchGameSession(r.Context(), id)
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}
	game, err := stored.Game()
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}

	sendJSONOrLog(w, h.logger, NewGameSessionDTO(stored, game, nil))
}

func (h *GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionId(r)
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}
	move, err := ParseMove(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}

	dto, err := h.play(r.Context(), id, humanMove(move))
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, dto)
}

// BotMove lets the proba player of the session make one move.
func (h *GameHandler) BotMove(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionId(r)
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}

	dto, err := h.play(r.Context(), id, h.botMove)
	if err != nil {
		if errors.Is(err, ErrBotStuck) {
			h.logger.Warn("bot has no move", slog.Int64("game_session_id", id))
		}
		sendErrorOrLog(w, h.logger, err)
		return
	}
	sendJSONOrLog(w, h.logger, dto)
}
