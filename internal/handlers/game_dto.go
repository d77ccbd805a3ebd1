package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/vancomm/probasweeper/internal/mines"
	"github.com/vancomm/probasweeper/internal/repository"
)

type CreateNewGameDTO struct {
	Width     int    `schema:"width,required"`
	Height    int    `schema:"height,required"`
	MineCount int    `schema:"mine_count,required"`
	Player    string `schema:"player"`
}

func ParseCreateNewGameDTO(src map[string][]string) (CreateNewGameDTO, error) {
	var dto CreateNewGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return dto, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return dto, nil
}

func (dto CreateNewGameDTO) GameParams() mines.GameParams {
	return mines.GameParams{
		Width:     dto.Width,
		Height:    dto.Height,
		MineCount: dto.MineCount,
	}
}

type MoveDTO struct {
	X      int    `schema:"x,required"`
	Y      int    `schema:"y,required"`
	Action string `schema:"action,required"`
}

func ParseMove(src map[string][]string) (mines.Move, error) {
	var dto MoveDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.Move{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	action, err := mines.ParseAction(dto.Action)
	if err != nil {
		return mines.Move{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return mines.Move{X: dto.X, Y: dto.Y, Action: action}, nil
}

func parseSessionId(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid game session id", errBadRequest)
	}
	return id, nil
}

type GameSessionDTO struct {
	GameSessionId string            `json:"game_session_id"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	MineCount     int               `json:"mine_count"`
	Player        string            `json:"player,omitempty"`
	Over          bool              `json:"over"`
	Won           bool              `json:"won"`
	Moves         int               `json:"moves"`
	Board         []mines.CellState `json:"board"`
	LastMove      *mines.Move       `json:"last_move,omitempty"`
	StartedAt     int64             `json:"started_at"`
	EndedAt       *int64            `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(
	session *repository.GameSession, g *mines.Game, lastMove *mines.Move,
) *GameSessionDTO {
	var endedAt *int64
	if session.EndedAt != nil {
		e := session.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &GameSessionDTO{
		GameSessionId: strconv.FormatInt(session.GameSessionId, 10),
		Width:         g.Width,
		Height:        g.Height,
		MineCount:     g.MineCount,
		Player:        g.Player,
		Over:          g.Over,
		Won:           g.Won,
		Moves:         g.Moves,
		Board:         g.View(),
		LastMove:      lastMove,
		StartedAt:     session.StartedAt.UnixMilli(),
		EndedAt:       endedAt,
	}
}
