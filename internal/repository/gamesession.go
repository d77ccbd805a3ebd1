package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/probasweeper/internal/mines"
)

type GameSession struct {
	GameSessionId int64      `db:"game_session_id"`
	Width         int        `db:"width"`
	Height        int        `db:"height"`
	MineCount     int        `db:"mine_count"`
	Player        string     `db:"player"`
	Over          bool       `db:"over"`
	Won           bool       `db:"won"`
	Moves         int        `db:"moves"`
	State         []byte     `db:"state"`
	StartedAt     time.Time  `db:"started_at"`
	EndedAt       *time.Time `db:"ended_at"`
}

// Game decodes the stored state.
func (s GameSession) Game() (*mines.Game, error) {
	game, err := mines.DecodeGame(s.State)
	if err != nil {
		return nil, fmt.Errorf("invalid state of game session %d: %w", s.GameSessionId, err)
	}
	return game, nil
}

type CreateGameSessionParams struct {
	Width     int
	Height    int
	MineCount int
	Player    string
	State     []byte
}

func NewCreateGameSessionParams(game *mines.Game) (CreateGameSessionParams, error) {
	state, err := game.Bytes()
	if err != nil {
		return CreateGameSessionParams{}, fmt.Errorf("unable to encode game state: %w", err)
	}
	return CreateGameSessionParams{
		Width:     game.Width,
		Height:    game.Height,
		MineCount: game.MineCount,
		Player:    game.Player,
		State:     state,
	}, nil
}

func (q Queries) CreateGameSession(
	ctx context.Context, params CreateGameSessionParams,
) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			width, height, mine_count, player, state
		)
		VALUES (
			@width, @height, @mine_count, @player, @state
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"width":      params.Width,
			"height":     params.Height,
			"mine_count": params.MineCount,
			"player":     params.Player,
			"state":      params.State,
		},
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[GameSession],
	)
}

func (q Queries) FetchGameSession(ctx context.Context, gameSessionId int64) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_session WHERE game_session_id = $1",
		gameSessionId,
	)
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	return session, notFound(err)
}

type UpdateGameSessionParams struct {
	Player  *string
	Over    *bool
	Won     *bool
	Moves   *int
	EndedAt *time.Time
	State   *[]byte
}

// NewUpdateGameSessionParams captures the outcome and the encoded state of
// the game. endedAt is only recorded once the game is over.
func NewUpdateGameSessionParams(game *mines.Game, endedAt time.Time) (UpdateGameSessionParams, error) {
	state, err := game.Bytes()
	if err != nil {
		return UpdateGameSessionParams{}, fmt.Errorf("unable to encode game state: %w", err)
	}
	params := UpdateGameSessionParams{
		Player: &game.Player,
		Over:   &game.Over,
		Won:    &game.Won,
		Moves:  &game.Moves,
		State:  &state,
	}
	if game.Over {
		params.EndedAt = &endedAt
	}
	return params, nil
}

func (p UpdateGameSessionParams) SetClause() (string, map[string]any) {
	parts := make([]string, 0)
	args := make(map[string]any)

	if p.Player != nil {
		parts = append(parts, "player = @player")
		args["player"] = *p.Player
	}
	if p.Over != nil {
		parts = append(parts, "over = @over")
		args["over"] = *p.Over
	}
	if p.Won != nil {
		parts = append(parts, "won = @won")
		args["won"] = *p.Won
	}
	if p.Moves != nil {
		parts = append(parts, "moves = @moves")
		args["moves"] = *p.Moves
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}

	return strings.Join(parts, ", "), args
}

func (q Queries) UpdateGameSession(
	ctx context.Context, gameSessionId int64, params UpdateGameSessionParams,
) (*GameSession, error) {
	setClause, args := params.SetClause()
	if setClause == "" {
		return q.FetchGameSession(ctx, gameSessionId)
	}
	args["game_session_id"] = gameSessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE game_session SET "+setClause+" WHERE game_session_id = @game_session_id RETURNING *",
		pgx.NamedArgs(args),
	)
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	return session, notFound(err)
}
