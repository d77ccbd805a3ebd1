package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("game session not found")

// Store keeps game sessions. [Queries] implements it on top of PostgreSQL,
// [Memory] keeps everything in process.
type Store interface {
	CreateGameSession(ctx context.Context, params CreateGameSessionParams) (*GameSession, error)
	FetchGameSession(ctx context.Context, gameSessionId int64) (*GameSession, error)
	UpdateGameSession(ctx context.Context, gameSessionId int64, params UpdateGameSessionParams) (*GameSession, error)
}

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
