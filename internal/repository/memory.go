package repository

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Memory is a [Store] for servers started without a database. Sessions are
// lost on restart.
type Memory struct {
	mu       sync.Mutex
	sessions map[int64]*GameSession
	lastId   int64
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[int64]*GameSession),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func clone(s *GameSession) *GameSession {
	c := *s
	c.State = slices.Clone(s.State)
	if s.EndedAt != nil {
		endedAt := *s.EndedAt
		c.EndedAt = &endedAt
	}
	return &c
}

func (m *Memory) CreateGameSession(
	_ context.Context, params CreateGameSessionParams,
) (*GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastId++
	session := &GameSession{
		GameSessionId: m.lastId,
		Width:         params.Width,
		Height:        params.Height,
		MineCount:     params.MineCount,
		Player:        params.Player,
		State:         slices.Clone(params.State),
		StartedAt:     m.now(),
	}
	m.sessions[session.GameSessionId] = session
	return clone(session), nil
}

func (m *Memory) FetchGameSession(_ context.Context, gameSessionId int64) (*GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[gameSessionId]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(session), nil
}

func (m *Memory) UpdateGameSession(
	_ context.Context, gameSessionId int64, params UpdateGameSessionParams,
) (*GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[gameSessionId]
	if !ok {
		return nil, ErrNotFound
	}
	if params.Player != nil {
		session.Player = *params.Player
	}
	if params.Over != nil {
		session.Over = *params.Over
	}
	if params.Won != nil {
		session.Won = *params.Won
	}
	if params.Moves != nil {
		session.Moves = *params.Moves
	}
	if params.EndedAt != nil {
		endedAt := *params.EndedAt
		session.EndedAt = &endedAt
	}
	if params.State != nil {
		session.State = slices.Clone(*params.State)
	}
	return clone(session), nil
}
