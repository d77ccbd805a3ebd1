package handlers

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/probasweeper/internal/mines"
)

func iterBySep(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

func parseXY(args []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("%w: first argument must be an int", errBadRequest)
		return
	}
	if y, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("%w: second argument must be an int", errBadRequest)
		return
	}
	return
}

type wsCommand string

const (
	wsFetch    wsCommand = "g"
	wsReveal   wsCommand = "r"
	wsFlag     wsCommand = "f"
	wsBot      wsCommand = "b"
	wsBotPlays wsCommand = "p"
)

var commandNargs = map[wsCommand]int{
	wsFetch:    0,
	wsReveal:   2,
	wsFlag:     2,
	wsBot:      0,
	wsBotPlays: 0,
}

// execute runs one command line and writes one frame per applied move, or a
// single {"error": ...} frame when the command is rejected. Only connection
// failures are returned.
func (h *GameHandler) execute(ctx context.Context, conn *websocket.Conn, id int64, line string) error {
	reply := func(v any) error {
		if err := conn.WriteJSON(v); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
		return nil
	}
	replyErr := func(err error) error {
		if statusOf(err) == http.StatusInternalServerError {
			h.logger.Error("unable to process command", slog.String("command", line), slog.Any("error", err))
		}
		return reply(wrapError(err))
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return replyErr(fmt.Errorf("%w: empty command", errBadRequest))
	}
	cmd := wsCommand(parts[0])
	nargs, ok := commandNargs[cmd]
	if !ok {
		return replyErr(fmt.Errorf("%w: unknown command %q", errBadRequest, parts[0]))
	}
	if nargs != len(parts)-1 {
		return replyErr(fmt.Errorf("%w: %q takes %d arguments", errBadRequest, cmd, nargs))
	}

	switch cmd {
	case wsFetch:
		stored, err := h.repo.FetchGameSession(ctx, id)
		if err != nil {
			return replyErr(err)
		}
		game, err := stored.Game()
		if err != nil {
			return replyErr(err)
		}
		return reply(NewGameSessionDTO(stored, game, nil))
	case wsReveal, wsFlag:
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return replyErr(err)
		}
		action := mines.Reveal
		if cmd == wsFlag {
			action = mines.Flag
		}
		dto, err := h.play(ctx, id, humanMove(mines.Move{X: x, Y: y, Action: action}))
		if err != nil {
			return replyErr(err)
		}
		return reply(dto)
	case wsBot:
		dto, err := h.play(ctx, id, h.botMove)
		if err != nil {
			return replyErr(err)
		}
		return reply(dto)
	case wsBotPlays:
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			dto, err := h.play(ctx, id, h.botMove)
			if err != nil {
				return replyErr(err)
			}
			if err := reply(dto); err != nil {
				return err
			}
			if dto.Over {
				return nil
			}
		}
	}
	return nil
}

func (h *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionId(r)
	if err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}
	if _, err := h.repo.FetchGameSession(r.Context(), id); err != nil {
		sendErrorOrLog(w, h.logger, err)
		return
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		h.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	h.logger.Debug("established ws connection", slog.Int64("game_session_id", id))

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("abnormal ws break", slog.Any("error", err))
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}
		text := strings.TrimSpace(string(message))
		h.logger.Debug(fmt.Sprintf("\t> %s", text))
		for _, line := range iterBySep(text, "\n") {
			if err := h.execute(r.Context(), conn, id, strings.TrimSpace(line)); err != nil {
				h.logger.Warn("closing ws connection", slog.Any("error", err))
				return
			}
		}
	}
}
