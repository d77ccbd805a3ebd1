package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/vancomm/probasweeper/internal/mines"
	"github.com/vancomm/probasweeper/internal/repository"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

var errBadRequest = errors.New("bad request")

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, v any) {
	_, err := SendJSON(w, v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error(
			"unable to send response",
			slog.Any("response", v),
			slog.Any("error", err),
		)
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

// statusOf maps the errors of the game and storage layers to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, mines.ErrOutOfBounds),
		errors.Is(err, mines.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mines.ErrInvalidAction):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func sendErrorOrLog(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("unable to handle request", slog.Any("error", err))
		w.WriteHeader(status)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(wrapError(err)); err != nil {
		logger.Error("unable to send error message", slog.Any("error", err))
	}
}
