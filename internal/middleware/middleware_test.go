package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.NotFoundHandler(), tag("inner"), tag("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cells []int
			_ = cells[0]
		}),
		Recover(logger),
		Logging(logger),
	)
	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest("POST", "/game", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	dec := json.NewDecoder(&buf)
	var panicked, access map[string]any
	require.NoError(t, dec.Decode(&panicked))
	require.NoError(t, dec.Decode(&access))
	assert.Equal(t, "handler panicked", panicked["msg"])
	assert.Equal(t, "/game", panicked["path"])
	assert.Contains(t, panicked["panic"], "index out of range")
	assert.EqualValues(t, http.StatusInternalServerError, access["status"])
	assert.Equal(t, "ERROR", access["level"])
}

func TestRecoverPassesAbortThrough(t *testing.T) {
	h := Recover(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	})
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/game?width=3", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "POST /game?width=3", entry["msg"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestLoggingDefaultsToOK(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.EqualValues(t, http.StatusOK, entry["status"])
}

func TestCors(t *testing.T) {
	h := Cors([]string{"http://a.test"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for origin, allowed := range map[string]bool{"http://a.test": true, "http://b.test": false} {
		r := httptest.NewRequest("GET", "/game/1", nil)
		r.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if allowed {
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
		} else {
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		}
	}

	open := Cors(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	r := httptest.NewRequest("GET", "/game/1", nil)
	r.Header.Set("Origin", "http://c.test")
	w := httptest.NewRecorder()
	open.ServeHTTP(w, r)
	assert.Equal(t, "http://c.test", w.Header().Get("Access-Control-Allow-Origin"))
}
