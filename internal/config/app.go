package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultPort     = ":8080"
	defaultMaxCells = 1 << 20
)

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

// Port returns the listen address, ":8080" when APP_PORT is unset. A bare
// number is accepted as well.
func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return defaultPort
	}
	if !strings.Contains(port, ":") {
		port = ":" + port
	}
	return port
}

// AllowedOrigins reads the comma separated APP_ALLOWED_ORIGINS. Nil means any
// origin is allowed.
func AllowedOrigins() []string {
	raw, ok := os.LookupEnv("APP_ALLOWED_ORIGINS")
	if !ok {
		return nil
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// MaxCells bounds the board size a client may request, from MAX_CELLS.
func MaxCells() (int, error) {
	raw, ok := os.LookupEnv("MAX_CELLS")
	if !ok || raw == "" {
		return defaultMaxCells, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("unable to parse MAX_CELLS: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("MAX_CELLS must be positive, got %d", n)
	}
	return n, nil
}
