package idgen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator assigns the id of a new bookmark.
// Implementations should be safe for concurrent use.
type Generator interface {
	Generate(url string) (string, error)
}

// Mode selects how ids are assigned.
type Mode string

const (
	ModeUUIDv4 Mode = "uuid-v4"
	ModeUUIDv7 Mode = "uuid-v7"
	// ModeURL uses the bookmark URL itself as the id.
	ModeURL Mode = "url"
)

// ParseMode accepts the config spelling of a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeUUIDv4, ModeUUIDv7, ModeURL:
		return m, nil
	case "":
		return ModeUUIDv7, nil
	default:
		return "", fmt.Errorf("unknown id mode %q (want %s, %s or %s)", s, ModeUUIDv4, ModeUUIDv7, ModeURL)
	}
}

// New returns a Generator for m. Unknown modes fall back to UUID v7.
func New(m Mode) Generator {
	switch m {
	case ModeUUIDv4:
		return v4Gen{}
	case ModeURL:
		return urlGen{}
	default:
		return NewV7()
	}
}

/***************
 * UUID v4
 ***************/

type v4Gen struct{}

func (v4Gen) Generate(string) (string, error) {
	return uuid.NewString(), nil
}

/***************
 * UUID v7
 ***************/

type v7Gen struct {
	maxRetries int
}

// NewV7 returns a Generator producing time-ordered UUID v7 ids.
func NewV7() Generator { return &v7Gen{maxRetries: 1} }

func (g *v7Gen) Generate(string) (string, error) {
	var last error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		id, err := uuid.NewV7()
		if err == nil {
			return id.String(), nil
		}
		last = err
	}
	return "", fmt.Errorf("uuid v7 generation failed after %d attempts: %w", g.maxRetries+1, last)
}

/***************
 * URL as id
 ***************/

type urlGen struct{}

func (urlGen) Generate(url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("url id mode needs a non-empty url")
	}
	return url, nil
}
