package bookmark

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/hatebu/internal/domain"
)

var errNoID = errors.New("record has no id")

// Encode serializes a bookmark into its stored JSON form.
func Encode(b *domain.Bookmark) (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("failed to marshal bookmark: %w", err)
	}
	return string(data), nil
}

// Decode parses a stored value. A value without an id is not a bookmark.
func Decode(raw string) (*domain.Bookmark, error) {
	var b domain.Bookmark
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	if b.ID == "" {
		return nil, errNoID
	}
	return &b, nil
}
