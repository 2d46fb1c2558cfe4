/*
Package randx generates the random identifiers the portal hands out itself:
browser session ids and object storage keys for event covers.
*/
package randx

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SessionID generates a UUID v4 string identifying one browser session.
func SessionID() string {
	return uuid.New().String()
}

// IsValidSessionID reports whether id has the shape produced by SessionID.
func IsValidSessionID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.Version() == 4
}

// ObjectKey builds a unique storage key under prefix, keeping the lower-cased extension.
// ObjectKey("covers", ".PNG") returns "covers/<uuid>.png".
func ObjectKey(prefix string, ext string) string {
	return fmt.Sprintf("%s/%s%s", strings.Trim(prefix, "/"), uuid.New().String(), strings.ToLower(ext))
}
