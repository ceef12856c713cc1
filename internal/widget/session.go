package widget

import (
	"strings"

	"github.com/google/uuid"
)

// NewSessionID returns an opaque token for one conversation. Callers must not
// parse it.
func NewSessionID() string {
	return "session_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
