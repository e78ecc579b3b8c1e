package backend

import (
	"context"
	"strings"
)

// Type identifies a store implementation.
type Type string

const (
	SQLite   Type = "sqlite"
	Postgres Type = "postgres"
	Memory   Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

// Pinger is implemented by stores that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DetectType picks the store from a DATABASE_URL value. Postgres URLs and
// the literal "memory" are recognised; anything else is a SQLite file path.
func DetectType(databaseURL string) Type {
	u := strings.TrimSpace(databaseURL)
	lower := strings.ToLower(u)
	switch {
	case lower == "memory" || lower == ":memory:":
		return Memory
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return Postgres
	default:
		return SQLite
	}
}

// SQLitePath strips an optional sqlite:// or file: scheme from a database URL.
func SQLitePath(databaseURL string) string {
	u := strings.TrimSpace(databaseURL)
	for _, prefix := range []string{"sqlite://", "sqlite:", "file:"} {
		if strings.HasPrefix(strings.ToLower(u), prefix) {
			return u[len(prefix):]
		}
	}
	return u
}
