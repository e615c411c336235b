package services

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// maxIDAttempts bounds the suffix retries when a derived id is taken.
const maxIDAttempts = 5

// normalizeName lower-cases a product name and maps whitespace runs and
// path separators to a single underscore.
func normalizeName(name string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			sep = true
			continue
		}
		if sep {
			b.WriteByte('_')
			sep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// baseID derives the undisambiguated id for a name and creation instant.
func baseID(name string, createdAt time.Time) string {
	return normalizeName(name) + "_" + strconv.FormatInt(createdAt.Unix(), 10)
}

// randomSuffix returns 8 hex characters.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// docIDFromName strips any path and known extension from an index identifier.
func docIDFromName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	for _, ext := range []string{markdownExt, htmlExt} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
