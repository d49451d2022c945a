package logging

import (
	"log/slog"
	"strings"

	slogjournal "github.com/systemd/slog-journal"
)

func newJournalHandler(lvl *slog.LevelVar) (slog.Handler, error) {
	return slogjournal.NewHandler(&slogjournal.Options{
		Level: lvl,
		ReplaceGroup: func(key string) string {
			return journalKey(key)
		},
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			a.Key = journalKey(a.Key)
			return a
		},
	})
}

// journalKey maps an attribute key onto the journal's field alphabet
// (upper-case letters, digits and underscore).
func journalKey(key string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(key))
}
