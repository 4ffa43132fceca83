package imaging

import "strings"

// Log is the provenance trail of a TypedImage: one human-readable entry per
// operation that produced it. A Log value is never modified after creation;
// With returns a new Log, so results derived from the same source never see
// each other's entries.
type Log struct {
	entries []string
}

// NewLog builds a log holding the given entries.
func NewLog(entries ...string) Log {
	return Log{entries: append([]string(nil), entries...)}
}

// With returns a copy of the log extended by one entry.
func (l Log) With(entry string) Log {
	next := make([]string, len(l.entries)+1)
	copy(next, l.entries)
	next[len(l.entries)] = entry
	return Log{entries: next}
}

// Entries returns a copy of the entries in order.
func (l Log) Entries() []string {
	return append([]string(nil), l.entries...)
}

// Len returns the number of entries.
func (l Log) Len() int { return len(l.entries) }

// Last returns the most recent entry, or "" for an empty log.
func (l Log) Last() string {
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1]
}

// String joins the entries with newlines.
func (l Log) String() string {
	return strings.Join(l.entries, "\n")
}
