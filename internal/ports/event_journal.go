package ports

// EventJournal records every broadcast event so a run can be replayed from
// its tick sequence. Append must be safe for concurrent use.
type EventJournal interface {
	Append(v any) error
	Close() error
}
