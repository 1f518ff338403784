package health

import "sync/atomic"

// Stats holds the periodic counters spec §4.8 requires: picks received,
// parsed, validated, deduped, sent, dropped-by-overflow, dropped-by-error.
// Fields are plain atomics rather than a mutex-guarded struct, since each
// is updated independently and read only for the periodic log line / the
// /stats endpoint.
type Stats struct {
	Received        atomic.Int64
	Parsed          atomic.Int64
	Discarded       atomic.Int64
	ValidationFails atomic.Int64
	Deduped         atomic.Int64
	Sent            atomic.Int64
	DroppedOverflow atomic.Int64
	DroppedError    atomic.Int64
}

// Snapshot is the JSON-serializable view of Stats exposed over HTTP.
type Snapshot struct {
	Received        int64 `json:"received"`
	Parsed          int64 `json:"parsed"`
	Discarded       int64 `json:"discarded"`
	ValidationFails int64 `json:"validation_fails"`
	Deduped         int64 `json:"deduped"`
	Sent            int64 `json:"sent"`
	DroppedOverflow int64 `json:"dropped_overflow"`
	DroppedError    int64 `json:"dropped_error"`
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Received:        s.Received.Load(),
		Parsed:          s.Parsed.Load(),
		Discarded:       s.Discarded.Load(),
		ValidationFails: s.ValidationFails.Load(),
		Deduped:         s.Deduped.Load(),
		Sent:            s.Sent.Load(),
		DroppedOverflow: s.DroppedOverflow.Load(),
		DroppedError:    s.DroppedError.Load(),
	}
}
