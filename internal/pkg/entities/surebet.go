package entities

import (
	"fmt"
	"time"
)

// eventTimeTolerance is how far apart the two prongs' event times may be
// and still be considered "the same event" (spec §3: "within a bounded
// tolerance, e.g., equal minute").
const eventTimeTolerance = time.Minute

// Surebet is a pair of Picks on opposing outcomes of the same event:
// sharp_prong (the reference price) and soft_prong (the delivery
// target), plus the upstream-reported profit and record id.
type Surebet struct {
	SharpProng Pick
	SoftProng  Pick
	Profit     float64
	RecordID   string
}

// NewSurebet validates that sharp and soft reference the same event
// within tolerance and constructs a Surebet. Role assignment (which
// prong is sharp, which is soft) is the feed parser's responsibility —
// by the time a Surebet reaches here, the roles are already decided.
func NewSurebet(sharp, soft Pick, profit float64, recordID string) (Surebet, error) {
	if recordID == "" {
		return Surebet{}, fmt.Errorf("entities: surebet is missing a record id")
	}
	delta := sharp.EventTime.Time().Sub(soft.EventTime.Time())
	if delta < -eventTimeTolerance || delta > eventTimeTolerance {
		return Surebet{}, fmt.Errorf("entities: surebet %s prongs' event times differ by %s, exceeds tolerance %s", recordID, delta, eventTimeTolerance)
	}
	return Surebet{SharpProng: sharp, SoftProng: soft, Profit: profit, RecordID: recordID}, nil
}
