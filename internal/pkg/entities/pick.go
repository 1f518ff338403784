package entities

import (
	"fmt"
	"strings"

	"github.com/surepulse/surepulse/internal/pkg/valuetypes"
)

// Pick is a concrete bet at one bookmaker on one event. It is immutable
// after construction; any "change" downstream is a new Pick value.
type Pick struct {
	HomeTeam    string
	AwayTeam    string
	Tournament  string
	EventTime   valuetypes.EventTime
	Market      valuetypes.Market
	Odds        valuetypes.Odds
	BookmakerID string
	DeepLink    string
}

// NewPick validates its inputs and constructs a Pick. deepLink is the
// feed's bookmaker-specific navigation URL for this prong, if any; it
// is never validated since an empty value is a legitimate "the feed
// didn't supply one" case.
func NewPick(home, away, tournament string, eventTime valuetypes.EventTime, market valuetypes.Market, odds valuetypes.Odds, bookmakerID, deepLink string) (Pick, error) {
	if home == "" || away == "" {
		return Pick{}, fmt.Errorf("entities: pick is missing a team name")
	}
	if bookmakerID == "" {
		return Pick{}, fmt.Errorf("entities: pick is missing a bookmaker id")
	}
	return Pick{
		HomeTeam:    home,
		AwayTeam:    away,
		Tournament:  tournament,
		EventTime:   eventTime,
		Market:      market,
		Odds:        odds,
		BookmakerID: bookmakerID,
		DeepLink:    deepLink,
	}, nil
}

// normalizedTeams canonicalizes team names for the dedup key: case
// folded, whitespace trimmed, and ordered so that a pick reported with
// the sides swapped still dedupes against its earlier arrival.
func normalizedTeams(home, away string) (string, string) {
	h := strings.ToLower(strings.TrimSpace(home))
	a := strings.ToLower(strings.TrimSpace(away))
	if h > a {
		return a, h
	}
	return h, a
}

// DedupKey returns the canonical dedup key:
// teams ∥ event_time ∥ market_kind ∥ variety ∥ bookmaker_id.
func (p Pick) DedupKey() string {
	return dedupKey(p.HomeTeam, p.AwayTeam, p.EventTime, p.Market, p.BookmakerID)
}

// OppositeDedupKeys returns the dedup keys of every opposite market of
// p's own kind, at the same event/bookmaker. Empty if p's kind has no
// opposites.
func (p Pick) OppositeDedupKeys() []string {
	opp := p.Market.Kind.Opposites()
	keys := make([]string, 0, len(opp))
	for _, k := range opp {
		m := p.Market
		m.Kind = k
		keys = append(keys, dedupKey(p.HomeTeam, p.AwayTeam, p.EventTime, m, p.BookmakerID))
	}
	return keys
}

func dedupKey(home, away string, eventTime valuetypes.EventTime, market valuetypes.Market, bookmakerID string) string {
	h, a := normalizedTeams(home, away)
	return strings.Join([]string{
		h + "/" + a,
		eventTime.Time().UTC().Format("2006-01-02T15:04"),
		string(market.Kind),
		market.Variety(),
		bookmakerID,
	}, "∥")
}
