package entities

import (
	"testing"
	"time"

	"github.com/surepulse/surepulse/internal/pkg/valuetypes"
)

func mustPick(t *testing.T, home, away string, kind valuetypes.MarketKind, odds float64, bookmakerID string, now time.Time) Pick {
	t.Helper()
	et, err := valuetypes.NewEventTime(now.Add(time.Hour), now)
	if err != nil {
		t.Fatalf("NewEventTime: %v", err)
	}
	m, err := valuetypes.NewMarket(kind, "2.5", "full-time", "", "regular", false)
	if err != nil {
		t.Fatalf("NewMarket: %v", err)
	}
	o, err := valuetypes.NewOdds(odds)
	if err != nil {
		t.Fatalf("NewOdds: %v", err)
	}
	p, err := NewPick(home, away, "Test Cup", et, m, o, bookmakerID, "")
	if err != nil {
		t.Fatalf("NewPick: %v", err)
	}
	return p
}

func TestPick_DedupKey_NormalizesTeamOrderAndCase(t *testing.T) {
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	a := mustPick(t, "Team A", "Team B", valuetypes.MarketOver, 2.10, "soft1", now)
	b := mustPick(t, "  team b ", "TEAM A", valuetypes.MarketOver, 2.10, "soft1", now)
	if a.DedupKey() != b.DedupKey() {
		t.Errorf("DedupKey() differ for same pick reported with swapped/cased team names: %q vs %q", a.DedupKey(), b.DedupKey())
	}
}

func TestPick_OppositeDedupKeys(t *testing.T) {
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	over := mustPick(t, "A", "B", valuetypes.MarketOver, 2.10, "soft1", now)
	under := mustPick(t, "A", "B", valuetypes.MarketUnder, 2.10, "soft1", now)

	oppKeys := over.OppositeDedupKeys()
	if len(oppKeys) != 1 {
		t.Fatalf("OppositeDedupKeys() len = %d, want 1", len(oppKeys))
	}
	if oppKeys[0] != under.DedupKey() {
		t.Errorf("OppositeDedupKeys()[0] = %q, want %q", oppKeys[0], under.DedupKey())
	}
}

func TestPick_OppositeDedupKeys_NoneForUnopposedKind(t *testing.T) {
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	p := mustPick(t, "A", "B", valuetypes.MarketDraw, 2.10, "soft1", now)
	if got := p.OppositeDedupKeys(); len(got) != 0 {
		t.Errorf("OppositeDedupKeys() for unopposed kind = %v, want empty", got)
	}
}

func TestNewPick_RejectsMissingTeam(t *testing.T) {
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	et, _ := valuetypes.NewEventTime(now.Add(time.Hour), now)
	m, _ := valuetypes.NewMarket(valuetypes.MarketOver, "2.5", "full-time", "", "regular", false)
	o, _ := valuetypes.NewOdds(2.0)
	if _, err := NewPick("", "B", "Cup", et, m, o, "soft1", ""); err == nil {
		t.Errorf("NewPick with empty home team: got nil error, want error")
	}
}
