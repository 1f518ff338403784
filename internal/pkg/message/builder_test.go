package message

import (
	"strings"
	"testing"
	"time"

	"github.com/surepulse/surepulse/internal/pkg/calculators"
	"github.com/surepulse/surepulse/internal/pkg/entities"
	"github.com/surepulse/surepulse/internal/pkg/valuetypes"
)

func mustSoftPick(t *testing.T, now time.Time) entities.Pick {
	t.Helper()
	et, err := valuetypes.NewEventTime(now.Add(time.Hour), now)
	if err != nil {
		t.Fatalf("NewEventTime: %v", err)
	}
	m, err := valuetypes.NewMarket(valuetypes.MarketOver, "2.5", "full-time", "", "regular", false)
	if err != nil {
		t.Fatalf("NewMarket: %v", err)
	}
	o, err := valuetypes.NewOdds(2.10)
	if err != nil {
		t.Fatalf("NewOdds: %v", err)
	}
	p, err := entities.NewPick("Team <A>", "Team B", "Cup & Friends", et, m, o, "bookmaker-ru", "")
	if err != nil {
		t.Fatalf("NewPick: %v", err)
	}
	return p
}

func TestBuilder_EscapesHTML(t *testing.T) {
	now := time.Now()
	b := NewBuilder(time.Minute, 10)
	minOdds, _ := valuetypes.NewOdds(1.97)

	out := b.Build(mustSoftPick(t, now), calculators.TierMediumHigh, minOdds, "https://site/ru/event/1", now)
	if strings.Contains(out, "<A>") {
		t.Errorf("Build() output contains unescaped team name: %q", out)
	}
	if !strings.Contains(out, "&lt;A&gt;") {
		t.Errorf("Build() output missing escaped team name, got: %q", out)
	}
}

func TestBuilder_AppliesURLAdjustment(t *testing.T) {
	now := time.Now()
	b := NewBuilder(time.Minute, 10)
	minOdds, _ := valuetypes.NewOdds(1.97)

	out := b.Build(mustSoftPick(t, now), calculators.TierMediumHigh, minOdds, "https://site/ru/event/1", now)
	if strings.Contains(out, "/ru/") {
		t.Errorf("Build() output still contains unadjusted /ru/ path: %q", out)
	}
	if !strings.Contains(out, "/en/") {
		t.Errorf("Build() output missing adjusted /en/ path: %q", out)
	}
}

func TestBuilder_StaticPartCachedAcrossCalls(t *testing.T) {
	now := time.Now()
	b := NewBuilder(time.Minute, 10)
	minOdds, _ := valuetypes.NewOdds(1.97)
	pick := mustSoftPick(t, now)

	first := b.Build(pick, calculators.TierMediumHigh, minOdds, "https://site/ru/event/1", now)
	second := b.Build(pick, calculators.TierLow, minOdds, "https://site/ru/event/999-different", now)

	// Dynamic parts differ (different tier), but the static part (which
	// ignores the second call's different deep link) must be identical,
	// proving it came from the cache rather than being re-rendered.
	if first == second {
		t.Errorf("expected dynamic parts to differ between calls")
	}
	staticPart := func(s string) string {
		parts := strings.SplitN(s, "\n", 2)
		return parts[1]
	}
	if staticPart(first) != staticPart(second) {
		t.Errorf("static part changed despite cache hit:\nfirst:  %q\nsecond: %q", staticPart(first), staticPart(second))
	}
}

func TestBuilder_UnknownBookmakerURLPassesThrough(t *testing.T) {
	if got, want := adjustURL("unknown-bookmaker", "https://site/x/1"), "https://site/x/1"; got != want {
		t.Errorf("adjustURL(unknown) = %q, want %q", got, want)
	}
}
