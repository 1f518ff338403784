package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/surepulse/surepulse/internal/pkg/calculators"
	"github.com/surepulse/surepulse/internal/pkg/dedup"
	"github.com/surepulse/surepulse/internal/pkg/dispatch"
	"github.com/surepulse/surepulse/internal/pkg/entities"
	"github.com/surepulse/surepulse/internal/pkg/message"
	"github.com/surepulse/surepulse/internal/pkg/validation"
	"github.com/surepulse/surepulse/internal/pkg/valuetypes"
)

func mustOdds(t *testing.T, v float64) valuetypes.Odds {
	t.Helper()
	o, err := valuetypes.NewOdds(v)
	if err != nil {
		t.Fatalf("NewOdds(%v) error: %v", v, err)
	}
	return o
}

func mustEventTime(t *testing.T, now time.Time) valuetypes.EventTime {
	t.Helper()
	et, err := valuetypes.NewEventTime(now.Add(time.Hour), now)
	if err != nil {
		t.Fatalf("NewEventTime error: %v", err)
	}
	return et
}

func mustSurebet(t *testing.T, profit, sharpOdds, softOdds float64) *entities.Surebet {
	t.Helper()
	now := time.Now()
	market, err := valuetypes.NewMarket(valuetypes.MarketWin1, "", "", "", "", false)
	if err != nil {
		t.Fatalf("NewMarket error: %v", err)
	}
	et := mustEventTime(t, now)

	sharp, err := entities.NewPick("Home", "Away", "Tournament", et, market, mustOdds(t, sharpOdds), "sharp1", "")
	if err != nil {
		t.Fatalf("NewPick(sharp) error: %v", err)
	}
	soft, err := entities.NewPick("Home", "Away", "Tournament", et, market, mustOdds(t, softOdds), "soft1", "https://soft.example/event/1")
	if err != nil {
		t.Fatalf("NewPick(soft) error: %v", err)
	}

	sb, err := entities.NewSurebet(sharp, soft, profit, "record-1")
	if err != nil {
		t.Fatalf("NewSurebet error: %v", err)
	}
	return &sb
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	registry, err := entities.NewRegistry([]entities.Bookmaker{
		mustBookmaker(t, "sharp1", entities.RoleSharp, ""),
		mustBookmaker(t, "soft1", entities.RoleSoft, "-100"),
	})
	if err != nil {
		t.Fatalf("NewRegistry error: %v", err)
	}

	return New(Deps{
		Bookmakers:      registry,
		Chain:           validation.NewChain(),
		Store:           dedup.NewMemStore(),
		Calculators:     calculators.NewRegistry(),
		Builder:         message.NewBuilder(time.Minute, 16),
		Dispatcher:      dispatch.NewDispatcher(10, nil, nil),
		ConcurrentPicks: 4,
		MinOdds:         1.10,
		MaxOdds:         9.99,
		MinProfit:       -1.0,
		MaxProfit:       25.0,
	})
}

func mustBookmaker(t *testing.T, id string, role entities.Role, channel string) entities.Bookmaker {
	t.Helper()
	b, err := entities.NewBookmaker(id, role, channel)
	if err != nil {
		t.Fatalf("NewBookmaker error: %v", err)
	}
	return b
}

func TestPipeline_ProcessOne_EnqueuesAQualifyingPick(t *testing.T) {
	p := newTestPipeline(t)
	sb := mustSurebet(t, 3.0, 2.0, 2.1)

	if err := p.processOne(context.Background(), sb); err != nil {
		t.Fatalf("processOne() error: %v", err)
	}

	if got := p.deps.Stats.Sent.Load(); got != 1 {
		t.Errorf("Sent = %d, want 1", got)
	}
}

func TestPipeline_ProcessOne_DropsBelowMinimumOdds(t *testing.T) {
	p := newTestPipeline(t)
	// Sharp 2.0 gives a minimum of 1/(1.01-0.5) ≈ 1.96; 1.50 is inside the
	// odds-range link's [1.10, 9.99], so only the minimum-odds check drops it.
	sb := mustSurebet(t, 3.0, 2.0, 1.50)

	if err := p.processOne(context.Background(), sb); err != nil {
		t.Fatalf("processOne() error: %v", err)
	}

	if got := p.deps.Stats.Sent.Load(); got != 0 {
		t.Errorf("Sent = %d, want 0 for a soft price below the minimum acceptable", got)
	}
}

func TestPipeline_ProcessOne_SecondIdenticalPickIsDeduped(t *testing.T) {
	p := newTestPipeline(t)

	first := mustSurebet(t, 3.0, 2.0, 2.1)
	if err := p.processOne(context.Background(), first); err != nil {
		t.Fatalf("processOne(first) error: %v", err)
	}

	second := mustSurebet(t, 3.0, 2.0, 2.1)
	if err := p.processOne(context.Background(), second); err != nil {
		t.Fatalf("processOne(second) error: %v", err)
	}

	if got := p.deps.Stats.Sent.Load(); got != 1 {
		t.Errorf("Sent = %d, want 1 (second identical pick should be deduped)", got)
	}
	if got := p.deps.Stats.Deduped.Load(); got != 1 {
		t.Errorf("Deduped = %d, want 1", got)
	}
}

func TestPipeline_ProcessOne_RecordsOppositeMarketDedupKeys(t *testing.T) {
	p := newTestPipeline(t)
	sb := mustSurebet(t, 3.0, 2.0, 2.1)

	if err := p.processOne(context.Background(), sb); err != nil {
		t.Fatalf("processOne() error: %v", err)
	}

	opposites := sb.SoftProng.OppositeDedupKeys()
	if len(opposites) == 0 {
		t.Fatalf("OppositeDedupKeys() returned none, test needs a market with at least one opposite")
	}
	exists, err := p.deps.Store.ExistsAny(context.Background(), opposites...)
	if err != nil {
		t.Fatalf("ExistsAny() error: %v", err)
	}
	if !exists {
		t.Errorf("ExistsAny(opposite keys) = false after a successful send, want true")
	}
}
