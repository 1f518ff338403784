// Package pipeline wires the adaptive poller, feed parser, validation
// chain, calculators, message builder and priority dispatcher into the
// per-cycle loop spec §4.8 describes. It is the orchestrator (C10);
// every other package is usable standalone, but this is where their
// lifecycles and data flow meet, grounded on the teacher's
// cmd/calculator/main.go construction-then-Start shape generalized into
// a reusable type rather than inlined in main.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/surepulse/surepulse/internal/pkg/calculators"
	"github.com/surepulse/surepulse/internal/pkg/dedup"
	"github.com/surepulse/surepulse/internal/pkg/dispatch"
	"github.com/surepulse/surepulse/internal/pkg/entities"
	"github.com/surepulse/surepulse/internal/pkg/feed"
	"github.com/surepulse/surepulse/internal/pkg/health"
	"github.com/surepulse/surepulse/internal/pkg/message"
	"github.com/surepulse/surepulse/internal/pkg/metrics"
	"github.com/surepulse/surepulse/internal/pkg/validation"
)

// Deps bundles every component the orchestrator drives. Health may be
// nil if ops visibility is disabled; Stats and Log may be nil, and zero
// ConcurrentPicks or StatsInterval take defaults (see New). Every other
// component field is required.
type Deps struct {
	Bookmakers  *entities.Registry
	Poller      *feed.Client
	Parser      *feed.Parser
	Chain       *validation.Chain
	Store       dedup.Store
	Calculators *calculators.Registry
	Builder     *message.Builder
	Dispatcher  *dispatch.Dispatcher
	Health      *health.Server

	// Stats collects the periodic counters. If nil, New allocates one;
	// callers that also hand the pipeline's counters to health.New
	// should construct it themselves and share the pointer.
	Stats *health.Stats

	ConcurrentPicks int
	MinOdds         float64
	MaxOdds         float64
	MinProfit       float64
	MaxProfit       float64
	StatsInterval   time.Duration

	Log *slog.Logger
}

// Pipeline is the C10 orchestrator: it owns the polling loop and drives
// every pick through parse -> validate -> calculate -> build -> enqueue.
type Pipeline struct {
	deps Deps
}

// New constructs a Pipeline ready to Run. It does not start anything.
func New(deps Deps) *Pipeline {
	if deps.ConcurrentPicks <= 0 {
		deps.ConcurrentPicks = 250
	}
	if deps.StatsInterval <= 0 {
		deps.StatsInterval = 10 * time.Second
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.Stats == nil {
		deps.Stats = &health.Stats{}
	}
	return &Pipeline{deps: deps}
}

// Run performs the C10 startup sequence and then loops: fetch, parse,
// bounded fan-out processing, sleep for the poller's adaptive interval,
// repeat. It returns when ctx is cancelled, after waiting up to a grace
// period for the dispatcher loop to stop (see Dispatcher.Shutdown).
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.deps.Poller.LoadCursor(ctx); err != nil {
		return err
	}

	p.deps.Dispatcher.Run(ctx)

	statsTicker := time.NewTicker(p.deps.StatsInterval)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.deps.Dispatcher.Shutdown(5 * time.Second)
			return nil
		case <-statsTicker.C:
			p.logStats()
		default:
		}

		cycleStart := time.Now()
		records := p.deps.Poller.FetchOnce(ctx)
		metrics.PicksReceived.Add(float64(len(records)))
		p.deps.Stats.Received.Add(int64(len(records)))

		surebets, discards := p.deps.Parser.Parse(records, time.Now())
		for _, d := range discards {
			metrics.RecordParsed(true)
			p.deps.Stats.Discarded.Add(1)
			p.deps.Log.Debug("pipeline: discarded malformed record", "record_id", d.RecordID, "reason", d.Reason)
		}
		for range surebets {
			metrics.RecordParsed(false)
		}
		p.deps.Stats.Parsed.Add(int64(len(surebets)))

		if err := p.processCycle(ctx, surebets); err != nil {
			p.deps.Log.Warn("pipeline: cycle finished with errors", "error", err)
		}

		metrics.RecordPollCycle(time.Since(cycleStart))

		select {
		case <-ctx.Done():
			p.deps.Dispatcher.Shutdown(5 * time.Second)
			return nil
		case <-time.After(p.deps.Poller.NextInterval()):
		}
	}
}

// processCycle fans surebets out across at most ConcurrentPicks
// goroutines, per spec §4.8's bounded-fan-out requirement, and returns
// the first operational error processOne reported once every pick has
// finished, so one cycle's failures are visible without aborting the
// others.
func (p *Pipeline) processCycle(ctx context.Context, surebets []entities.Surebet) error {
	var g errgroup.Group
	g.SetLimit(p.deps.ConcurrentPicks)

	for i := range surebets {
		sb := surebets[i]
		g.Go(func() error {
			return p.processOne(ctx, &sb)
		})
	}
	return g.Wait()
}

// processOne drives a single surebet through validate -> calculate ->
// build -> enqueue. A non-nil return means an operational failure
// (a validation chain query error); ordinary business-rule rejections
// (odds out of range, stake tier out of range, queue overflow) are
// logged and dropped without being treated as errors.
func (p *Pipeline) processOne(ctx context.Context, sb *entities.Surebet) error {
	deps := validation.Deps{
		Store:     p.deps.Store,
		MinOdds:   p.deps.MinOdds,
		MaxOdds:   p.deps.MaxOdds,
		MinProfit: p.deps.MinProfit,
		MaxProfit: p.deps.MaxProfit,
	}

	dedupCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	ok, failedLink, reason, err := p.deps.Chain.Run(dedupCtx, sb, deps)
	cancel()
	if err != nil {
		p.deps.Log.Warn("pipeline: validation chain error", "record_id", sb.RecordID, "link", failedLink, "error", err)
		p.drop("error", sb)
		return fmt.Errorf("pipeline: validation chain for record %s: %w", sb.RecordID, err)
	}
	if !ok {
		metrics.RecordValidation(false, failedLink)
		p.deps.Stats.ValidationFails.Add(1)
		if failedLink == "dedup" || failedLink == "opposite-market" {
			metrics.PicksDeduped.Inc()
			p.deps.Stats.Deduped.Add(1)
		}
		p.deps.Log.Debug("pipeline: rejected by validation chain", "record_id", sb.RecordID, "link", failedLink, "reason", reason)
		return nil
	}
	metrics.RecordValidation(true, "")

	calc := p.deps.Calculators.For(sb.SharpProng.BookmakerID)
	_, minOdds, err := calc.MinAcceptableOdds(sb.SharpProng.Odds)
	if err != nil {
		p.deps.Log.Debug("pipeline: sharp odds too skewed", "record_id", sb.RecordID, "error", err)
		p.drop("sharp-too-skewed", sb)
		return nil
	}
	if sb.SoftProng.Odds.Value() < minOdds.Value() {
		p.deps.Log.Debug("pipeline: soft odds below minimum acceptable", "record_id", sb.RecordID, "soft", sb.SoftProng.Odds, "min", minOdds)
		p.drop("below-min-odds", sb)
		return nil
	}

	tier, err := calculators.StakeTierFromProfit(sb.Profit)
	if err != nil {
		p.deps.Log.Debug("pipeline: profit outside stake-tier range", "record_id", sb.RecordID, "error", err)
		p.drop("stake-tier-range", sb)
		return nil
	}

	bookmaker, _ := p.deps.Bookmakers.Lookup(sb.SoftProng.BookmakerID)
	body := p.deps.Builder.Build(sb.SoftProng, tier, minOdds, sb.SoftProng.DeepLink, time.Now())

	enqueued := p.deps.Dispatcher.Enqueue(bookmaker.ChannelID, body, sb.Profit, time.Now())
	if !enqueued {
		p.drop("overflow", sb)
		return nil
	}

	p.recordDedup(ctx, sb)
	metrics.PicksSent.Inc()
	p.deps.Stats.Sent.Add(1)
	if p.deps.Health != nil {
		p.deps.Health.Notify(health.DeliveryEvent{RecordID: sb.RecordID, Outcome: "sent", Profit: sb.Profit})
	}
	return nil
}

// recordDedup writes the soft prong's dedup key and every opposite-market
// dedup key to the store, per spec §4.8 step 5: a later pick on the
// opposite side of this same market must see its own dedup/opposite keys
// already present and be rejected by the validation chain.
func (p *Pipeline) recordDedup(ctx context.Context, sb *entities.Surebet) {
	ttl := sb.SoftProng.EventTime.Time().Sub(time.Now())
	if ttl < time.Second {
		ttl = time.Second
	}
	recordCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	keys := append([]string{sb.SoftProng.DedupKey()}, sb.SoftProng.OppositeDedupKeys()...)
	for _, key := range keys {
		if err := p.deps.Store.Record(recordCtx, key, ttl); err != nil {
			p.deps.Log.Warn("pipeline: failed to record dedup key", "record_id", sb.RecordID, "key", key, "error", err)
		}
	}
}

func (p *Pipeline) drop(reason string, sb *entities.Surebet) {
	metrics.RecordDropped(reason)
	if reason == "overflow" {
		p.deps.Stats.DroppedOverflow.Add(1)
	} else {
		p.deps.Stats.DroppedError.Add(1)
	}
	if p.deps.Health != nil {
		p.deps.Health.Notify(health.DeliveryEvent{RecordID: sb.RecordID, Outcome: "dropped_" + reason, Profit: sb.Profit})
	}
}

func (p *Pipeline) logStats() {
	snap := p.deps.Stats.Snapshot()
	p.deps.Log.Info("pipeline: periodic stats",
		"received", snap.Received,
		"parsed", snap.Parsed,
		"discarded", snap.Discarded,
		"validation_fails", snap.ValidationFails,
		"deduped", snap.Deduped,
		"sent", snap.Sent,
		"dropped_overflow", snap.DroppedOverflow,
		"dropped_error", snap.DroppedError,
	)
}

// Stats exposes the running counters, so main can hand the same struct
// to the health server for the /stats endpoint.
func (p *Pipeline) Stats() *health.Stats {
	return p.deps.Stats
}
