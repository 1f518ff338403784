package dispatch

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/surepulse/surepulse/internal/pkg/metrics"
)

// backoffSchedule is the retry delay sequence: the delay before retry n
// is backoffSchedule[n-1]. With maxAttempts = 3 only the 100ms and 400ms
// steps are reached.
var backoffSchedule = []time.Duration{100 * time.Millisecond, 400 * time.Millisecond, 1600 * time.Millisecond}

const maxAttempts = 3

// sendDeadline bounds a single bot-send attempt, per spec §5: exceeding
// it counts as a transient failure, same as any other send error.
const sendDeadline = 5 * time.Second

// Dispatcher is the priority dispatcher (C9): a bounded max-heap drained
// by a single dispatch loop that hands each entry to the next bot in
// round-robin order (skipping any bot still in its rate-limit cooldown).
type Dispatcher struct {
	mu       sync.Mutex
	entries  entryHeap
	capacity int

	bots   []*Bot
	rrNext int // index of the next bot to try, rotated by nextBot

	wake chan struct{}
	log  *slog.Logger

	wg sync.WaitGroup
}

// NewDispatcher constructs a Dispatcher with the given heap capacity and
// bot pool. Bot order determines round-robin rotation order.
func NewDispatcher(capacity int, bots []*Bot, log *slog.Logger) *Dispatcher {
	if capacity <= 0 {
		capacity = 1000
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		capacity: capacity,
		bots:     bots,
		wake:     make(chan struct{}, 1),
		log:      log,
	}
}

// Enqueue admits entry per spec §4.7's policy: if under capacity, insert
// unconditionally; at capacity, insert only if entry.Profit strictly
// exceeds the current minimum, evicting that minimum. Returns false if
// rejected — the only sanctioned loss path for a healthy dispatcher.
func (d *Dispatcher) Enqueue(channelID, body string, profit float64, enqueueTime time.Time) bool {
	entry := &Entry{
		ID:          uuid.NewString(),
		ChannelID:   channelID,
		Body:        body,
		Profit:      profit,
		EnqueueTime: enqueueTime,
	}
	ok := d.enqueueEntry(entry)
	if ok {
		d.signalWake()
	}
	return ok
}

func (d *Dispatcher) enqueueEntry(entry *Entry) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.entries.Len() < d.capacity {
		heap.Push(&d.entries, entry)
		return true
	}

	minIdx := d.minIndexLocked()
	if minIdx < 0 || !entryLess(d.entries[minIdx], entry) {
		return false
	}
	heap.Remove(&d.entries, minIdx)
	heap.Push(&d.entries, entry)
	return true
}

func (d *Dispatcher) minIndexLocked() int {
	if len(d.entries) == 0 {
		return -1
	}
	minIdx := 0
	for i, e := range d.entries {
		if entryLess(e, d.entries[minIdx]) {
			minIdx = i
		}
	}
	return minIdx
}

func (d *Dispatcher) requeue(entry *Entry) {
	d.mu.Lock()
	heap.Push(&d.entries, entry)
	d.mu.Unlock()
	d.signalWake()
}

func (d *Dispatcher) popLocked() *Entry {
	if d.entries.Len() == 0 {
		return nil
	}
	return heap.Pop(&d.entries).(*Entry)
}

func (d *Dispatcher) signalWake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run starts the dispatch loop. It returns immediately; the loop stops
// when ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.wg.Add(1)
	go d.dispatchLoop(ctx)
}

// Shutdown waits up to grace for the dispatch loop to return after the
// ctx passed to Run has been cancelled. It does not cancel anything
// itself, and entries still queued when the loop stops are abandoned,
// not delivered.
func (d *Dispatcher) Shutdown(grace time.Duration) {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		d.log.Warn("dispatch: shutdown grace period elapsed with consumers still draining")
	}
}

// dispatchLoop pops the highest-priority ready entry and hands it to
// the next bot in round-robin order, per spec §4.7. Sends run one at a
// time on this goroutine, in pop order, so entries reach the chat in
// priority order; a slow send delays the entries behind it.
func (d *Dispatcher) dispatchLoop(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		d.mu.Lock()
		entry := d.popFirstReadyLocked()
		d.mu.Unlock()

		if entry == nil {
			select {
			case <-ctx.Done():
				return
			case <-d.wake:
			case <-time.After(200 * time.Millisecond):
			}
			continue
		}

		bot := d.nextBot(time.Now())
		if bot == nil {
			// Every bot is cooling down (or none are configured); put
			// the entry back and try again shortly.
			d.requeue(entry)
			select {
			case <-ctx.Done():
				return
			case <-time.After(200 * time.Millisecond):
			}
			continue
		}

		if err := bot.limiter.Wait(ctx); err != nil {
			d.requeue(entry)
			return
		}
		d.attemptDelivery(ctx, bot, entry)
	}
}

// nextBot returns the next bot in round-robin order that isn't in its
// rate-limit cooldown, advancing rrNext past it. Returns nil if every
// configured bot is cooling down, or none are configured.
func (d *Dispatcher) nextBot(now time.Time) *Bot {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < len(d.bots); i++ {
		idx := (d.rrNext + i) % len(d.bots)
		if cooling, _ := d.bots[idx].coolingDown(now); !cooling {
			d.rrNext = (idx + 1) % len(d.bots)
			return d.bots[idx]
		}
	}
	return nil
}

// popFirstReadyLocked pops the highest-priority entry whose NotBefore
// has elapsed, requeuing any not-yet-ready entries it skips over. Must
// be called with d.mu held.
func (d *Dispatcher) popFirstReadyLocked() *Entry {
	now := time.Now()
	var deferred []*Entry
	for d.entries.Len() > 0 {
		e := d.popLocked()
		if e.NotBefore.IsZero() || !e.NotBefore.After(now) {
			for _, de := range deferred {
				heap.Push(&d.entries, de)
			}
			return e
		}
		deferred = append(deferred, e)
	}
	for _, de := range deferred {
		heap.Push(&d.entries, de)
	}
	return nil
}

func (d *Dispatcher) attemptDelivery(ctx context.Context, bot *Bot, entry *Entry) {
	sendCtx, cancel := context.WithTimeout(ctx, sendDeadline)
	err := bot.sender.Send(sendCtx, entry.ChannelID, entry.Body)
	cancel()
	if err == nil {
		metrics.RecordDispatchLatency(entry.EnqueueTime)
		d.log.Info("dispatch: delivered", "entry_id", entry.ID, "bot", bot.ID, "profit", entry.Profit)
		return
	}

	sendErr, ok := err.(*SendError)
	if !ok {
		// A bare transport/context error, including a send that blew
		// through sendDeadline, is always transient: the bot identity
		// and channel are still good, only this attempt failed.
		sendErr = &SendError{Kind: FailureTransient, Err: err}
	}

	switch sendErr.Kind {
	case FailureRateLimited:
		bot.markRateLimited(sendErr.RetryAfter)
		d.requeue(entry) // unchanged priority/attempts; another bot may take it immediately
	case FailurePermanent:
		d.log.Warn("dispatch: dropping permanently failed entry", "entry_id", entry.ID, "bot", bot.ID, "error", sendErr.Err)
	case FailureTransient:
		entry.Attempts++
		if entry.Attempts >= maxAttempts {
			d.log.Warn("dispatch: dropping entry after exhausting retries", "entry_id", entry.ID, "attempts", entry.Attempts)
			return
		}
		delay := backoffSchedule[min(entry.Attempts-1, len(backoffSchedule)-1)]
		entry.NotBefore = time.Now().Add(delay)
		d.log.Info("dispatch: retrying entry after transient failure", "entry_id", entry.ID, "attempt", entry.Attempts, "delay", delay)
		d.requeue(entry)
	}
}
