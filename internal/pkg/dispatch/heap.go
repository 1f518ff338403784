// Package dispatch implements the priority dispatcher (C9) of spec §4.7:
// a bounded max-heap keyed on (profit desc, enqueue_time asc), a pool of
// outbound bot identities behind per-bot token buckets, and the
// retry/backoff/bot-rotation policy for transient delivery failures.
// Grounded on the teacher's internal/calculator/calculator/telegram_notifier.go
// (single-bot queue/worker shape, generalized here to N bots per
// original_source's infrastructure/messaging/telegram_gateway.py).
package dispatch

import (
	"container/heap"
	"time"
)

// Entry is one enqueued delivery.
type Entry struct {
	ID          string // correlation id, assigned at Enqueue
	ChannelID   string
	Body        string
	Profit      float64
	EnqueueTime time.Time
	Attempts    int
	NotBefore   time.Time // set on transient-failure requeue
}

// entryHeap is a container/heap.Interface max-heap ordered by
// (profit desc, enqueue_time asc) — spec §4.7/§8's ordering guarantee.
type entryHeap []*Entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].Profit != h[j].Profit {
		return h[i].Profit > h[j].Profit // max-heap on profit
	}
	return h[i].EnqueueTime.Before(h[j].EnqueueTime) // earlier enqueue wins ties
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(*Entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func entryLess(a, b *Entry) bool {
	if a.Profit != b.Profit {
		return a.Profit < b.Profit
	}
	return a.EnqueueTime.After(b.EnqueueTime)
}

var _ = heap.Interface(&entryHeap{})
