package dispatch

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Bot is one outbound identity: a sender, its per-bot token bucket
// (default 30 messages/s per spec §4.7), and the rate-limit cooldown a
// 429 response from the chat API imposes on it specifically.
type Bot struct {
	ID      string
	sender  Sender
	limiter *rate.Limiter

	mu             sync.Mutex
	rateLimitUntil time.Time
}

// NewBot constructs a Bot with the given per-second send rate.
func NewBot(id string, sender Sender, messagesPerSecond float64) *Bot {
	if messagesPerSecond <= 0 {
		messagesPerSecond = 30
	}
	return &Bot{
		ID:      id,
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(messagesPerSecond), 1),
	}
}

// coolingDown reports whether this bot is still within a 429-imposed
// cooldown window, and if so, how much longer.
func (b *Bot) coolingDown(now time.Time) (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if now.Before(b.rateLimitUntil) {
		return true, b.rateLimitUntil.Sub(now)
	}
	return false, 0
}

// markRateLimited sets this bot's cooldown to expire after d.
func (b *Bot) markRateLimited(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rateLimitUntil = time.Now().Add(d)
}
