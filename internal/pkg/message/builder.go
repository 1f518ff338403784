package message

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/surepulse/surepulse/internal/pkg/calculators"
	"github.com/surepulse/surepulse/internal/pkg/entities"
	"github.com/surepulse/surepulse/internal/pkg/valuetypes"
)

// Builder renders the chat-ready HTML body for a soft-side Pick. It is
// pure given its inputs and cache state (spec §4.6).
type Builder struct {
	cache *staticCache
}

// NewBuilder constructs a Builder whose static-part cache uses ttl and
// is bounded to maxEntries, with LRU eviction on overflow.
func NewBuilder(ttl time.Duration, maxEntries int) *Builder {
	return &Builder{cache: newStaticCache(ttl, maxEntries)}
}

// Build composes dynamic then static parts in a fixed layout. deepLink
// is the bookmaker's raw event link, before per-bookmaker adjustment.
func (b *Builder) Build(soft entities.Pick, tier calculators.StakeTier, minOdds valuetypes.Odds, deepLink string, now time.Time) string {
	dynamic := b.renderDynamic(soft, tier, minOdds)
	static := b.renderStatic(soft, deepLink, now)
	return dynamic + "\n" + static
}

func (b *Builder) renderDynamic(soft entities.Pick, tier calculators.StakeTier, minOdds valuetypes.Odds) string {
	return fmt.Sprintf("%s <b>%s</b> odds %s (min %s)",
		tier.Indicator(),
		html.EscapeString(string(soft.Market.Kind)),
		soft.Odds.String(),
		minOdds.String(),
	)
}

func (b *Builder) renderStatic(soft entities.Pick, deepLink string, now time.Time) string {
	key := staticKey(soft)
	if cached, ok := b.cache.get(key, now); ok {
		return cached
	}

	link := adjustURL(soft.BookmakerID, deepLink)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s vs %s\n", html.EscapeString(soft.HomeTeam), html.EscapeString(soft.AwayTeam))
	fmt.Fprintf(&sb, "%s\n", html.EscapeString(soft.Tournament))
	fmt.Fprintf(&sb, "%s", soft.EventTime.Time().UTC().Format("2006-01-02 15:04 UTC"))
	if link != "" {
		fmt.Fprintf(&sb, "\n<a href=\"%s\">%s</a>", html.EscapeString(link), html.EscapeString(soft.BookmakerID))
	}
	rendered := sb.String()

	b.cache.set(key, rendered, now)
	return rendered
}

func staticKey(p entities.Pick) string {
	return strings.Join([]string{
		p.HomeTeam, p.AwayTeam, p.EventTime.Time().UTC().Format(time.RFC3339), p.BookmakerID,
	}, "∥")
}
