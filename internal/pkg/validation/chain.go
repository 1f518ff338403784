// Package validation implements the ordered, fail-fast pick validation
// chain of spec §4.4. A fixed-order sequence of validator values
// replaces the source implementation's validator class hierarchy (spec
// §9's translation note), assembled as a plain slice.
package validation

import (
	"context"

	"github.com/surepulse/surepulse/internal/pkg/entities"
)

// Deps carries the dependencies validators 5 and 6 need (the dedup
// store); links 1-4 ignore it.
type Deps struct {
	Store interface {
		ExistsAny(ctx context.Context, keys ...string) (bool, error)
	}
	MinOdds, MaxOdds     float64
	MinProfit, MaxProfit float64
}

// Link is a single ordered step. It returns pass=true to continue the
// chain, or pass=false with reason set to the first violated contract.
type Link struct {
	Name  string
	Check func(ctx context.Context, sb *entities.Surebet, deps Deps) (pass bool, reason string, err error)
}

// Chain is a builder over an ordered list of Links.
type Chain struct {
	links []Link
}

// NewChain returns a Chain pre-loaded with the six links spec §4.4
// mandates, in the mandated order (cheap CPU checks before I/O).
func NewChain() *Chain {
	c := &Chain{}
	c.Add(Link{Name: "odds-range", Check: checkOddsRange})
	c.Add(Link{Name: "profit-range", Check: checkProfitRange})
	c.Add(Link{Name: "event-future", Check: checkEventFuture})
	c.Add(Link{Name: "roles-present", Check: checkRolesPresent})
	c.Add(Link{Name: "dedup", Check: checkDedup})
	c.Add(Link{Name: "opposite-market", Check: checkOppositeMarket})
	return c
}

// Add appends link to the end of the chain and returns the chain, so
// calls can be composed fluently.
func (c *Chain) Add(link Link) *Chain {
	c.links = append(c.links, link)
	return c
}

// Remove deletes the link with the given name, if present. Exists for
// tests that need to isolate a subset of the chain.
func (c *Chain) Remove(name string) *Chain {
	out := c.links[:0:0]
	for _, l := range c.links {
		if l.Name != name {
			out = append(out, l)
		}
	}
	c.links = out
	return c
}

// Run evaluates the chain against sb in order, stopping at the first
// failure. ok is false either because a link failed its business rule
// (reason explains which) or because a link itself errored (err is set,
// reason is empty) — callers should treat both as "drop the pick", per
// spec §4.3's conservative error policy for membership queries.
func (c *Chain) Run(ctx context.Context, sb *entities.Surebet, deps Deps) (ok bool, failedLink string, reason string, err error) {
	for _, link := range c.links {
		pass, reason, err := link.Check(ctx, sb, deps)
		if err != nil {
			return false, link.Name, "", err
		}
		if !pass {
			return false, link.Name, reason, nil
		}
	}
	return true, "", "", nil
}
