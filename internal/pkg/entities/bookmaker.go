// Package entities implements Pick, Surebet and Bookmaker: the domain
// objects a parsed feed record becomes before it reaches the validation
// chain. Every constructor validates and every value is immutable —
// bookmaker lookups go through a caller-owned registry rather than a
// cyclic pick-to-bookmaker reference (spec §9's "flatten to values that
// carry identifiers").
package entities

import "fmt"

// Role classifies a Bookmaker as the reference price source (sharp) or a
// target for value plays (soft).
type Role string

const (
	RoleSharp Role = "sharp"
	RoleSoft  Role = "soft"
)

// Bookmaker is an identifier, a role, and — for softs — the chat channel
// picks against it are delivered to.
type Bookmaker struct {
	ID        string
	Role      Role
	ChannelID string
}

// NewBookmaker validates id and role. channelID may be empty for sharps;
// it is not checked here — config.Config.Validate enforces that every
// target bookie has a bookmaker_channels entry.
func NewBookmaker(id string, role Role, channelID string) (Bookmaker, error) {
	if id == "" {
		return Bookmaker{}, fmt.Errorf("entities: bookmaker id is empty")
	}
	if role != RoleSharp && role != RoleSoft {
		return Bookmaker{}, fmt.Errorf("entities: bookmaker %q has unknown role %q", id, role)
	}
	return Bookmaker{ID: id, Role: role, ChannelID: channelID}, nil
}

// Registry is the caller-owned lookup table bookmaker ids resolve
// through. It is built once at startup from configuration and never
// mutated afterward, so it needs no locking.
type Registry struct {
	byID map[string]Bookmaker
}

// NewRegistry builds a Registry from a list of bookmakers, rejecting
// duplicate ids.
func NewRegistry(bookmakers []Bookmaker) (*Registry, error) {
	byID := make(map[string]Bookmaker, len(bookmakers))
	for _, b := range bookmakers {
		if _, exists := byID[b.ID]; exists {
			return nil, fmt.Errorf("entities: duplicate bookmaker id %q", b.ID)
		}
		byID[b.ID] = b
	}
	return &Registry{byID: byID}, nil
}

// Lookup returns the Bookmaker registered under id.
func (r *Registry) Lookup(id string) (Bookmaker, bool) {
	b, ok := r.byID[id]
	return b, ok
}
