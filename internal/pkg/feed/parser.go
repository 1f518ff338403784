package feed

import (
	"fmt"
	"time"

	"github.com/surepulse/surepulse/internal/pkg/entities"
	"github.com/surepulse/surepulse/internal/pkg/valuetypes"
)

// Discard describes a raw record the parser declined to turn into a
// Surebet, and why — the parser never panics or returns an error for a
// single malformed record (spec §4.5: "does not raise on partial data").
type Discard struct {
	RecordID string
	Reason   string
}

// Parser maps raw feed records into entities.Surebet, assigning sharp/soft
// roles via the configured set of sharp bookmaker ids.
type Parser struct {
	sharpIDs map[string]struct{}
}

// NewParser builds a Parser that treats any bookmaker id in sharpIDs as
// the reference (sharp) side.
func NewParser(sharpIDs []string) *Parser {
	m := make(map[string]struct{}, len(sharpIDs))
	for _, id := range sharpIDs {
		m[id] = struct{}{}
	}
	return &Parser{sharpIDs: m}
}

// Parse converts records into Surebets, returning one Discard per
// record that couldn't be converted.
func (p *Parser) Parse(records []RawRecord, now time.Time) ([]entities.Surebet, []Discard) {
	surebets := make([]entities.Surebet, 0, len(records))
	discards := make([]Discard, 0)
	for _, r := range records {
		sb, reason := p.parseOne(r, now)
		if reason != "" {
			discards = append(discards, Discard{RecordID: r.ID, Reason: reason})
			continue
		}
		surebets = append(surebets, sb)
	}
	return surebets, discards
}

func (p *Parser) parseOne(r RawRecord, now time.Time) (entities.Surebet, string) {
	if len(r.Prongs) != 2 {
		return entities.Surebet{}, fmt.Sprintf("expected 2 prongs, got %d", len(r.Prongs))
	}

	var sharpIdx, softIdx int
	sharpCount := 0
	for i, prong := range r.Prongs {
		if _, isSharp := p.sharpIDs[prong.Bookmaker]; isSharp {
			sharpIdx = i
			sharpCount++
		} else {
			softIdx = i
		}
	}
	if sharpCount != 1 {
		return entities.Surebet{}, fmt.Sprintf("record has %d sharp prongs, want exactly 1", sharpCount)
	}

	sharpPick, err := p.buildPick(r.Prongs[sharpIdx], now)
	if err != nil {
		return entities.Surebet{}, fmt.Sprintf("sharp prong: %v", err)
	}
	softPick, err := p.buildPick(r.Prongs[softIdx], now)
	if err != nil {
		return entities.Surebet{}, fmt.Sprintf("soft prong: %v", err)
	}

	sb, err := entities.NewSurebet(sharpPick, softPick, r.Profit, r.ID)
	if err != nil {
		return entities.Surebet{}, err.Error()
	}
	return sb, ""
}

func (p *Parser) buildPick(prong RawProng, now time.Time) (entities.Pick, error) {
	odds, err := valuetypes.NewOdds(prong.Value)
	if err != nil {
		return entities.Pick{}, fmt.Errorf("odds: %w", err)
	}
	eventTime, err := valuetypes.NewEventTime(time.UnixMilli(prong.Time), now)
	if err != nil {
		return entities.Pick{}, fmt.Errorf("event time: %w", err)
	}
	kind := valuetypes.ParseMarketKind(prong.Type.Kind)
	market, err := valuetypes.NewMarket(kind, prong.Type.Condition, prong.Type.Period, prong.Type.Base, prong.Type.Game, prong.Type.Negated)
	if err != nil {
		return entities.Pick{}, fmt.Errorf("market: %w", err)
	}
	var deepLink string
	if prong.EventNav != nil {
		deepLink = *prong.EventNav
	}
	return entities.NewPick(prong.Teams[0], prong.Teams[1], prong.Tournament, eventTime, market, odds, prong.Bookmaker, deepLink)
}
