package valuetypes

import (
	"fmt"
	"strings"
)

// MarketKind is a closed enumeration of bet kinds. The upstream feed's
// spec-mandated thirteen kinds (win1/win2, over/under, ah1/ah2, odd/even,
// yes/no, 1x/x2/12) are the ones this pipeline's opposite-market check
// acts on. The remainder below round out what the feed is known to
// actually emit; they carry no opposite unless documented, so they never
// participate in the rebound check either way.
type MarketKind string

const (
	MarketWin1  MarketKind = "win1"
	MarketWin2  MarketKind = "win2"
	MarketOver  MarketKind = "over"
	MarketUnder MarketKind = "under"
	MarketAH1   MarketKind = "ah1"
	MarketAH2   MarketKind = "ah2"
	MarketOdd   MarketKind = "odd"
	MarketEven  MarketKind = "even"
	MarketYes   MarketKind = "yes"
	MarketNo    MarketKind = "no"
	Market1X    MarketKind = "1x"
	MarketX2    MarketKind = "x2"
	Market12    MarketKind = "12"

	// Additional kinds the feed is known to emit, absent from the closed
	// thirteen-kind opposite table but still valid Pick markets.
	MarketDraw            MarketKind = "draw"
	MarketEOver           MarketKind = "eover"
	MarketEUnder          MarketKind = "eunder"
	MarketWin1RetX        MarketKind = "win1retx"
	MarketWin2RetX        MarketKind = "win2retx"
	MarketWinOnly1        MarketKind = "winonly1"
	MarketWinOnly2        MarketKind = "winonly2"
	MarketWin1ToNil       MarketKind = "win1tonil"
	MarketWin2ToNil       MarketKind = "win2tonil"
	MarketCleanSheet1     MarketKind = "clean_sheet_1"
	MarketCleanSheet2     MarketKind = "clean_sheet_2"
	MarketWin1Qualify     MarketKind = "win1_qualify"
	MarketWin2Qualify     MarketKind = "win2_qualify"
	MarketBetweenMarginH1 MarketKind = "betweenmarginh1"
	MarketBetweenMarginH2 MarketKind = "betweenmarginh2"
	MarketUnknown         MarketKind = "unknown"
)

// opposites is the closed relation from spec §6. Kinds not present here
// (the feed-only additions above) have no opposite.
var opposites = map[MarketKind][]MarketKind{
	MarketWin1:  {MarketWin2},
	MarketWin2:  {MarketWin1},
	MarketOver:  {MarketUnder},
	MarketUnder: {MarketOver},
	MarketAH1:   {MarketAH2},
	MarketAH2:   {MarketAH1},
	MarketOdd:   {MarketEven},
	MarketEven:  {MarketOdd},
	MarketYes:   {MarketNo},
	MarketNo:    {MarketYes},
	Market1X:    {MarketX2, Market12},
	MarketX2:    {Market1X, Market12},
	Market12:    {Market1X, MarketX2},
}

// Opposites returns the closed set of opposite kinds for k, or nil if k
// has none (either by definition, or because k is MarketUnknown).
func (k MarketKind) Opposites() []MarketKind {
	return opposites[k]
}

// HasOpposites reports whether k participates in the opposite-market
// relation at all.
func (k MarketKind) HasOpposites() bool {
	return len(opposites[k]) > 0
}

var knownKinds = func() map[MarketKind]struct{} {
	m := map[MarketKind]struct{}{
		MarketDraw: {}, MarketEOver: {}, MarketEUnder: {},
		MarketWin1RetX: {}, MarketWin2RetX: {}, MarketWinOnly1: {}, MarketWinOnly2: {},
		MarketWin1ToNil: {}, MarketWin2ToNil: {}, MarketCleanSheet1: {}, MarketCleanSheet2: {},
		MarketWin1Qualify: {}, MarketWin2Qualify: {}, MarketBetweenMarginH1: {}, MarketBetweenMarginH2: {},
		MarketUnknown: {},
	}
	for k := range opposites {
		m[k] = struct{}{}
	}
	return m
}()

// ParseMarketKind maps a raw feed "kind" string to a MarketKind, falling
// back to MarketUnknown rather than erroring — a market kind the feed
// hasn't documented yet must not fail the whole record (spec §4.5: the
// parser "does not raise on partial data").
func ParseMarketKind(raw string) MarketKind {
	k := MarketKind(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := knownKinds[k]; ok {
		return k
	}
	return MarketUnknown
}

// Market is a Pick's full bet description: kind plus the five qualifiers
// spec §3 lists alongside it.
type Market struct {
	Kind      MarketKind
	Condition string // e.g. a totals line such as "2.5"
	Period    string // e.g. "full-time", "1st-half"
	BaseSide  string // "home" or "away", when the kind is side-relative
	GamePhase string // e.g. "regular", "overtime"
	Negated   bool
}

// NewMarket validates and constructs a Market. Kind must not be empty;
// the caller is expected to have already run it through ParseMarketKind.
func NewMarket(kind MarketKind, condition, period, baseSide, gamePhase string, negated bool) (Market, error) {
	if kind == "" {
		return Market{}, fmt.Errorf("valuetypes: market kind is empty")
	}
	return Market{
		Kind:      kind,
		Condition: condition,
		Period:    period,
		BaseSide:  baseSide,
		GamePhase: gamePhase,
		Negated:   negated,
	}, nil
}

// Variety is the composite qualifier string used in the dedup key, so
// that two picks of the same Kind but different line/period/side are not
// treated as duplicates of each other.
func (m Market) Variety() string {
	neg := "0"
	if m.Negated {
		neg = "1"
	}
	return strings.Join([]string{m.Condition, m.Period, m.BaseSide, m.GamePhase, neg}, "|")
}
