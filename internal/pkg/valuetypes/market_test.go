package valuetypes

import (
	"reflect"
	"testing"
)

func TestMarketKind_Opposites(t *testing.T) {
	cases := []struct {
		kind MarketKind
		want []MarketKind
	}{
		{MarketWin1, []MarketKind{MarketWin2}},
		{MarketOver, []MarketKind{MarketUnder}},
		{Market1X, []MarketKind{MarketX2, Market12}},
		{MarketDraw, nil},
		{MarketUnknown, nil},
	}
	for _, c := range cases {
		if got := c.kind.Opposites(); !reflect.DeepEqual(got, c.want) {
			t.Errorf("Opposites(%v) = %v, want %v", c.kind, got, c.want)
		}
	}
}

func TestMarketKind_OppositesSymmetric(t *testing.T) {
	for k, opp := range opposites {
		for _, o := range opp {
			found := false
			for _, back := range o.Opposites() {
				if back == k {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("opposite(%v) = %v, but opposite(%v) does not contain %v", k, o, o, k)
			}
		}
	}
}

func TestParseMarketKind(t *testing.T) {
	cases := []struct {
		raw  string
		want MarketKind
	}{
		{"win1", MarketWin1},
		{"  OVER ", MarketOver},
		{"eover", MarketEOver},
		{"not-a-real-kind", MarketUnknown},
		{"", MarketUnknown},
	}
	for _, c := range cases {
		if got := ParseMarketKind(c.raw); got != c.want {
			t.Errorf("ParseMarketKind(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestMarket_Variety(t *testing.T) {
	m, err := NewMarket(MarketOver, "2.5", "full-time", "", "regular", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := m.Variety(), "2.5|full-time||regular|0"; got != want {
		t.Errorf("Variety() = %q, want %q", got, want)
	}
}

func TestNewMarket_EmptyKindRejected(t *testing.T) {
	if _, err := NewMarket("", "", "", "", "", false); err == nil {
		t.Errorf("NewMarket with empty kind: got nil error, want error")
	}
}
