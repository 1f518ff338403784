package feed

import (
	"testing"
	"time"
)

func sampleRecord(now time.Time, sharpBK, softBK string, sharpOdds, softOdds float64) RawRecord {
	eventMs := now.Add(time.Hour).UnixMilli()
	return RawRecord{
		ID:     "rec1",
		SortBy: "created:1",
		Time:   eventMs,
		Profit: 2.38,
		Prongs: []RawProng{
			{
				Bookmaker:  sharpBK,
				Value:      sharpOdds,
				Time:       eventMs,
				Teams:      [2]string{"A", "B"},
				Tournament: "Cup",
				Type:       RawMarket{Kind: "over", Condition: "2.5", Period: "full-time"},
			},
			{
				Bookmaker:  softBK,
				Value:      softOdds,
				Time:       eventMs,
				Teams:      [2]string{"A", "B"},
				Tournament: "Cup",
				Type:       RawMarket{Kind: "under", Condition: "2.5", Period: "full-time"},
			},
		},
	}
}

func TestParser_ParsesValidRecord(t *testing.T) {
	now := time.Now()
	p := NewParser([]string{"pinnacle"})
	records := []RawRecord{sampleRecord(now, "pinnacle", "soft1", 2.00, 2.10)}

	surebets, discards := p.Parse(records, now)
	if len(discards) != 0 {
		t.Fatalf("Parse() discards = %v, want none", discards)
	}
	if len(surebets) != 1 {
		t.Fatalf("Parse() surebets len = %d, want 1", len(surebets))
	}
	if surebets[0].SharpProng.BookmakerID != "pinnacle" {
		t.Errorf("SharpProng.BookmakerID = %q, want pinnacle", surebets[0].SharpProng.BookmakerID)
	}
	if surebets[0].SoftProng.BookmakerID != "soft1" {
		t.Errorf("SoftProng.BookmakerID = %q, want soft1", surebets[0].SoftProng.BookmakerID)
	}
}

func TestParser_RejectsNeitherSharp(t *testing.T) {
	now := time.Now()
	p := NewParser([]string{"pinnacle"})
	records := []RawRecord{sampleRecord(now, "soft2", "soft1", 2.00, 2.10)}

	surebets, discards := p.Parse(records, now)
	if len(surebets) != 0 || len(discards) != 1 {
		t.Fatalf("Parse() = (%d surebets, %d discards), want (0, 1)", len(surebets), len(discards))
	}
}

func TestParser_RejectsBothSharp(t *testing.T) {
	now := time.Now()
	p := NewParser([]string{"pinnacle", "soft1"})
	records := []RawRecord{sampleRecord(now, "pinnacle", "soft1", 2.00, 2.10)}

	surebets, discards := p.Parse(records, now)
	if len(surebets) != 0 || len(discards) != 1 {
		t.Fatalf("Parse() = (%d surebets, %d discards), want (0, 1)", len(surebets), len(discards))
	}
}

func TestParser_DropsMalformedOddsWithoutPanicking(t *testing.T) {
	now := time.Now()
	p := NewParser([]string{"pinnacle"})
	records := []RawRecord{sampleRecord(now, "pinnacle", "soft1", 2.00, 0.5)} // 0.5 < minOdds

	surebets, discards := p.Parse(records, now)
	if len(surebets) != 0 || len(discards) != 1 {
		t.Fatalf("Parse() = (%d surebets, %d discards), want (0, 1)", len(surebets), len(discards))
	}
}

func TestParser_ThreadsEventNavIntoPickDeepLink(t *testing.T) {
	now := time.Now()
	p := NewParser([]string{"pinnacle"})
	rec := sampleRecord(now, "pinnacle", "soft1", 2.00, 2.10)
	link := "https://soft1.example/event/42"
	rec.Prongs[1].EventNav = &link

	surebets, discards := p.Parse([]RawRecord{rec}, now)
	if len(discards) != 0 {
		t.Fatalf("Parse() discards = %v, want none", discards)
	}
	if got := surebets[0].SoftProng.DeepLink; got != link {
		t.Errorf("SoftProng.DeepLink = %q, want %q", got, link)
	}
	if got := surebets[0].SharpProng.DeepLink; got != "" {
		t.Errorf("SharpProng.DeepLink = %q, want empty (sharp prong had no event_nav)", got)
	}
}

func TestParser_UnrecognizedMarketKindFallsBackToUnknown(t *testing.T) {
	now := time.Now()
	p := NewParser([]string{"pinnacle"})
	rec := sampleRecord(now, "pinnacle", "soft1", 2.00, 2.10)
	rec.Prongs[1].Type.Kind = "some-future-kind"

	surebets, discards := p.Parse([]RawRecord{rec}, now)
	if len(discards) != 0 {
		t.Fatalf("Parse() discards = %v, want none (unknown kind should not fail the record)", discards)
	}
	if len(surebets) != 1 {
		t.Fatalf("Parse() surebets len = %d, want 1", len(surebets))
	}
}
