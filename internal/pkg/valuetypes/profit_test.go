package valuetypes

import "testing"

func TestNewProfit(t *testing.T) {
	cases := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero ok", 0, false},
		{"negative within range ok", -0.5, false},
		{"min boundary ok", -100, false},
		{"max boundary ok", 100, false},
		{"below min rejected", -100.01, true},
		{"above max rejected", 100.01, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewProfit(c.value)
			if (err != nil) != c.wantErr {
				t.Fatalf("NewProfit(%v) error = %v, wantErr %v", c.value, err, c.wantErr)
			}
		})
	}
}

func TestProfit_InRange(t *testing.T) {
	p, err := NewProfit(1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.InRange(-1.0, 25.0) {
		t.Errorf("InRange(-1.0, 25.0) = false, want true for %v", p)
	}
	if p.InRange(2.0, 25.0) {
		t.Errorf("InRange(2.0, 25.0) = true, want false for %v", p)
	}
}
