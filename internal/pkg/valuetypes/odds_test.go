package valuetypes

import "testing"

func TestNewOdds(t *testing.T) {
	cases := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"min boundary ok", 1.01, false},
		{"max boundary ok", 1000.0, false},
		{"typical value ok", 2.10, false},
		{"below min rejected", 1.00, true},
		{"above max rejected", 1000.01, true},
		{"nan rejected", nanValue(), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o, err := NewOdds(c.value)
			if (err != nil) != c.wantErr {
				t.Fatalf("NewOdds(%v) error = %v, wantErr %v", c.value, err, c.wantErr)
			}
			if err == nil && o.Value() != c.value {
				t.Errorf("Value() = %v, want %v", o.Value(), c.value)
			}
		})
	}
}

func TestOdds_ImpliedProbability(t *testing.T) {
	o, err := NewOdds(2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := o.ImpliedProbability(), 0.5; got != want {
		t.Errorf("ImpliedProbability() = %v, want %v", got, want)
	}
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}
