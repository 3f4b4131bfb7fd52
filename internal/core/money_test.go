package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	valid := []struct {
		in    string
		cents int64
	}{
		{"7", 700},
		{"7.5", 750},
		{"12.34", 1234},
		{"12,34", 1234},
		{"0", 0},
		{"0.09", 9},
		{".50", 50},
		{"3.994", 399},
		{"3.995", 400},
		{"  18.00\t", 1800},
	}
	for _, tc := range valid {
		got, err := ParseDecimalToCents(tc.in)
		if err != nil {
			t.Fatalf("ParseDecimalToCents(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.cents {
			t.Fatalf("ParseDecimalToCents(%q) = %d, want %d", tc.in, got, tc.cents)
		}
	}

	invalid := []string{"", "   ", "-3", "+3", "3.1.4", "four", "3e2", "."}
	for _, in := range invalid {
		if _, err := ParseDecimalToCents(in); err != ErrInvalidAmount {
			t.Fatalf("ParseDecimalToCents(%q): want ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestMoneyFloat64(t *testing.T) {
	if got := (Money{Cents: 1550}).Float64(); got != 15.50 {
		t.Fatalf("Float64: want 15.50, got %v", got)
	}
	if got := (Money{Cents: 0}).Float64(); got != 0 {
		t.Fatalf("Float64: want 0, got %v", got)
	}
}
