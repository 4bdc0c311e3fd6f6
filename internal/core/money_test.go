package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{"0,5", 50, false},
		{"12.344", 1234, false},
		{"12.345", 1235, false},
		{"12.346", 1235, false},
		{"1.005", 101, false},
		{" 7,00 ", 700, false},
		{"", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"0", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDecimalToCents(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDecimalToCents(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimalToCents(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 1500}
	b := Money{Cents: 700}
	if got := a.Add(b).Cents; got != 2200 {
		t.Errorf("Add = %d, want 2200", got)
	}
	if got := b.Sub(a).Cents; got != -800 {
		t.Errorf("Sub = %d, want -800", got)
	}
	if got := a.Reais(); got != 15.0 {
		t.Errorf("Reais = %f, want 15.0", got)
	}
}
