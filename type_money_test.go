package accounts

import (
	"testing"

	"github.com/Rhymond/go-money"
)

func TestMoneyString(t *testing.T) {
	tests := []struct {
		m      Money
		minor  int64 // expected amount in minor units
		signed string
	}{
		{M(1234.5, "EUR"), 123450, "+"},
		{M(-10, "USD"), -1000, ""},
		{M(0.125, "USD"), 13, "+"},
		{M(7, "JPY"), 7, "+"},
	}
	for _, tt := range tests {
		want := money.New(tt.minor, tt.m.cur).Display()
		if got := tt.m.String(); got != want {
			t.Errorf("M(%v, %q).String() = %q want %q", tt.m.value, tt.m.cur, got, want)
		}
		if got := tt.m.SignedString(); got != tt.signed+want {
			t.Errorf("M(%v, %q).SignedString() = %q want %q", tt.m.value, tt.m.cur, got, tt.signed+want)
		}
	}
	if got := M(0, "USD").SignedString(); got != "-" {
		t.Errorf("M(0, USD).SignedString() = %q want %q", got, "-")
	}
}

func TestMoneyArithmetic(t *testing.T) {
	if got := M(1, "EUR").Add(M(2, "")); !got.Equal(M(3, "EUR")) {
		t.Errorf("M(1, EUR).Add(M(2, \"\")) = %v want 3 EUR", got)
	}
	if got := M(1, "EUR").Sub(M(2, "EUR")); !got.Equal(M(-1, "EUR")) || !got.IsNegative() {
		t.Errorf("M(1, EUR).Sub(M(2, EUR)) = %v want -1 EUR", got)
	}
	defer func() {
		if recover() == nil {
			t.Errorf("M(1, EUR).Add(M(1, USD)) want a panic")
		}
	}()
	M(1, "EUR").Add(M(1, "USD"))
}
