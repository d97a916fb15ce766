package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToDecimal(t *testing.T) {
	m := NewMoney(150050, "NGN") // 1500.50 NGN in kobo
	d := m.ToDecimal()
	if d.StringFixed(2) != "1500.50" {
		t.Errorf("expected 1500.50, got %s", d.StringFixed(2))
	}
}

func TestFromDecimal(t *testing.T) {
	d := decimal.NewFromFloat(10.50)
	if got := FromDecimal(d); got != 1050 {
		t.Errorf("expected 1050 minor units, got %d", got)
	}
}

func TestFromDecimalTruncates(t *testing.T) {
	// Sub-kobo precision is dropped, never rounded up.
	d := decimal.NewFromFloat(10.509)
	if got := FromDecimal(d); got != 1050 {
		t.Errorf("expected 1050 minor units, got %d", got)
	}
}

func TestString(t *testing.T) {
	m := NewMoney(250000, "NGN")
	if got := m.String(); got != "2500.00 NGN" {
		t.Errorf("unexpected string: %s", got)
	}
}
