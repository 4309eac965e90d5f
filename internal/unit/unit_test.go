package unit

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToPieces(t *testing.T) {
	r := DefaultRatios()
	for qty := 1; qty <= 50; qty++ {
		cases := map[Type]int{Piece: qty, Pack: qty * 3, Dozen: qty * 12}
		for typ, want := range cases {
			got, err := r.ToPieces(qty, typ)
			if err != nil {
				t.Fatalf("ToPieces(%d, %s): %v", qty, typ, err)
			}
			if got != want {
				t.Fatalf("ToPieces(%d, %s) expected %d, got %d", qty, typ, want, got)
			}
		}
	}
}

func TestToPiecesRejectsBadInput(t *testing.T) {
	r := DefaultRatios()
	if _, err := r.ToPieces(0, Piece); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := r.ToPieces(-2, Pack); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := r.ToPieces(2, Type("crate")); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestToPiecesRejectsOverflow(t *testing.T) {
	r := DefaultRatios()
	if _, err := r.ToPieces(math.MaxInt/12+1, Dozen); !errors.Is(err, ErrQuantityTooLarge) {
		t.Fatalf("expected ErrQuantityTooLarge, got %v", err)
	}
	got, err := r.ToPieces(math.MaxInt/12, Dozen)
	if err != nil || got <= 0 {
		t.Fatalf("largest dozen count should convert, got %d, %v", got, err)
	}
}

func TestParseType(t *testing.T) {
	cases := []struct {
		in   string
		want Type
		ok   bool
	}{
		{"piece", Piece, true},
		{" Pack ", Pack, true},
		{"DOZEN", Dozen, true},
		{"box", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseType(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseType(%q) expected %s, got %s (%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrUnknownType) {
			t.Fatalf("ParseType(%q) expected ErrUnknownType, got %v", tc.in, err)
		}
	}
}

func TestNewRatiosValidates(t *testing.T) {
	if _, err := NewRatios(4, 12); err != nil {
		t.Fatalf("NewRatios(4, 12): %v", err)
	}
	if _, err := NewRatios(0, 12); err == nil {
		t.Fatalf("expected error for zero pack ratio")
	}
	if err := (Ratios{Piece: 2, Pack: 3, Dozen: 12}).Validate(); err == nil {
		t.Fatalf("expected error for piece ratio != 1")
	}
}

func TestDeriveTiersFromPack(t *testing.T) {
	tiers, err := DefaultRatios().DeriveTiers(Pack, decimal.NewFromInt(100), decimal.NewFromInt(150))
	if err != nil {
		t.Fatalf("DeriveTiers: %v", err)
	}

	expect := map[string][2]string{
		"piece": {"33.33", "50.00"},
		"pack":  {"100.00", "150.00"},
		"dozen": {"400.00", "600.00"},
	}
	got := map[string]Tier{"piece": tiers.Piece, "pack": tiers.Pack, "dozen": tiers.Dozen}
	for name, want := range expect {
		if got[name].Buying.StringFixed(2) != want[0] || got[name].Selling.StringFixed(2) != want[1] {
			t.Fatalf("%s tier expected %v, got %s/%s", name, want,
				got[name].Buying.StringFixed(2), got[name].Selling.StringFixed(2))
		}
	}
}

func TestDeriveTiersRoundTrip(t *testing.T) {
	r := DefaultRatios()
	prices := []string{"0", "0.01", "1", "9.99", "33.33", "100", "125.50", "999.99", "1234.56"}

	for _, typ := range Types {
		for _, p := range prices {
			buying := decimal.RequireFromString(p)
			selling := buying.Mul(decimal.NewFromFloat(1.25))

			tiers, err := r.DeriveTiers(typ, buying, selling)
			if err != nil {
				t.Fatalf("DeriveTiers(%s, %s): %v", typ, p, err)
			}

			entered := tiers.Get(typ)
			if !entered.Buying.Equal(buying.Round(2)) || !entered.Selling.Equal(selling.Round(2)) {
				t.Fatalf("%s %s: entered tier changed to %s/%s", typ, p, entered.Buying, entered.Selling)
			}

			// Re-deriving the entered tier from the stored piece price drifts by
			// at most half a cent per piece in the unit.
			f := decimal.NewFromInt(int64(r[typ]))
			tolerance := decimal.NewFromFloat(0.005).Mul(f).Add(decimal.NewFromFloat(0.0001))
			back := tiers.Piece.Buying.Mul(f)
			if back.Sub(buying).Abs().GreaterThan(tolerance) {
				t.Fatalf("%s %s: piece-derived %s drifted beyond %s", typ, p, back, tolerance)
			}
			if typ != Dozen && back.Sub(buying).Abs().GreaterThan(decimal.NewFromFloat(0.015)) {
				t.Fatalf("%s %s: piece-derived %s drifted beyond 0.015", typ, p, back)
			}
		}
	}
}

func TestDeriveTiersRejectsNegative(t *testing.T) {
	_, err := DefaultRatios().DeriveTiers(Piece, decimal.NewFromInt(-1), decimal.NewFromInt(5))
	if !errors.Is(err, ErrNegativePrice) {
		t.Fatalf("expected ErrNegativePrice, got %v", err)
	}
}

func TestPieceCost(t *testing.T) {
	r := DefaultRatios()
	cost, err := r.PieceCost(decimal.NewFromInt(100), Pack)
	if err != nil {
		t.Fatalf("PieceCost: %v", err)
	}
	if cost.StringFixed(4) != "33.3333" {
		t.Fatalf("expected 33.3333, got %s", cost.StringFixed(4))
	}

	cost, _ = r.PieceCost(decimal.NewFromInt(120), Dozen)
	if !cost.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected 10, got %s", cost)
	}
}
