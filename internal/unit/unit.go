// Package unit converts between the selling units a product is stocked in
// and derives the per-unit price tiers from a single entered price pair.
package unit

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type Type string

const (
	Piece Type = "piece"
	Pack  Type = "pack"
	Dozen Type = "dozen"
)

// Types lists every unit in ascending size.
var Types = []Type{Piece, Pack, Dozen}

var (
	ErrUnknownType      = errors.New("unknown unit type")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrQuantityTooLarge = errors.New("quantity is too large")
)

// ParseType accepts the unit names case-insensitively. Unknown names are an
// error; they never fall back to piece.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

func (t Type) Valid() bool {
	_, err := ParseType(string(t))
	return err == nil
}

// Ratios maps each unit to the number of pieces it holds.
type Ratios map[Type]int

func DefaultRatios() Ratios {
	return Ratios{Piece: 1, Pack: 3, Dozen: 12}
}

// NewRatios builds a table from configured pack and dozen sizes.
func NewRatios(pack, dozen int) (Ratios, error) {
	r := Ratios{Piece: 1, Pack: pack, Dozen: dozen}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r Ratios) Validate() error {
	if r[Piece] != 1 {
		return fmt.Errorf("piece ratio must be 1, got %d", r[Piece])
	}
	for _, t := range Types {
		if r[t] <= 0 {
			return fmt.Errorf("ratio for %s must be positive, got %d", t, r[t])
		}
	}
	return nil
}

func (r Ratios) Factor(t Type) (int, error) {
	f, ok := r[t]
	if !ok || f <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
	return f, nil
}

// ToPieces expresses qty units of type t in pieces.
func (r Ratios) ToPieces(qty int, t Type) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	f, err := r.Factor(t)
	if err != nil {
		return 0, err
	}
	if qty > math.MaxInt/f {
		return 0, ErrQuantityTooLarge
	}
	return qty * f, nil
}

// PieceCost is the cost of one piece when price buys one unit of t.
func (r Ratios) PieceCost(price decimal.Decimal, t Type) (decimal.Decimal, error) {
	f, err := r.Factor(t)
	if err != nil {
		return decimal.Zero, err
	}
	return price.Div(decimal.NewFromInt(int64(f))).Round(4), nil
}

// Tier is the buying/selling price pair of one unit.
type Tier struct {
	Buying  decimal.Decimal `json:"buying_price"`
	Selling decimal.Decimal `json:"selling_price"`
}

type Tiers struct {
	Piece Tier `json:"piece"`
	Pack  Tier `json:"pack"`
	Dozen Tier `json:"dozen"`
}

func (ts Tiers) Get(t Type) Tier {
	switch t {
	case Pack:
		return ts.Pack
	case Dozen:
		return ts.Dozen
	default:
		return ts.Piece
	}
}

func (ts *Tiers) set(t Type, tier Tier) {
	switch t {
	case Pack:
		ts.Pack = tier
	case Dozen:
		ts.Dozen = tier
	default:
		ts.Piece = tier
	}
}

// DeriveTiers spreads a price pair entered for one unit of t over all units.
// Derived tiers come from the exact per-piece price and are rounded to 2 dp.
func (r Ratios) DeriveTiers(t Type, buying, selling decimal.Decimal) (Tiers, error) {
	if buying.IsNegative() || selling.IsNegative() {
		return Tiers{}, ErrNegativePrice
	}
	f, err := r.Factor(t)
	if err != nil {
		return Tiers{}, err
	}

	div := decimal.NewFromInt(int64(f))
	pieceBuying := buying.Div(div)
	pieceSelling := selling.Div(div)

	var tiers Tiers
	for _, target := range Types {
		if target == t {
			tiers.set(target, Tier{Buying: buying.Round(2), Selling: selling.Round(2)})
			continue
		}
		mul := decimal.NewFromInt(int64(r[target]))
		tiers.set(target, Tier{
			Buying:  pieceBuying.Mul(mul).Round(2),
			Selling: pieceSelling.Mul(mul).Round(2),
		})
	}
	return tiers, nil
}
