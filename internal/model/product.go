package model

import (
	"go-retail-stock/internal/unit"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product quantity is always counted in pieces. The six prices are only
// guaranteed consistent with each other right after a price-changing write.
type Product struct {
	BaseModel
	StoreID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_products_store_sku" json:"store_id"`
	SKU         string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_store_sku" json:"sku"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Quantity    int       `gorm:"not null;default:0" json:"quantity"`
	MinQuantity int       `gorm:"not null;default:0" json:"min_quantity"`
	StockUnit   unit.Type `gorm:"type:varchar(10);not null;default:'piece'" json:"stock_unit"`

	PieceBuyingPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"piece_buying_price"`
	PieceSellingPrice decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"piece_selling_price"`
	PackBuyingPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"pack_buying_price"`
	PackSellingPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"pack_selling_price"`
	DozenBuyingPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"dozen_buying_price"`
	DozenSellingPrice decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"dozen_selling_price"`
}

// ApplyTiers copies all six prices from t.
func (p *Product) ApplyTiers(t unit.Tiers) {
	p.PieceBuyingPrice, p.PieceSellingPrice = t.Piece.Buying, t.Piece.Selling
	p.PackBuyingPrice, p.PackSellingPrice = t.Pack.Buying, t.Pack.Selling
	p.DozenBuyingPrice, p.DozenSellingPrice = t.Dozen.Buying, t.Dozen.Selling
}

func (p *Product) Tiers() unit.Tiers {
	return unit.Tiers{
		Piece: unit.Tier{Buying: p.PieceBuyingPrice, Selling: p.PieceSellingPrice},
		Pack:  unit.Tier{Buying: p.PackBuyingPrice, Selling: p.PackSellingPrice},
		Dozen: unit.Tier{Buying: p.DozenBuyingPrice, Selling: p.DozenSellingPrice},
	}
}

// PriceColumns returns the column/value pairs for a tiered price write.
func (p *Product) PriceColumns() map[string]interface{} {
	return map[string]interface{}{
		"piece_buying_price":  p.PieceBuyingPrice,
		"piece_selling_price": p.PieceSellingPrice,
		"pack_buying_price":   p.PackBuyingPrice,
		"pack_selling_price":  p.PackSellingPrice,
		"dozen_buying_price":  p.DozenBuyingPrice,
		"dozen_selling_price": p.DozenSellingPrice,
	}
}

func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinQuantity
}
