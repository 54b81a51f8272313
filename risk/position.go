package risk

import "time"

// Position is one open holding of a tradeable product.
type Position struct {
	ProductID  string
	Quantity   float64
	EntryPrice float64
	EntryFee   float64
	OpenTime   time.Time

	// Partial-profit ratchet. PartialHit has one flag per configured level;
	// a flag never clears while the position is open.
	OriginalQuantity float64
	PartialHit       []bool

	// Best price seen since the trailing stop activated.
	PeakPrice  float64
	PeakPnLPct float64
}

func newPosition(productID string, quantity, entryPrice, entryFee float64, openTime time.Time, levels int) *Position {
	return &Position{
		ProductID:        productID,
		Quantity:         quantity,
		EntryPrice:       entryPrice,
		EntryFee:         entryFee,
		OpenTime:         openTime,
		OriginalQuantity: quantity,
		PartialHit:       make([]bool, levels),
		PeakPrice:        entryPrice,
	}
}

// EntryValue is the capital locked at entry, excluding fees.
func (p *Position) EntryValue() float64 {
	return p.Quantity * p.EntryPrice
}

// PnLPct is the raw price move as a fraction of the entry price.
func (p *Position) PnLPct(currentPrice float64) float64 {
	return (currentPrice - p.EntryPrice) / p.EntryPrice
}

func (p *Position) allPartialsHit() bool {
	if len(p.PartialHit) == 0 {
		return false
	}
	for _, hit := range p.PartialHit {
		if !hit {
			return false
		}
	}
	return true
}

func (p *Position) clone() Position {
	cp := *p
	cp.PartialHit = append([]bool(nil), p.PartialHit...)
	return cp
}
