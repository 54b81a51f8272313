package broker

import (
	"context"
	"fmt"
	"time"
)

// Paper is a dry-run executor: every order fills in full at the quoted price
// with the taker fee applied. Used when dry_run is enabled.
type Paper struct {
	TakerFee float64
}

func NewPaper(takerFee float64) *Paper {
	return &Paper{TakerFee: takerFee}
}

func (p *Paper) Buy(ctx context.Context, productID string, quantity, price float64) (Fill, error) {
	return p.fill(ctx, productID, "BUY", quantity, price)
}

func (p *Paper) Sell(ctx context.Context, productID string, quantity, price float64) (Fill, error) {
	return p.fill(ctx, productID, "SELL", quantity, price)
}

func (p *Paper) fill(ctx context.Context, productID, side string, quantity, price float64) (Fill, error) {
	if err := ctx.Err(); err != nil {
		return Fill{}, err
	}
	if quantity <= 0 {
		return Fill{}, fmt.Errorf("paper %s: quantity must be positive, got %v", side, quantity)
	}
	if price <= 0 {
		return Fill{}, fmt.Errorf("paper %s: price must be positive, got %v", side, price)
	}

	value := quantity * price
	return Fill{
		ProductID: productID,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Fee:       value * p.TakerFee,
		Time:      time.Now(),
	}, nil
}
