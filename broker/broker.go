// Package broker defines the exchange boundary. The engine never talks to an
// exchange directly; prices and fills are injected through these interfaces.
package broker

import (
	"context"
	"time"
)

// PriceSource supplies the current market price for a product.
type PriceSource interface {
	CurrentPrice(ctx context.Context, productID string) (float64, error)
}

// Fill is the result of an executed order.
type Fill struct {
	ProductID string
	Side      string // "BUY" or "SELL"
	Quantity  float64
	Price     float64
	Fee       float64
	Time      time.Time
}

// Executor places orders. Implementations either fully succeed or return an
// error; retry policy belongs to the implementation, not the engine.
type Executor interface {
	Buy(ctx context.Context, productID string, quantity, price float64) (Fill, error)
	Sell(ctx context.Context, productID string, quantity, price float64) (Fill, error)
}
