package risk

// SizeUSD converts an available balance into a trade size in quote currency.
// The taker fee is subtracted up front (worst case) so the notional plus its
// exit fee never exceeds the intended fraction of the balance.
func SizeUSD(balance, positionPct, takerFee float64) float64 {
	target := balance * positionPct
	return target / (1 + takerFee)
}

// RoundTripFeePct is the fraction of notional lost to a full buy+sell cycle.
func RoundTripFeePct(makerFee, takerFee float64) float64 {
	return makerFee + takerFee
}

// BreakEvenPrice is the sell price at which a position exits flat after fees,
// assuming taker fees both ways.
//
//	sell * (1 - fee) = entry * (1 + fee)  =>  sell = entry * (1+fee)/(1-fee)
func BreakEvenPrice(entryPrice, takerFee float64) float64 {
	return entryPrice * (1 + takerFee) / (1 - takerFee)
}
