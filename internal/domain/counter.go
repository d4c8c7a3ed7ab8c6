package domain

// CounterOffer proposes the counterparty's next price. Without a previous
// offer it opens from Max discounted by the share of MaxDiscount the strategy
// is eager to give away; otherwise it moves from the last offer toward Max by
// Flexibility. The result always lies within the bounds.
func CounterOffer(bounds Bounds, strategy Strategy, lastOffer *float64) float64 {
	if lastOffer == nil {
		discount := bounds.MaxDiscount * (1 - strategy.Eagerness)
		return bounds.Clamp(bounds.Max * (1 - discount))
	}

	offer := *lastOffer
	target := offer + (bounds.Max-offer)*strategy.Flexibility

	return bounds.Clamp(target)
}
