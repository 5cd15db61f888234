package views

import "github.com/convive/convive/internal/model"

// Remaining returns how many units of an item are still unclaimed. Never
// negative, even if the server reports an overclaim mid-rebalance.
func Remaining(it model.Item) int {
	r := it.Quantity - it.Claimed
	if r < 0 {
		return 0
	}
	return r
}

// ClaimableBy clamps a guest's requested claim count to what the item has
// left. A guest adjusting an existing claim is not blocked by their own
// held units. Display-only: the server performs the authoritative clamp
// when the claim is submitted.
func ClaimableBy(it model.Item, guest string, n int) int {
	if n < 0 {
		return 0
	}
	if max := Remaining(it) + ClaimedBy(it, guest); n > max {
		return max
	}
	return n
}

// ClaimedBy returns how many units a guest has claimed of an item.
func ClaimedBy(it model.Item, guest string) int {
	return it.Claims[guest]
}

// Progress returns the claimed fraction in [0, 1] for rendering the item's
// progress indicator.
func Progress(it model.Item) float64 {
	if it.Quantity <= 0 {
		return 0
	}
	p := float64(it.Claimed) / float64(it.Quantity)
	if p > 1 {
		return 1
	}
	return p
}
