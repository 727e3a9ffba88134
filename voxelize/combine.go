package voxelize

import "github.com/gmlewis/obj2voxel/geom"

// Strategy selects how multiple weighted-color contributions to the same
// cell are combined.
type Strategy int

const (
	// Blend computes a weighted average of all contributions.
	Blend Strategy = iota
	// Max keeps the contribution with the strictly greater weight; ties
	// are broken in favor of the first ("target") argument.
	Max
)

// ParseStrategy parses the case-sensitive strategy names accepted in
// configuration.
func ParseStrategy(s string) (Strategy, bool) {
	switch s {
	case "MAX":
		return Max, true
	case "BLEND":
		return Blend, true
	default:
		return 0, false
	}
}

// String returns the canonical name of the strategy.
func (s Strategy) String() string {
	if s == Max {
		return "MAX"
	}
	return "BLEND"
}

// Combine merges two weighted colors under the strategy. target is the
// value already stored in a cell; source is the incoming contribution.
// Both BLEND and MAX are commutative in weight-and-value terms, except
// that MAX's tie-break (equal weights) favors target, which callers must
// treat as "the side that wins ties" when documenting merge order.
func (s Strategy) Combine(target, source geom.WeightedColor) geom.WeightedColor {
	switch s {
	case Max:
		if source.Weight > target.Weight {
			return source
		}
		return target
	default:
		return target.Blend(source)
	}
}
