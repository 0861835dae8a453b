// Package engine implements the assignment core: apportionment arithmetic,
// the constructive heuristic seeder, the genetic optimizers, and the
// evaluation primitives. Everything here is pure computation over frozen
// domain values; no I/O occurs inside the package.
package engine

import (
	"fmt"
	"sort"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// EqualGroupSizes splits n participants over g groups as evenly as possible:
// the first n%g groups get one extra member.
func EqualGroupSizes(n, g int) []int {
	q, r := n/g, n%g
	sizes := make([]int, g)
	for i := range sizes {
		if i < r {
			sizes[i] = q + 1
		} else {
			sizes[i] = q
		}
	}
	return sizes
}

// AutoGroupSizes picks a group count of ceil(n/4) and grows it until every
// group size lies within [min, max]. Used when the caller lets the engine
// choose the group structure.
func AutoGroupSizes(n, min, max int) ([]int, error) {
	g := (n + 3) / 4
	if g < 1 {
		g = 1
	}
	for guard := 0; guard < 100; guard++ {
		sizes := EqualGroupSizes(n, g)
		ok := true
		for _, sz := range sizes {
			if sz < min || sz > max {
				ok = false
				break
			}
		}
		if ok {
			return sizes, nil
		}
		g++
	}
	return nil, fmt.Errorf("%w: no group count fits %d participants in [%d, %d]", model.ErrInfeasible, n, min, max)
}

// PositionTargets apportions the per-position totals over groups of the
// given sizes using the Hamilton largest-remainder method with row capacity.
// Row sums equal the group sizes, column sums equal the totals, and every
// entry is a non-negative integer. Tie-breaking is deterministic: remainders
// are served in descending fractional-part order, group index ascending.
func PositionTargets(totals model.PositionCount, sizes []int) []model.PositionCount {
	g := len(sizes)
	n := 0
	for _, sz := range sizes {
		n += sz
	}
	targets := make([]model.PositionCount, g)
	rowSums := make([]int, g)
	fracs := make([][model.NumPositions]float64, g)

	for gi, sz := range sizes {
		for _, pos := range model.Positions {
			share := float64(totals[pos]) * float64(sz) / float64(maxInt(1, n))
			base := int(share)
			targets[gi][pos] = base
			fracs[gi][pos] = share - float64(base)
			rowSums[gi] += base
		}
	}

	for _, pos := range model.Positions {
		rem := totals[pos]
		for gi := 0; gi < g; gi++ {
			rem -= targets[gi][pos]
		}
		if rem <= 0 {
			continue
		}
		order := make([]int, g)
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return fracs[order[a]][pos] > fracs[order[b]][pos]
		})
		// Cycle the order, skipping rows already at capacity, until the
		// remainder is exhausted.
		idx := 0
		for guard := 0; rem > 0 && guard < 10000; guard++ {
			gi := order[idx]
			if rowSums[gi] < sizes[gi] {
				targets[gi][pos]++
				rowSums[gi]++
				rem--
			}
			idx = (idx + 1) % g
		}
	}
	return targets
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
