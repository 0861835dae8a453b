package engine

import (
	"math/rand"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// repairGuard bounds the rebalancing loops against pathological individuals.
const repairGuard = 64

// repairSession restores a session's groups to a feasible partition after
// crossover or mutation: deduplicate indices, reseat missing participants,
// even out over/under-sized groups, then rebalance Faculty coverage.
func repairSession(ctx *sessionCtx, groups [][]int, rng *rand.Rand) [][]int {
	// 1. Drop later duplicates across groups.
	seen := make(map[int]bool, ctx.n)
	for gi, g := range groups {
		kept := g[:0]
		for _, idx := range g {
			if !seen[idx] {
				seen[idx] = true
				kept = append(kept, idx)
			}
		}
		groups[gi] = kept
	}

	// 2. Reseat missing indices into the smallest group with room.
	for idx := 0; idx < ctx.n; idx++ {
		if seen[idx] {
			continue
		}
		target := -1
		for gi := range groups {
			if len(groups[gi]) >= ctx.max {
				continue
			}
			if target < 0 || len(groups[gi]) < len(groups[target]) {
				target = gi
			}
		}
		if target < 0 {
			target = smallestIndexGroup(groups)
		}
		groups[target] = append(groups[target], idx)
		seen[idx] = true
	}

	// 3. Move members from oversized into undersized groups.
	for guard := 0; guard < repairGuard; guard++ {
		over, under := -1, -1
		for gi, g := range groups {
			if len(g) > ctx.max {
				over = gi
			}
			if len(g) < ctx.min {
				under = gi
			}
		}
		if over < 0 || under < 0 {
			break
		}
		last := len(groups[over]) - 1
		groups[under] = append(groups[under], groups[over][last])
		groups[over] = groups[over][:last]
	}

	rebalanceFaculty(ctx, groups, rng)
	return groups
}

// rebalanceFaculty ensures every group holds at least one Faculty member
// when the session has at least as many Faculty as groups. Shortfalls are
// fixed by transfer from a group with a spare Faculty, or by a swap when a
// plain transfer would break the size bounds.
func rebalanceFaculty(ctx *sessionCtx, groups [][]int, rng *rand.Rand) {
	if ctx.facultyTotal() < len(groups) {
		return
	}
	isFaculty := func(idx int) bool { return ctx.positions[idx] == model.Faculty }
	facCount := func(g []int) int {
		n := 0
		for _, idx := range g {
			if isFaculty(idx) {
				n++
			}
		}
		return n
	}

	for guard := 0; guard < repairGuard; guard++ {
		target := -1
		for gi, g := range groups {
			if facCount(g) == 0 {
				target = gi
				break
			}
		}
		if target < 0 {
			return
		}
		donor := -1
		for gi, g := range groups {
			if gi != target && facCount(g) >= 2 {
				donor = gi
				break
			}
		}
		if donor < 0 {
			return
		}
		facPos := -1
		for k, idx := range groups[donor] {
			if isFaculty(idx) {
				facPos = k
				break
			}
		}
		moving := groups[donor][facPos]
		if len(groups[target]) < ctx.max && len(groups[donor]) > ctx.min {
			// plain transfer
			groups[donor] = append(groups[donor][:facPos], groups[donor][facPos+1:]...)
			groups[target] = append(groups[target], moving)
			continue
		}
		// swap against a non-Faculty member of the target group
		swapPos := -1
		candidates := rng.Perm(len(groups[target]))
		for _, k := range candidates {
			if !isFaculty(groups[target][k]) {
				swapPos = k
				break
			}
		}
		if swapPos < 0 {
			return
		}
		groups[donor][facPos], groups[target][swapPos] = groups[target][swapPos], moving
	}
}

func smallestIndexGroup(groups [][]int) int {
	best := 0
	for gi := 1; gi < len(groups); gi++ {
		if len(groups[gi]) < len(groups[best]) {
			best = gi
		}
	}
	return best
}
