package engine

import (
	"math/rand"
	"sort"
	"time"

	"github.com/KotaKunori/GroupAssigner/internal/model"
	"github.com/KotaKunori/GroupAssigner/internal/pool"
)

// HybridConfig tunes the hybrid genetic optimizer.
type HybridConfig struct {
	NumHeuristicSeeds   int
	Generations         int
	PopulationSize      int
	MutationRate        float64
	TimeBudget          time.Duration
	HeuristicIterations int
	Seed                int64 // all randomness derives from this
}

// DefaultHybridConfig returns the standard tuning surface.
func DefaultHybridConfig() HybridConfig {
	return HybridConfig{
		NumHeuristicSeeds:   10,
		Generations:         500,
		PopulationSize:      40,
		MutationRate:        0.08,
		TimeBudget:          3 * time.Second,
		HeuristicIterations: 200,
	}
}

// Hybrid seeds a population with heuristic solutions and evolves it against
// the composite penalty. The best individual ever observed is returned; once
// initialization yields a feasible individual the optimizer never fails.
type Hybrid struct {
	cfg HybridConfig
}

// NewHybrid creates a hybrid assigner.
func NewHybrid(cfg HybridConfig) *Hybrid {
	def := DefaultHybridConfig()
	if cfg.NumHeuristicSeeds <= 0 {
		cfg.NumHeuristicSeeds = def.NumHeuristicSeeds
	}
	if cfg.Generations <= 0 {
		cfg.Generations = def.Generations
	}
	if cfg.PopulationSize <= 0 {
		cfg.PopulationSize = def.PopulationSize
	}
	if cfg.MutationRate <= 0 {
		cfg.MutationRate = def.MutationRate
	}
	if cfg.TimeBudget <= 0 {
		cfg.TimeBudget = def.TimeBudget
	}
	if cfg.HeuristicIterations <= 0 {
		cfg.HeuristicIterations = def.HeuristicIterations
	}
	return &Hybrid{cfg: cfg}
}

// AssignGroups implements Assigner.
func (h *Hybrid) AssignGroups(program model.Program) (model.Solution, error) {
	for _, s := range program.Sessions {
		if err := CheckFeasible(s); err != nil {
			return nil, err
		}
	}

	ctxs := make([]sessionCtx, len(program.Sessions))
	for i, s := range program.Sessions {
		ctxs[i] = newSessionCtx(s)
	}
	rng := rand.New(rand.NewSource(splitmix64(h.cfg.Seed, 0)))

	population, err := h.initPopulation(program, ctxs, rng)
	if err != nil {
		return nil, err
	}

	workers := pool.New(len(population))
	defer workers.Close()

	scores := make([]float64, len(population))
	evaluate := func() {
		for i := range population {
			workers.Submit(func() {
				scores[i] = fitness(population[i], ctxs)
			})
		}
		workers.Wait()
	}
	evaluate()

	best := cloneIndividual(population[bestIndex(scores)])
	bestScore := scores[bestIndex(scores)]

	start := time.Now()
	for gen := 0; gen < h.cfg.Generations; gen++ {
		if time.Since(start) > h.cfg.TimeBudget {
			break
		}

		// Rank by fitness, ties broken by individual index for stable
		// elite selection.
		order := make([]int, len(population))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return scores[order[a]] > scores[order[b]]
		})

		eliteCount := maxInt(2, h.cfg.PopulationSize/4)
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		elites := make([]individual, eliteCount)
		for i := 0; i < eliteCount; i++ {
			elites[i] = cloneIndividual(population[order[i]])
		}

		next := make([]individual, 0, h.cfg.PopulationSize)
		next = append(next, elites...)
		for len(next) < h.cfg.PopulationSize {
			var p1, p2 individual
			if len(elites) >= 2 {
				i := rng.Intn(len(elites))
				j := rng.Intn(len(elites) - 1)
				if j >= i {
					j++
				}
				p1, p2 = elites[i], elites[j]
			} else {
				p1, p2 = best, population[rng.Intn(len(population))]
			}
			child := crossover(p1, p2, ctxs, rng)
			child = mutateSwap(child, ctxs, h.cfg.MutationRate, false, false, rng)
			next = append(next, child)
		}
		population = next
		evaluate()

		if genBest := bestIndex(scores); scores[genBest] > bestScore {
			bestScore = scores[genBest]
			best = cloneIndividual(population[genBest])
		}
	}

	return individualToSolution(best, ctxs)
}

// initPopulation builds heuristic seeds on independent RNG streams and tops
// the population up with forced mutations of random seeds.
func (h *Hybrid) initPopulation(program model.Program, ctxs []sessionCtx, rng *rand.Rand) ([]individual, error) {
	seeds := h.cfg.NumHeuristicSeeds
	if seeds > h.cfg.PopulationSize {
		seeds = h.cfg.PopulationSize
	}
	population := make([]individual, 0, h.cfg.PopulationSize)
	for i := 0; i < seeds; i++ {
		heur := NewHeuristic(HeuristicConfig{
			MaxIterations: h.cfg.HeuristicIterations,
			Seed:          splitmix64(h.cfg.Seed, i+1),
		})
		sol, err := heur.AssignGroups(program)
		if err != nil {
			return nil, err
		}
		ind, err := solutionToIndividual(sol, ctxs)
		if err != nil {
			return nil, err
		}
		population = append(population, ind)
	}
	for len(population) < h.cfg.PopulationSize {
		base := population[rng.Intn(len(population))]
		population = append(population, mutateSwap(cloneIndividual(base), ctxs, h.cfg.MutationRate, true, false, rng))
	}
	return population, nil
}

func bestIndex(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

// crossover recombines two parents group by group. Each child group targets
// the average of the parent group sizes clamped to the bounds, seats a
// Faculty member first when either parent offers one, fills the rest from
// the parents' union, and tops up from unused session indices.
func crossover(p1, p2 individual, ctxs []sessionCtx, rng *rand.Rand) individual {
	child := make(individual, len(ctxs))
	for si := range ctxs {
		ctx := &ctxs[si]
		groups := make([][]int, ctx.groupNum)
		used := make(map[int]bool, ctx.n)

		for gi := 0; gi < ctx.groupNum; gi++ {
			g1 := groupOrNil(p1[si], gi)
			g2 := groupOrNil(p2[si], gi)

			target := (len(g1) + len(g2)) / 2
			if target < ctx.min {
				target = ctx.min
			}
			if target > ctx.max {
				target = ctx.max
			}

			assembled := make([]int, 0, target)

			// Faculty seat first, preferring the candidate with the fewest
			// lab collisions against the (empty) group.
			var facultyCandidates []int
			for _, idx := range append(append([]int(nil), g1...), g2...) {
				if ctx.positions[idx] == model.Faculty && !used[idx] {
					facultyCandidates = append(facultyCandidates, idx)
				}
			}
			if len(facultyCandidates) > 0 {
				best := facultyCandidates[0]
				bestDup := labCollisions(ctx, append(assembled, best))
				for _, idx := range facultyCandidates[1:] {
					if d := labCollisions(ctx, append(assembled, idx)); d < bestDup {
						best, bestDup = idx, d
					}
				}
				assembled = append(assembled, best)
				used[best] = true
			}

			// Sample the remaining seats uniformly without replacement
			// from the union of both parents' memberships.
			union := make([]int, 0, len(g1)+len(g2))
			inUnion := make(map[int]bool, len(g1)+len(g2))
			for _, idx := range append(append([]int(nil), g1...), g2...) {
				if !used[idx] && !inUnion[idx] {
					inUnion[idx] = true
					union = append(union, idx)
				}
			}
			rng.Shuffle(len(union), func(i, j int) { union[i], union[j] = union[j], union[i] })
			for _, idx := range union {
				if len(assembled) >= target {
					break
				}
				assembled = append(assembled, idx)
				used[idx] = true
			}

			// Still short: draw from unused session indices at random.
			if len(assembled) < target {
				all := rng.Perm(ctx.n)
				for _, idx := range all {
					if len(assembled) >= target {
						break
					}
					if used[idx] {
						continue
					}
					assembled = append(assembled, idx)
					used[idx] = true
				}
			}
			groups[gi] = assembled
		}

		child[si] = repairSession(ctx, groups, rng)
	}
	return child
}

func groupOrNil(groups [][]int, gi int) []int {
	if gi < len(groups) {
		return groups[gi]
	}
	return nil
}

// labCollisions counts C(k,2) over labs claimed k>1 times within the group.
func labCollisions(ctx *sessionCtx, group []int) int {
	labCount := make(map[string]int)
	for _, idx := range group {
		for _, lab := range ctx.labs[idx] {
			labCount[lab]++
		}
	}
	dup := 0
	for _, c := range labCount {
		if c > 1 {
			dup += (c - 1) * c / 2
		}
	}
	return dup
}

// mutateSwap swaps one member between two random groups per session with the
// given probability (always when force is set). When positionSafe is set the
// swap is restricted to members of the same position; otherwise feasibility
// is restored by repair.
func mutateSwap(ind individual, ctxs []sessionCtx, rate float64, force, positionSafe bool, rng *rand.Rand) individual {
	for si := range ctxs {
		ctx := &ctxs[si]
		groups := ind[si]
		if force || rng.Float64() < rate {
			if len(groups) >= 2 {
				g1 := rng.Intn(len(groups))
				g2 := rng.Intn(len(groups) - 1)
				if g2 >= g1 {
					g2++
				}
				if len(groups[g1]) > 0 && len(groups[g2]) > 0 {
					if positionSafe {
						swapSamePosition(ctx, groups[g1], groups[g2], rng)
					} else {
						i1 := rng.Intn(len(groups[g1]))
						i2 := rng.Intn(len(groups[g2]))
						groups[g1][i1], groups[g2][i2] = groups[g2][i2], groups[g1][i1]
					}
				}
			}
		}
		ind[si] = repairSession(ctx, groups, rng)
	}
	return ind
}

func swapSamePosition(ctx *sessionCtx, g1, g2 []int, rng *rand.Rand) {
	type pair struct{ i1, i2 int }
	var candidates []pair
	for i1, a := range g1 {
		for i2, b := range g2 {
			if ctx.positions[a] == ctx.positions[b] {
				candidates = append(candidates, pair{i1, i2})
			}
		}
	}
	if len(candidates) == 0 {
		return
	}
	c := candidates[rng.Intn(len(candidates))]
	g1[c.i1], g2[c.i2] = g2[c.i2], g1[c.i1]
}
