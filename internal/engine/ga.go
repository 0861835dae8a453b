package engine

import (
	"math/rand"
	"sort"
	"time"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// GAConfig tunes the pure genetic assigner.
type GAConfig struct {
	Generations    int
	PopulationSize int
	MutationRate   float64
	TimeBudget     time.Duration
	Seed           int64
}

// DefaultGAConfig returns the standard parameters for the pure GA.
func DefaultGAConfig() GAConfig {
	return GAConfig{
		Generations:    2000,
		PopulationSize: 50,
		MutationRate:   0.05,
		TimeBudget:     2 * time.Second,
	}
}

// GA evolves randomly constructed target-conformant partitions. Unlike the
// hybrid it starts without heuristic seeds and keeps mutation position-safe.
type GA struct {
	cfg GAConfig
}

// NewGA creates a pure genetic assigner.
func NewGA(cfg GAConfig) *GA {
	def := DefaultGAConfig()
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
	return &GA{cfg: cfg}
}

// AssignGroups implements Assigner.
func (g *GA) AssignGroups(program model.Program) (model.Solution, error) {
	for _, s := range program.Sessions {
		if err := CheckFeasible(s); err != nil {
			return nil, err
		}
	}
	ctxs := make([]sessionCtx, len(program.Sessions))
	for i, s := range program.Sessions {
		ctxs[i] = newSessionCtx(s)
	}
	rng := rand.New(rand.NewSource(splitmix64(g.cfg.Seed, 0)))

	population := make([]individual, g.cfg.PopulationSize)
	for i := range population {
		population[i] = randomIndividual(ctxs, rng)
	}
	scores := make([]float64, len(population))
	for i := range population {
		scores[i] = fitness(population[i], ctxs)
	}

	best := cloneIndividual(population[bestIndex(scores)])
	bestScore := scores[bestIndex(scores)]

	start := time.Now()
	for gen := 0; gen < g.cfg.Generations; gen++ {
		if time.Since(start) > g.cfg.TimeBudget {
			break
		}
		order := make([]int, len(population))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return scores[order[a]] > scores[order[b]]
		})
		eliteCount := maxInt(2, g.cfg.PopulationSize/4)
		elites := make([]individual, 0, eliteCount)
		for i := 0; i < eliteCount && i < len(order); i++ {
			elites = append(elites, cloneIndividual(population[order[i]]))
		}

		next := append([]individual(nil), elites...)
		for len(next) < g.cfg.PopulationSize {
			i := rng.Intn(len(elites))
			j := rng.Intn(len(elites))
			child := crossover(elites[i], elites[j], ctxs, rng)
			child = mutateSwap(child, ctxs, g.cfg.MutationRate, false, true, rng)
			next = append(next, child)
		}
		population = next
		for i := range population {
			scores[i] = fitness(population[i], ctxs)
		}
		if genBest := bestIndex(scores); scores[genBest] > bestScore {
			bestScore = scores[genBest]
			best = cloneIndividual(population[genBest])
		}
	}

	return individualToSolution(best, ctxs)
}

// randomIndividual builds one candidate by filling each session's groups
// against the apportioned position targets from shuffled position pools.
func randomIndividual(ctxs []sessionCtx, rng *rand.Rand) individual {
	ind := make(individual, len(ctxs))
	for si := range ctxs {
		ctx := &ctxs[si]
		sizes := EqualGroupSizes(ctx.n, ctx.groupNum)
		targets := ctx.session.PositionTargets
		if targets == nil {
			targets = PositionTargets(model.CountByPosition(ctx.session.Participants), sizes)
		}

		var pools [model.NumPositions][]int
		for idx, pos := range ctx.positions {
			pools[pos] = append(pools[pos], idx)
		}
		for _, pos := range model.Positions {
			rng.Shuffle(len(pools[pos]), func(i, j int) {
				pools[pos][i], pools[pos][j] = pools[pos][j], pools[pos][i]
			})
		}

		groups := make([][]int, ctx.groupNum)
		for gi := range groups {
			for _, pos := range model.Positions {
				for need := targets[gi][pos]; need > 0 && len(pools[pos]) > 0; need-- {
					last := len(pools[pos]) - 1
					groups[gi] = append(groups[gi], pools[pos][last])
					pools[pos] = pools[pos][:last]
				}
			}
		}
		ind[si] = repairSession(ctx, groups, rng)
	}
	return ind
}
