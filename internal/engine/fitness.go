package engine

import "github.com/KotaKunori/GroupAssigner/internal/model"

// Composite fitness weights. Feasibility dominates; among the soft terms
// the priority order pair > spread > range > lab is contractual.
const (
	weightSize   = 1_000_000.0
	weightPair   = 100.0
	weightSpread = 500.0
	weightRange  = 100.0
	weightLab    = 50.0
)

// fitness scores an individual; larger is better (negated penalty).
// Pure over the individual and the frozen session contexts, so population
// scoring can run concurrently.
func fitness(ind individual, ctxs []sessionCtx) float64 {
	sizePen := 0.0
	labPen := 0.0
	together := make(map[pairKey]int)
	mates := make(map[model.ParticipantID]map[model.ParticipantID]bool)

	for si, ctx := range ctxs {
		for _, g := range ind[si] {
			if len(g) < ctx.min || len(g) > ctx.max {
				sizePen++
			}

			for i := 0; i < len(g); i++ {
				a := ctx.ids[g[i]]
				if mates[a] == nil {
					mates[a] = make(map[model.ParticipantID]bool)
				}
				for j := i + 1; j < len(g); j++ {
					b := ctx.ids[g[j]]
					if mates[b] == nil {
						mates[b] = make(map[model.ParticipantID]bool)
					}
					together[makePair(a, b)]++
					mates[a][b] = true
					mates[b][a] = true
				}
			}

			labCount := make(map[string]int)
			for _, idx := range g {
				for _, lab := range ctx.labs[idx] {
					labCount[lab]++
				}
			}
			for _, c := range labCount {
				if c > 1 {
					labPen += float64((c - 1) * c / 2)
				}
			}
		}
	}

	pairPen := 0.0
	for _, c := range together {
		if c > 1 {
			pairPen += float64((c - 1) * c / 2)
		}
	}

	spreadPen := 0.0
	rangePen := 0.0
	if len(mates) > 0 {
		counts := make([]float64, 0, len(mates))
		minC, maxC := float64(len(mates)), 0.0
		for _, set := range mates {
			c := float64(len(set))
			counts = append(counts, c)
			if c < minC {
				minC = c
			}
			if c > maxC {
				maxC = c
			}
		}
		_, variance := meanVariance(counts)
		spreadPen = variance
		rangePen = maxC - minC
	}

	return -(weightSize*sizePen +
		weightPair*pairPen +
		weightSpread*spreadPen +
		weightRange*rangePen +
		weightLab*labPen)
}
