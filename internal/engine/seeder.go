package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// Placement scoring constants. Lower is better; hard filters run before
// scoring, so these only rank the surviving candidates.
const (
	seenPairPenalty  = 1000.0
	sharedLabPenalty = 500.0
	underMinBonus    = 100.0
	atMaxPenalty     = 1000.0
	sizeDriftWeight  = 20.0
)

// HeuristicConfig tunes the constructive seeder.
type HeuristicConfig struct {
	MaxIterations int   // local-search iteration cap
	Seed          int64 // RNG seed; the same seed reproduces the same solution
}

// DefaultHeuristicConfig returns the standard seeder parameters.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{MaxIterations: 1000}
}

// Heuristic builds a feasible partition per session by filling groups in
// position order against an apportioned target matrix, then polishes the
// result with a local-search pass.
type Heuristic struct {
	cfg HeuristicConfig
}

// NewHeuristic creates a heuristic assigner.
func NewHeuristic(cfg HeuristicConfig) *Heuristic {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultHeuristicConfig().MaxIterations
	}
	return &Heuristic{cfg: cfg}
}

// pairKey is an unordered pair of participant identifiers.
type pairKey struct {
	a, b model.ParticipantID
}

func makePair(x, y model.ParticipantID) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// CheckFeasible rejects sessions whose roster cannot be partitioned into
// group_num groups within the size bounds.
func CheckFeasible(s model.Session) error {
	n := len(s.Participants)
	if n < s.GroupNum*s.Min || n > s.GroupNum*s.Max {
		return fmt.Errorf("%w: %d participants cannot form %d groups of size [%d, %d]",
			model.ErrInfeasible, n, s.GroupNum, s.Min, s.Max)
	}
	return nil
}

// AssignGroups produces a Solution for the program.
func (h *Heuristic) AssignGroups(program model.Program) (model.Solution, error) {
	for _, s := range program.Sessions {
		if err := CheckFeasible(s); err != nil {
			return nil, err
		}
	}
	rng := rand.New(rand.NewSource(h.cfg.Seed))

	working := make([][][]model.Participant, len(program.Sessions))
	usedPairs := make(map[pairKey]bool)
	labConflicts := make(map[string]int)

	for si, session := range program.Sessions {
		working[si] = h.seedSession(session, usedPairs, labConflicts, rng)
	}

	h.localSearch(working, program.Sessions)

	return toSolution(working)
}

// seedSession fills one session's groups against the position target matrix.
// The used-pair memo and lab-conflict tallies persist across sessions so
// later sessions avoid re-pairing earlier partners.
func (h *Heuristic) seedSession(
	session model.Session,
	usedPairs map[pairKey]bool,
	labConflicts map[string]int,
	rng *rand.Rand,
) [][]model.Participant {
	roster := session.Participants
	g := session.GroupNum

	pools := [model.NumPositions][]model.Participant{}
	for _, p := range roster {
		pools[p.Position] = append(pools[p.Position], p)
	}
	for _, pos := range model.Positions {
		rng.Shuffle(len(pools[pos]), func(i, j int) {
			pools[pos][i], pools[pos][j] = pools[pos][j], pools[pos][i]
		})
	}

	sizes := EqualGroupSizes(len(roster), g)
	targets := session.PositionTargets
	if targets == nil {
		targets = PositionTargets(model.CountByPosition(roster), sizes)
	}

	groups := make([][]model.Participant, g)

	// Fill each position in fixed order, smallest groups first.
	for _, pos := range model.Positions {
		order := groupOrderBySize(groups)
		for _, gi := range order {
			need := targets[gi][pos]
			need -= countPosition(groups[gi], pos)
			for need > 0 && len(pools[pos]) > 0 {
				bestIdx := -1
				bestScore := math.Inf(1)
				for ci, cand := range pools[pos] {
					if len(groups[gi]) >= session.Max {
						break
					}
					if !placementAllowed(cand, groups[gi]) {
						continue
					}
					score := placementScore(cand, groups[gi], usedPairs, session.Min, session.Max)
					if score < bestScore {
						bestScore = score
						bestIdx = ci
					}
				}
				if bestIdx < 0 {
					break
				}
				cand := pools[pos][bestIdx]
				groups[gi] = append(groups[gi], cand)
				recordConflicts(cand, groups[gi], usedPairs, labConflicts)
				pools[pos] = append(pools[pos][:bestIdx], pools[pos][bestIdx+1:]...)
				need--
			}
		}
	}

	// Overflow phase: seat whoever the filters left behind in the best-scoring
	// group with room (the hard rejections do not apply here), or in the
	// smallest group when every group is full.
	for _, pos := range model.Positions {
		for _, cand := range pools[pos] {
			gi := bestOverflowGroup(cand, groups, usedPairs, session.Min, session.Max)
			if gi >= 0 {
				groups[gi] = append(groups[gi], cand)
				recordConflicts(cand, groups[gi], usedPairs, labConflicts)
			} else {
				gi = smallestGroup(groups)
				groups[gi] = append(groups[gi], cand)
			}
		}
		pools[pos] = nil
	}

	rebalanceSizes(groups, session.Min, session.Max)
	return groups
}

// placementAllowed applies the hard rejections: at most one Faculty and one
// Doctoral per group, and no laboratory shared with any existing member.
func placementAllowed(cand model.Participant, group []model.Participant) bool {
	for _, m := range group {
		if cand.Position == model.Faculty && m.Position == model.Faculty {
			return false
		}
		if cand.Position == model.Doctoral && m.Position == model.Doctoral {
			return false
		}
		if cand.SharesLab(m) {
			return false
		}
	}
	return true
}

// placementScore ranks a candidate joining a group. Lower is better.
func placementScore(
	cand model.Participant,
	group []model.Participant,
	usedPairs map[pairKey]bool,
	min, max int,
) float64 {
	score := 0.0
	for _, m := range group {
		if usedPairs[makePair(cand.ID, m.ID)] {
			score += seenPairPenalty
		}
		if cand.SharesLab(m) {
			score += sharedLabPenalty
		}
	}
	switch size := len(group); {
	case size < min:
		score -= underMinBonus
	case size >= max:
		score += atMaxPenalty
	default:
		ideal := float64(min+max) / 2
		score += math.Abs(float64(size)-ideal) * sizeDriftWeight
	}
	return score
}

// recordConflicts updates the used-pair memo and per-lab conflict tallies
// after cand has been appended to group.
func recordConflicts(
	cand model.Participant,
	group []model.Participant,
	usedPairs map[pairKey]bool,
	labConflicts map[string]int,
) {
	for _, m := range group {
		if m.ID == cand.ID {
			continue
		}
		usedPairs[makePair(cand.ID, m.ID)] = true
		for _, lab := range cand.Labs {
			for _, other := range m.Labs {
				if lab == other {
					labConflicts[lab]++
				}
			}
		}
	}
}

// bestOverflowGroup ranks size-feasible groups by the placement score. The
// hard filters are relaxed here; seen-pair and lab penalties still steer the
// choice through the score.
func bestOverflowGroup(
	cand model.Participant,
	groups [][]model.Participant,
	usedPairs map[pairKey]bool,
	min, max int,
) int {
	best := -1
	bestScore := math.Inf(1)
	for gi, group := range groups {
		if len(group) >= max {
			continue
		}
		score := placementScore(cand, group, usedPairs, min, max)
		if score < bestScore {
			bestScore = score
			best = gi
		}
	}
	return best
}

func smallestGroup(groups [][]model.Participant) int {
	best := 0
	for gi := 1; gi < len(groups); gi++ {
		if len(groups[gi]) < len(groups[best]) {
			best = gi
		}
	}
	return best
}

// rebalanceSizes moves tail members from oversized groups into undersized
// ones until every size fits the bounds. Feasibility guarantees a fixpoint.
func rebalanceSizes(groups [][]model.Participant, min, max int) {
	for guard := 0; guard < len(groups)*(max+1); guard++ {
		over, under := -1, -1
		for gi, g := range groups {
			if len(g) > max {
				over = gi
			}
			if len(g) < min {
				under = gi
			}
		}
		if over < 0 || under < 0 {
			return
		}
		last := len(groups[over]) - 1
		groups[under] = append(groups[under], groups[over][last])
		groups[over] = groups[over][:last]
	}
}

func groupOrderBySize(groups [][]model.Participant) []int {
	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(groups[order[a]]) < len(groups[order[b]])
	})
	return order
}

func countPosition(group []model.Participant, pos model.Position) int {
	n := 0
	for _, m := range group {
		if m.Position == pos {
			n++
		}
	}
	return n
}

// localSearch polishes the seeded partitions: per-session same-position
// swaps against the session objective, plus a fairness pass that evens out
// the co-assignment load across participants.
func (h *Heuristic) localSearch(working [][][]model.Participant, sessions []model.Session) {
	for iter := 0; iter < h.cfg.MaxIterations; iter++ {
		improved := false
		if h.improveFairness(working) {
			improved = true
		}
		for si := range working {
			if h.improveSession(working[si], sessions[si]) {
				improved = true
			}
		}
		if !improved {
			return
		}
	}
}

// sessionScore evaluates one session partition: every member contributes
// their intra-group partner count; the score is -mean + 0.1*variance, so
// larger, evener groups score lower.
func sessionScore(groups [][]model.Participant) float64 {
	var counts []float64
	for _, g := range groups {
		for range g {
			counts = append(counts, float64(len(g)-1))
		}
	}
	if len(counts) == 0 {
		return math.Inf(1)
	}
	mean, variance := meanVariance(counts)
	return -mean + variance*0.1
}

// meanVariance sorts its input first so the floating-point accumulation
// order is independent of map iteration order at the call sites.
func meanVariance(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sort.Float64s(values)
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	sq := 0.0
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, sq / float64(len(values))
}

// improveSession tries every same-position swap across group pairs and
// applies the first strict improvement of the session objective.
func (h *Heuristic) improveSession(groups [][]model.Participant, session model.Session) bool {
	current := sessionScore(groups)
	for g1 := 0; g1 < len(groups); g1++ {
		for g2 := g1 + 1; g2 < len(groups); g2++ {
			for i1, p1 := range groups[g1] {
				for i2, p2 := range groups[g2] {
					if p1.Position != p2.Position {
						continue
					}
					groups[g1][i1], groups[g2][i2] = groups[g2][i2], groups[g1][i1]
					if sessionScore(groups) < current {
						return true
					}
					groups[g1][i1], groups[g2][i2] = groups[g2][i2], groups[g1][i1]
				}
			}
		}
	}
	return false
}

// improveFairness targets participants with the lowest co-assignment totals
// or with repeated partners, and accepts a same-position swap when it lowers
// the variance of the totals or raises the minimum.
func (h *Heuristic) improveFairness(working [][][]model.Participant) bool {
	totals := coSitTotals(working)
	if len(totals) == 0 {
		return false
	}
	minTotal, maxTotal := math.Inf(1), math.Inf(-1)
	for _, v := range totals {
		minTotal = math.Min(minTotal, float64(v))
		maxTotal = math.Max(maxTotal, float64(v))
	}
	threshold := minTotal + (maxTotal-minTotal)*0.2

	priority := make(map[model.ParticipantID]bool)
	for id, v := range totals {
		if float64(v) <= threshold {
			priority[id] = true
		}
	}
	for id := range repeatedPartnerIDs(working) {
		priority[id] = true
	}

	_, baseVariance := totalsMeanVariance(totals)
	for si := range working {
		groups := working[si]
		for g1 := 0; g1 < len(groups); g1++ {
			for i1, p1 := range groups[g1] {
				if !priority[p1.ID] {
					continue
				}
				for g2 := 0; g2 < len(groups); g2++ {
					if g2 == g1 {
						continue
					}
					for i2, p2 := range groups[g2] {
						if p1.Position != p2.Position {
							continue
						}
						groups[g1][i1], groups[g2][i2] = groups[g2][i2], groups[g1][i1]
						newTotals := coSitTotals(working)
						_, newVariance := totalsMeanVariance(newTotals)
						newMin := math.Inf(1)
						for _, v := range newTotals {
							newMin = math.Min(newMin, float64(v))
						}
						if newVariance < baseVariance || newMin > minTotal {
							return true
						}
						groups[g1][i1], groups[g2][i2] = groups[g2][i2], groups[g1][i1]
					}
				}
			}
		}
	}
	return false
}

// coSitTotals counts, per participant, the total number of co-assignments
// across all sessions (repeats included).
func coSitTotals(working [][][]model.Participant) map[model.ParticipantID]int {
	totals := make(map[model.ParticipantID]int)
	for _, groups := range working {
		for _, g := range groups {
			for _, p := range g {
				totals[p.ID] += len(g) - 1
			}
		}
	}
	return totals
}

func repeatedPartnerIDs(working [][][]model.Participant) map[model.ParticipantID]bool {
	counts := make(map[pairKey]int)
	for _, groups := range working {
		for _, g := range groups {
			for i := 0; i < len(g); i++ {
				for j := i + 1; j < len(g); j++ {
					counts[makePair(g[i].ID, g[j].ID)]++
				}
			}
		}
	}
	out := make(map[model.ParticipantID]bool)
	for pair, c := range counts {
		if c >= 2 {
			out[pair.a] = true
			out[pair.b] = true
		}
	}
	return out
}

func totalsMeanVariance(totals map[model.ParticipantID]int) (float64, float64) {
	values := make([]float64, 0, len(totals))
	for _, v := range totals {
		values = append(values, float64(v))
	}
	return meanVariance(values)
}

// toSolution converts the working representation into domain Groups.
func toSolution(working [][][]model.Participant) (model.Solution, error) {
	sol := make(model.Solution, len(working))
	for si, groups := range working {
		gs, err := model.GroupsOf(nil)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			gs, err = gs.Add(model.NewGroup(g))
			if err != nil {
				return nil, err
			}
		}
		sol[si] = gs
	}
	return sol, nil
}
