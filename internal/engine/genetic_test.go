package engine

import (
	"testing"
	"time"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

func fastHybridConfig(seed int64) HybridConfig {
	return HybridConfig{
		NumHeuristicSeeds:   4,
		Generations:         40,
		PopulationSize:      16,
		MutationRate:        0.1,
		TimeBudget:          30 * time.Second,
		HeuristicIterations: 50,
		Seed:                seed,
	}
}

func TestHybridPartitionInvariants(t *testing.T) {
	roster := eightBalanced(t)
	program := mustProgram(t, roster,
		mustSession(t, 2, 4, 4, roster),
		mustSession(t, 2, 4, 4, roster))

	sol, err := NewHybrid(fastHybridConfig(1)).AssignGroups(program)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, sol, program)

	if score := (AverageRepeatEvaluator{}).Evaluate(sol); score > 1 {
		t.Errorf("avg repeat = %v, want <= 1", score)
	}
}

func TestHybridDeterministic(t *testing.T) {
	roster := eightBalanced(t)
	program := mustProgram(t, roster,
		mustSession(t, 2, 4, 4, roster),
		mustSession(t, 2, 4, 4, roster))

	first, err := NewHybrid(fastHybridConfig(7)).AssignGroups(program)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewHybrid(fastHybridConfig(7)).AssignGroups(program)
	if err != nil {
		t.Fatal(err)
	}
	if solutionKey(first) != solutionKey(second) {
		t.Error("same seed produced different solutions")
	}
}

func TestHybridAllFacultySchedule(t *testing.T) {
	// 12 Faculty with 12 distinct labs, 3 sessions of 3 groups of 4. Lab
	// collisions are impossible; the optimizer should spread partners so
	// every participant meets at least 7 distinct others.
	var roster []model.Participant
	labs := []string{"L1", "L2", "L3", "L4", "L5", "L6", "L7", "L8", "L9", "L10", "L11", "L12"}
	for i, lab := range labs {
		roster = append(roster, mustParticipant(t, lab+"-prof", model.Faculty, labs[i]))
	}
	program := mustProgram(t, roster,
		mustSession(t, 3, 4, 4, roster),
		mustSession(t, 3, 4, 4, roster),
		mustSession(t, 3, 4, 4, roster))

	cfg := fastHybridConfig(3)
	cfg.Generations = 300
	sol, err := NewHybrid(cfg).AssignGroups(program)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, sol, program)

	for id, c := range DistinctPartners(sol) {
		if c < 7 {
			t.Errorf("participant %s has only %d distinct partners", id, c)
		}
	}
}

func TestHybridInfeasible(t *testing.T) {
	roster := []model.Participant{
		mustParticipant(t, "A", model.Master, "Lab1"),
		mustParticipant(t, "B", model.Master, "Lab2"),
	}
	program := mustProgram(t, roster, mustSession(t, 1, 3, 4, roster))

	if _, err := NewHybrid(fastHybridConfig(1)).AssignGroups(program); err == nil {
		t.Fatal("expected infeasibility error")
	}
}

func TestRepairSessionRestoresPartition(t *testing.T) {
	roster := eightBalanced(t)
	session := mustSession(t, 2, 4, 4, roster)
	ctx := newSessionCtx(session)
	rng := newTestRand(9)

	// Duplicates and a missing index (7).
	groups := [][]int{{0, 1, 2, 3, 3}, {4, 5, 6, 0}}
	repaired := repairSession(&ctx, groups, rng)

	seen := make(map[int]int)
	for _, g := range repaired {
		if len(g) < session.Min || len(g) > session.Max {
			t.Errorf("group size %d outside bounds", len(g))
		}
		for _, idx := range g {
			seen[idx]++
		}
	}
	for idx := 0; idx < 8; idx++ {
		if seen[idx] != 1 {
			t.Errorf("index %d appears %d times after repair", idx, seen[idx])
		}
	}
}

func TestRepairFacultyCoverage(t *testing.T) {
	// Two Faculty, two groups; stacking both Faculty in one group must be
	// corrected when Faculty count >= group count.
	roster := eightBalanced(t)
	session := mustSession(t, 2, 4, 4, roster)
	ctx := newSessionCtx(session)
	rng := newTestRand(11)

	// Roster order is F F D D M M B B, so indices 0 and 1 are Faculty.
	groups := [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}}
	repaired := repairSession(&ctx, groups, rng)

	for gi, g := range repaired {
		fac := 0
		for _, idx := range g {
			if ctx.positions[idx] == model.Faculty {
				fac++
			}
		}
		if fac == 0 {
			t.Errorf("group %d has no Faculty after repair", gi)
		}
	}
}

func TestCrossoverProducesValidPartition(t *testing.T) {
	roster := eightBalanced(t)
	session := mustSession(t, 2, 4, 4, roster)
	ctxs := []sessionCtx{newSessionCtx(session)}
	rng := newTestRand(5)

	p1 := individual{[][]int{{0, 2, 4, 6}, {1, 3, 5, 7}}}
	p2 := individual{[][]int{{0, 3, 4, 7}, {1, 2, 5, 6}}}
	child := crossover(p1, p2, ctxs, rng)

	seen := make(map[int]int)
	for _, g := range child[0] {
		if len(g) < 4 || len(g) > 4 {
			t.Errorf("child group size %d, want 4", len(g))
		}
		for _, idx := range g {
			seen[idx]++
		}
	}
	for idx := 0; idx < 8; idx++ {
		if seen[idx] != 1 {
			t.Errorf("index %d appears %d times in child", idx, seen[idx])
		}
	}
}

func TestFitnessPrefersFewerRepeats(t *testing.T) {
	roster := eightBalanced(t)
	s1 := mustSession(t, 2, 4, 4, roster)
	s2 := mustSession(t, 2, 4, 4, roster)
	ctxs := []sessionCtx{newSessionCtx(s1), newSessionCtx(s2)}

	// Identical grouping in both sessions: every pair repeats.
	repeating := individual{
		[][]int{{0, 2, 4, 6}, {1, 3, 5, 7}},
		[][]int{{0, 2, 4, 6}, {1, 3, 5, 7}},
	}
	// Regrouped second session: only four pairs repeat. Two groups of 4
	// over two sessions cannot avoid repeats entirely.
	fresh := individual{
		[][]int{{0, 2, 4, 6}, {1, 3, 5, 7}},
		[][]int{{0, 3, 4, 7}, {1, 2, 5, 6}},
	}
	if fitness(fresh, ctxs) <= fitness(repeating, ctxs) {
		t.Error("individual with fewer repeats should score higher")
	}
}

func TestFitnessPenalizesSizeViolations(t *testing.T) {
	roster := eightBalanced(t)
	session := mustSession(t, 2, 4, 4, roster)
	ctxs := []sessionCtx{newSessionCtx(session)}

	balanced := individual{[][]int{{0, 2, 4, 6}, {1, 3, 5, 7}}}
	lopsided := individual{[][]int{{0, 1, 2, 3, 4, 5}, {6, 7}}}
	if fitness(balanced, ctxs) <= fitness(lopsided, ctxs) {
		t.Error("size violations must dominate the fitness")
	}
}
