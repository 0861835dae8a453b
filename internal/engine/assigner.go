package engine

import (
	"fmt"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// Assigner partitions every session of a program into groups.
type Assigner interface {
	AssignGroups(program model.Program) (model.Solution, error)
}

// Algorithm selects which assigner implementation to run.
type Algorithm string

const (
	AlgorithmHeuristic Algorithm = "heuristic" // constructive seeder + local search
	AlgorithmGA        Algorithm = "ga"        // pure genetic optimizer
	AlgorithmHybrid    Algorithm = "hybrid"    // heuristic-seeded genetic optimizer
)

// Settings bundles the algorithm choice with the per-algorithm tuning.
type Settings struct {
	Algorithm Algorithm
	Heuristic HeuristicConfig
	GA        GAConfig
	Hybrid    HybridConfig
}

// DefaultSettings returns the hybrid assigner with standard tuning.
func DefaultSettings() Settings {
	return Settings{
		Algorithm: AlgorithmHybrid,
		Heuristic: DefaultHeuristicConfig(),
		GA:        DefaultGAConfig(),
		Hybrid:    DefaultHybridConfig(),
	}
}

// New resolves the settings into an assigner.
func New(s Settings) (Assigner, error) {
	switch s.Algorithm {
	case AlgorithmHeuristic:
		return NewHeuristic(s.Heuristic), nil
	case AlgorithmGA:
		return NewGA(s.GA), nil
	case AlgorithmHybrid, "":
		return NewHybrid(s.Hybrid), nil
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", model.ErrInvalidInput, s.Algorithm)
	}
}

// Result pairs the assigned groups with their evaluation score.
type Result struct {
	Groups model.Solution
	Score  float64
}

// Execute runs the assigner on the program and scores the returned solution.
// The inputs are not modified.
func Execute(assigner Assigner, evaluator Evaluator, program model.Program) (Result, error) {
	sol, err := assigner.AssignGroups(program)
	if err != nil {
		return Result{}, err
	}
	return Result{Groups: sol, Score: evaluator.Evaluate(sol)}, nil
}
