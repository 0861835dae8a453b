package engine

import (
	"errors"
	"testing"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

func TestNewDispatch(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmHeuristic, AlgorithmGA, AlgorithmHybrid, ""} {
		s := DefaultSettings()
		s.Algorithm = alg
		if _, err := New(s); err != nil {
			t.Errorf("New(%q) failed: %v", alg, err)
		}
	}

	s := DefaultSettings()
	s.Algorithm = "annealing"
	if _, err := New(s); !errors.Is(err, model.ErrInvalidInput) {
		t.Error("unknown algorithm should be rejected as invalid input")
	}
}

func TestExecuteReturnsGroupsAndScore(t *testing.T) {
	roster := []model.Participant{
		mustParticipant(t, "F1", model.Faculty, "LabA"),
		mustParticipant(t, "D1", model.Doctoral, "LabB"),
		mustParticipant(t, "M1", model.Master, "LabC"),
		mustParticipant(t, "B1", model.Bachelor, "LabD"),
	}
	program := mustProgram(t, roster, mustSession(t, 1, 4, 4, roster))

	result, err := Execute(NewHeuristic(DefaultHeuristicConfig()), AverageRepeatEvaluator{}, program)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, result.Groups, program)
	if result.Score != 0 {
		t.Errorf("score = %v, want 0", result.Score)
	}
}
