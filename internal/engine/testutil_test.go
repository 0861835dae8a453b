package engine

import (
	"math/rand"
	"testing"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

func newTestRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func mustParticipant(t *testing.T, name string, pos model.Position, labs ...string) model.Participant {
	t.Helper()
	p, err := model.NewParticipant(name, pos, labs)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func mustSession(t *testing.T, groupNum, min, max int, roster []model.Participant) model.Session {
	t.Helper()
	s, err := model.NewSession(groupNum, min, max, roster, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustProgram(t *testing.T, roster []model.Participant, sessions ...model.Session) model.Program {
	t.Helper()
	p, err := model.NewProgram(roster, sessions)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// checkPartition asserts the partition invariants: the groups at each
// session cover the roster exactly once, the group count matches, and every
// size lies within the bounds.
func checkPartition(t *testing.T, sol model.Solution, program model.Program) {
	t.Helper()
	for si, session := range program.Sessions {
		groups, ok := sol[si]
		if !ok {
			t.Fatalf("session %d missing from solution", si)
		}
		if groups.Len() != session.GroupNum {
			t.Errorf("session %d has %d groups, want %d", si, groups.Len(), session.GroupNum)
		}
		seen := make(map[model.ParticipantID]int)
		for _, g := range groups.All() {
			if g.Size() < session.Min || g.Size() > session.Max {
				t.Errorf("session %d group size %d outside [%d, %d]", si, g.Size(), session.Min, session.Max)
			}
			for _, p := range g.Members {
				seen[p.ID]++
			}
		}
		for _, p := range session.Participants {
			if seen[p.ID] != 1 {
				t.Errorf("session %d: participant %s appears %d times", si, p.Name, seen[p.ID])
			}
		}
		if len(seen) != len(session.Participants) {
			t.Errorf("session %d covers %d participants, want %d", si, len(seen), len(session.Participants))
		}
	}
}

// solutionKey flattens a solution into a comparable string of member ids.
func solutionKey(sol model.Solution) string {
	key := ""
	for si := 0; si < len(sol); si++ {
		key += "|"
		for _, g := range sol[si].All() {
			key += "["
			for _, p := range g.Members {
				key += string(p.ID) + ","
			}
			key += "]"
		}
	}
	return key
}

// eightBalanced builds 2 Faculty / 2 Doctoral / 2 Master / 2 Bachelor with
// distinct labs.
func eightBalanced(t *testing.T) []model.Participant {
	t.Helper()
	return []model.Participant{
		mustParticipant(t, "F1", model.Faculty, "LabA"),
		mustParticipant(t, "F2", model.Faculty, "LabB"),
		mustParticipant(t, "D1", model.Doctoral, "LabC"),
		mustParticipant(t, "D2", model.Doctoral, "LabD"),
		mustParticipant(t, "M1", model.Master, "LabE"),
		mustParticipant(t, "M2", model.Master, "LabF"),
		mustParticipant(t, "B1", model.Bachelor, "LabG"),
		mustParticipant(t, "B2", model.Bachelor, "LabH"),
	}
}
