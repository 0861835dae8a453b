// Package model holds the immutable domain values of the group-assignment
// engine: participants with academic positions and laboratory affiliations,
// sessions declaring a group structure, and the programs tying them together.
// All values are constructed at input-parse time and never mutated.
package model

import (
	"fmt"
	"slices"
)

// Participant is a member of the roster. Equality is by identifier.
type Participant struct {
	ID       ParticipantID
	Name     string
	Position Position
	Labs     []string
}

// NewParticipant builds a participant with a generated identifier.
// The name must be non-empty and at least one lab is required.
func NewParticipant(name string, position Position, labs []string) (Participant, error) {
	if name == "" {
		return Participant{}, fmt.Errorf("%w: participant name cannot be empty", ErrInvalidInput)
	}
	if len(labs) == 0 {
		return Participant{}, fmt.Errorf("%w: participant %q has no laboratory", ErrInvalidInput, name)
	}
	return Participant{
		ID:       NewParticipantID(),
		Name:     name,
		Position: position,
		Labs:     slices.Clone(labs),
	}, nil
}

// SharesLab reports whether the two participants claim any laboratory in
// common. Conflict detection is intersection-based, not exact equality.
func (p Participant) SharesLab(other Participant) bool {
	for _, lab := range p.Labs {
		if slices.Contains(other.Labs, lab) {
			return true
		}
	}
	return false
}

// SameLabs reports whether the two participants carry identical lab lists
// (order-sensitive).
func (p Participant) SameLabs(other Participant) bool {
	return slices.Equal(p.Labs, other.Labs)
}

func (p Participant) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Position)
}

// Session declares one round of grouping: a group count, size bounds, the
// ordered roster, and optionally explicit per-group position quotas.
type Session struct {
	ID              SessionID
	GroupNum        int
	Min             int
	Max             int
	Participants    []Participant
	PositionTargets []PositionCount // nil unless the input declared quotas
}

// NewSession validates the structural invariants and builds a session with a
// generated identifier. When targets are present their length must equal the
// group count, column sums must equal the roster's position totals, and each
// row sum must lie within [min, max].
func NewSession(groupNum, min, max int, participants []Participant, targets []PositionCount) (Session, error) {
	if groupNum < 1 {
		return Session{}, fmt.Errorf("%w: group_num must be positive, got %d", ErrInvalidInput, groupNum)
	}
	if min < 1 || min > max {
		return Session{}, fmt.Errorf("%w: size bounds must satisfy 1 <= min <= max, got [%d, %d]", ErrInvalidInput, min, max)
	}
	if len(participants) == 0 {
		return Session{}, fmt.Errorf("%w: session roster is empty", ErrInvalidInput)
	}
	seen := make(map[ParticipantID]bool, len(participants))
	for _, p := range participants {
		if seen[p.ID] {
			return Session{}, fmt.Errorf("%w: participant %s appears twice in session roster", ErrInvalidInput, p.Name)
		}
		seen[p.ID] = true
	}
	if targets != nil {
		if len(targets) != groupNum {
			return Session{}, fmt.Errorf("%w: position_targets has %d entries, want %d", ErrInvalidInput, len(targets), groupNum)
		}
		totals := CountByPosition(participants)
		var colSums PositionCount
		for g, row := range targets {
			rowSum := 0
			for _, pos := range Positions {
				if row[pos] < 0 {
					return Session{}, fmt.Errorf("%w: negative target for %s in group %d", ErrInvalidInput, pos, g+1)
				}
				colSums[pos] += row[pos]
				rowSum += row[pos]
			}
			if rowSum < min || rowSum > max {
				return Session{}, fmt.Errorf("%w: group %d target size %d outside [%d, %d]", ErrInvalidInput, g+1, rowSum, min, max)
			}
		}
		if colSums != totals {
			return Session{}, fmt.Errorf("%w: position_targets column sums %v do not match roster totals %v", ErrInvalidInput, colSums, totals)
		}
	}
	return Session{
		ID:              NewSessionID(),
		GroupNum:        groupNum,
		Min:             min,
		Max:             max,
		Participants:    slices.Clone(participants),
		PositionTargets: slices.Clone(targets),
	}, nil
}

// CountByPosition tallies a roster by position.
func CountByPosition(participants []Participant) PositionCount {
	var c PositionCount
	for _, p := range participants {
		c[p.Position]++
	}
	return c
}

// Program is the full request: the roster and the session sequence. Every
// session roster is a subset of the program's participants.
type Program struct {
	ID           ProgramID
	Participants []Participant
	Sessions     []Session
}

// NewProgram validates the subset invariant and builds a program with a
// generated identifier.
func NewProgram(participants []Participant, sessions []Session) (Program, error) {
	known := make(map[ParticipantID]bool, len(participants))
	for _, p := range participants {
		known[p.ID] = true
	}
	for i, s := range sessions {
		for _, p := range s.Participants {
			if !known[p.ID] {
				return Program{}, fmt.Errorf("%w: session %d roster contains unknown participant %s", ErrInvalidInput, i+1, p.Name)
			}
		}
	}
	return Program{
		ID:           NewProgramID(),
		Participants: slices.Clone(participants),
		Sessions:     slices.Clone(sessions),
	}, nil
}
