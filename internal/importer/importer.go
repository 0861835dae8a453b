// Package importer parses program requests and roster files. JSON is the
// primary request format; CSV and Excel rosters are supported with flexible
// column mapping and case-insensitive header recognition.
package importer

import (
	"encoding/json"
	"fmt"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// programJSON mirrors the request wire format.
type programJSON struct {
	Participants []participantJSON `json:"participants"`
	Sessions     []sessionJSON     `json:"sessions"`
}

type participantJSON struct {
	Name     *string  `json:"name"`
	Position *string  `json:"position"`
	Lab      []string `json:"lab"`
}

type sessionJSON struct {
	GroupNum        *int             `json:"group_num"`
	Min             *int             `json:"min"`
	Max             *int             `json:"max"`
	PositionTargets []map[string]int `json:"position_targets"`
}

// ParseProgram decodes and validates a program request. Structural problems
// are reported as model.ErrInvalidInput.
func ParseProgram(data []byte) (model.Program, error) {
	var raw programJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Program{}, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	if raw.Participants == nil {
		return model.Program{}, fmt.Errorf("%w: missing parameter: participants", model.ErrInvalidInput)
	}
	if raw.Sessions == nil {
		return model.Program{}, fmt.Errorf("%w: missing parameter: sessions", model.ErrInvalidInput)
	}

	participants := make([]model.Participant, 0, len(raw.Participants))
	for i, pj := range raw.Participants {
		p, err := buildParticipant(pj)
		if err != nil {
			return model.Program{}, fmt.Errorf("participant %d: %w", i+1, err)
		}
		participants = append(participants, p)
	}

	sessions := make([]model.Session, 0, len(raw.Sessions))
	for i, sj := range raw.Sessions {
		s, err := buildSession(sj, participants)
		if err != nil {
			return model.Program{}, fmt.Errorf("session %d: %w", i+1, err)
		}
		sessions = append(sessions, s)
	}

	return model.NewProgram(participants, sessions)
}

func buildParticipant(pj participantJSON) (model.Participant, error) {
	if pj.Name == nil {
		return model.Participant{}, fmt.Errorf("%w: missing parameter: name", model.ErrInvalidInput)
	}
	if pj.Position == nil {
		return model.Participant{}, fmt.Errorf("%w: missing parameter: position", model.ErrInvalidInput)
	}
	if pj.Lab == nil {
		return model.Participant{}, fmt.Errorf("%w: missing parameter: lab", model.ErrInvalidInput)
	}
	position, err := model.ParsePosition(*pj.Position)
	if err != nil {
		return model.Participant{}, err
	}
	return model.NewParticipant(*pj.Name, position, pj.Lab)
}

func buildSession(sj sessionJSON, roster []model.Participant) (model.Session, error) {
	if sj.GroupNum == nil {
		return model.Session{}, fmt.Errorf("%w: missing parameter: group_num", model.ErrInvalidInput)
	}
	if sj.Min == nil {
		return model.Session{}, fmt.Errorf("%w: missing parameter: min", model.ErrInvalidInput)
	}
	if sj.Max == nil {
		return model.Session{}, fmt.Errorf("%w: missing parameter: max", model.ErrInvalidInput)
	}

	var targets []model.PositionCount
	if sj.PositionTargets != nil {
		targets = make([]model.PositionCount, 0, len(sj.PositionTargets))
		for _, perGroup := range sj.PositionTargets {
			var row model.PositionCount
			// Missing keys default to zero, unknown keys are ignored.
			for key, v := range perGroup {
				if pos, ok := model.ParsePositionKey(key); ok {
					row[pos] = v
				}
			}
			targets = append(targets, row)
		}
	}

	// Each session's roster equals the program's participants unless the
	// input states otherwise.
	return model.NewSession(*sj.GroupNum, *sj.Min, *sj.Max, roster, targets)
}
