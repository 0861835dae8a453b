package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Identifier prefixes. An identifier renders as "<prefix>-<26-char ULID>";
// equality ignores whether the prefix is present on either side, so the
// canonical stored form is the bare body.
const (
	ParticipantIDPrefix = "participant"
	GroupIDPrefix       = "group"
	SessionIDPrefix     = "session"
	ProgramIDPrefix     = "program"
)

// ulidBodyPattern matches a Crockford base32 ULID body (no I, L, O, U).
var ulidBodyPattern = regexp.MustCompile(`^[0-9a-hjkmnp-zA-HJKMNP-Z]{26}$`)

func parseBody(prefix, value string) (string, error) {
	body := strings.TrimPrefix(value, prefix+"-")
	if !ulidBodyPattern.MatchString(body) {
		return "", fmt.Errorf("%w: %s %q", ErrInvalidIdentifier, prefix, value)
	}
	return body, nil
}

// ParticipantID identifies a participant. The zero value is invalid.
type ParticipantID string

// NewParticipantID generates a fresh participant identifier.
func NewParticipantID() ParticipantID {
	return ParticipantID(ulid.Make().String())
}

// ParseParticipantID validates value, with or without its prefix.
func ParseParticipantID(value string) (ParticipantID, error) {
	body, err := parseBody(ParticipantIDPrefix, value)
	return ParticipantID(body), err
}

func (id ParticipantID) String() string {
	return ParticipantIDPrefix + "-" + string(id)
}

// GroupID identifies a group within a solution.
type GroupID string

// NewGroupID generates a fresh group identifier.
func NewGroupID() GroupID {
	return GroupID(ulid.Make().String())
}

// ParseGroupID validates value, with or without its prefix.
func ParseGroupID(value string) (GroupID, error) {
	body, err := parseBody(GroupIDPrefix, value)
	return GroupID(body), err
}

func (id GroupID) String() string {
	return GroupIDPrefix + "-" + string(id)
}

// SessionID identifies a session.
type SessionID string

// NewSessionID generates a fresh session identifier.
func NewSessionID() SessionID {
	return SessionID(ulid.Make().String())
}

// ParseSessionID validates value, with or without its prefix.
func ParseSessionID(value string) (SessionID, error) {
	body, err := parseBody(SessionIDPrefix, value)
	return SessionID(body), err
}

func (id SessionID) String() string {
	return SessionIDPrefix + "-" + string(id)
}

// ProgramID identifies a program.
type ProgramID string

// NewProgramID generates a fresh program identifier.
func NewProgramID() ProgramID {
	return ProgramID(ulid.Make().String())
}

// ParseProgramID validates value, with or without its prefix.
func ParseProgramID(value string) (ProgramID, error) {
	body, err := parseBody(ProgramIDPrefix, value)
	return ProgramID(body), err
}

func (id ProgramID) String() string {
	return ProgramIDPrefix + "-" + string(id)
}
