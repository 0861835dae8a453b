package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	for _, token := range []string{"Faculty", "Doctoral", "Master", "Bachelor"} {
		pos, err := ParsePosition(token)
		require.NoError(t, err)
		assert.Equal(t, token, pos.String())
	}

	_, err := ParsePosition("Postdoc")
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Position values are canonical tokens, not case-insensitive.
	_, err = ParsePosition("faculty")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParsePositionKeyCaseInsensitive(t *testing.T) {
	pos, ok := ParsePositionKey("FACULTY")
	require.True(t, ok)
	assert.Equal(t, Faculty, pos)

	pos, ok = ParsePositionKey(" bachelor ")
	require.True(t, ok)
	assert.Equal(t, Bachelor, pos)

	_, ok = ParsePositionKey("staff")
	assert.False(t, ok)
}

func TestParticipantIDPrefixHandling(t *testing.T) {
	id := NewParticipantID()
	assert.Regexp(t, `^participant-[0-9A-HJKMNP-Z]{26}$`, id.String())

	// Parsing accepts the prefixed and the bare form and yields the same
	// canonical value.
	prefixed, err := ParseParticipantID(id.String())
	require.NoError(t, err)
	bare, err := ParseParticipantID(string(id))
	require.NoError(t, err)
	assert.Equal(t, prefixed, bare)
}

func TestParseIDRejectsBadBodies(t *testing.T) {
	cases := []string{
		"",
		"participant-",
		"participant-tooshort",
		"participant-01ARZ3NDEKTSV4RRFFQ69G5FAI", // contains I
		"01ARZ3NDEKTSV4RRFFQ69G5FA",              // 25 chars
	}
	for _, c := range cases {
		_, err := ParseParticipantID(c)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, "input %q", c)
	}
}

func TestNewParticipantValidation(t *testing.T) {
	_, err := NewParticipant("", Faculty, []string{"LabA"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewParticipant("Prof", Faculty, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err := NewParticipant("Prof", Faculty, []string{"LabA", "LabB"})
	require.NoError(t, err)
	assert.Equal(t, []string{"LabA", "LabB"}, p.Labs)
}

func TestSharesLabIsIntersectionBased(t *testing.T) {
	a, err := NewParticipant("A", Master, []string{"LabX", "LabY"})
	require.NoError(t, err)
	b, err := NewParticipant("B", Master, []string{"LabY", "LabZ"})
	require.NoError(t, err)
	c, err := NewParticipant("C", Master, []string{"LabQ"})
	require.NoError(t, err)

	assert.True(t, a.SharesLab(b))
	assert.True(t, b.SharesLab(a), "lab conflict must be symmetric")
	assert.False(t, a.SharesLab(c))

	assert.False(t, a.SameLabs(b))
	assert.True(t, a.SameLabs(a))
}

func TestNewSessionValidation(t *testing.T) {
	roster := testRoster(t, 8)

	_, err := NewSession(0, 2, 4, roster, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSession(2, 4, 2, roster, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSession(2, 0, 4, roster, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSession(2, 2, 4, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	duplicated := append([]Participant{roster[0]}, roster...)
	_, err = NewSession(3, 2, 4, duplicated, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	s, err := NewSession(2, 4, 4, roster, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.GroupNum)
}

func TestNewSessionTargetValidation(t *testing.T) {
	roster := testRoster(t, 8) // 2 of each position

	// Wrong length.
	_, err := NewSession(2, 4, 4, roster, []PositionCount{{1, 1, 1, 1}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Column sums do not match roster totals.
	_, err = NewSession(2, 4, 4, roster, []PositionCount{{2, 1, 1, 0}, {1, 1, 1, 1}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Row sum outside the bounds.
	_, err = NewSession(2, 4, 4, roster, []PositionCount{{2, 2, 2, 2}, {0, 0, 0, 0}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Consistent targets pass.
	s, err := NewSession(2, 4, 4, roster, []PositionCount{{1, 1, 1, 1}, {1, 1, 1, 1}})
	require.NoError(t, err)
	require.Len(t, s.PositionTargets, 2)
}

func TestNewProgramSubsetInvariant(t *testing.T) {
	roster := testRoster(t, 8)
	outsider, err := NewParticipant("Outsider", Master, []string{"LabZ"})
	require.NoError(t, err)

	session, err := NewSession(2, 4, 4, roster, nil)
	require.NoError(t, err)

	_, err = NewProgram(roster, []Session{session})
	require.NoError(t, err)

	orphanSession, err := NewSession(1, 1, 1, []Participant{outsider}, nil)
	require.NoError(t, err)
	_, err = NewProgram(roster, []Session{orphanSession})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGroupsRejectsDuplicateIDs(t *testing.T) {
	roster := testRoster(t, 4)
	g := NewGroup(roster[:2])

	gs, err := GroupsOf([]Group{g})
	require.NoError(t, err)

	_, err = gs.Add(g)
	assert.ErrorIs(t, err, ErrInvalidInput)

	other := NewGroup(roster[2:])
	gs, err = gs.Add(other)
	require.NoError(t, err)
	assert.Equal(t, 2, gs.Len())
	assert.Equal(t, g.ID, gs.At(0).ID, "insertion order is the group order")
}

// testRoster builds n participants cycling through the positions, each with
// a distinct lab.
func testRoster(t *testing.T, n int) []Participant {
	t.Helper()
	out := make([]Participant, 0, n)
	for i := 0; i < n; i++ {
		pos := Positions[i%NumPositions]
		p, err := NewParticipant(
			string(rune('A'+i)),
			pos,
			[]string{"Lab" + string(rune('A'+i))},
		)
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}
