package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchedule() Schedule {
	return Schedule{
		Name: "update",
		Systems: []SystemSpec{
			{
				Name: "movement",
				Params: []Param{
					{Kind: ParamQuery, Query: &QuerySpec{
						Data: []DataTerm{
							{Kind: TermWrite, Component: "Transform"},
							{Kind: TermRead, Component: "Velocity"},
						},
						Filter: &FilterNode{Op: FilterWithout, Component: "Frozen"},
					}},
					{Kind: ParamRes, Resource: "Time"},
				},
			},
			{
				Name:   "render",
				Params: []Param{{Kind: ParamWorld}},
				After:  []string{"movement"},
			},
		},
	}
}

func TestScheduleHashDeterminism(t *testing.T) {
	h1, err := ScheduleHash(sampleSchedule())
	require.NoError(t, err)
	h2, err := ScheduleHash(sampleSchedule())
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestScheduleHashChangesWithDeclaration(t *testing.T) {
	base := MustScheduleHash(sampleSchedule())

	renamed := sampleSchedule()
	renamed.Systems[0].Name = "move"

	widened := sampleSchedule()
	widened.Systems[0].Params[1].Kind = ParamResMut

	unfiltered := sampleSchedule()
	unfiltered.Systems[0].Params[0].Query.Filter = nil

	assert.NotEqual(t, base, MustScheduleHash(renamed))
	assert.NotEqual(t, base, MustScheduleHash(widened))
	assert.NotEqual(t, base, MustScheduleHash(unfiltered))
}

func TestHashDomainSeparation(t *testing.T) {
	sys := sampleSchedule().Systems[0]
	sysHash, err := SystemHash(sys)
	require.NoError(t, err)

	data, err := MarshalCanonical(sys.Value())
	require.NoError(t, err)

	assert.Equal(t, hashWithDomain(DomainSystem, data), sysHash)
	assert.NotEqual(t, hashWithDomain(DomainSchedule, data), sysHash)
}

func TestReportHash(t *testing.T) {
	r := Report{
		Schedule:     "update",
		ScheduleHash: "abc",
		Conflicts: []ConflictEntry{{
			A:          "a",
			B:          "b",
			Components: NameSet{Names: []string{"Transform"}},
		}},
	}
	h1, err := ReportHash(r)
	require.NoError(t, err)

	r.Conflicts[0].Ordered = true
	h2, err := ReportHash(r)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
