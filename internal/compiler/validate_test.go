package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ecsaccess/internal/ir"
)

func readQuery(components ...string) ir.Param {
	q := &ir.QuerySpec{}
	for _, c := range components {
		q.Data = append(q.Data, ir.DataTerm{Kind: ir.TermRead, Component: c})
	}
	return ir.Param{Kind: ir.ParamQuery, Query: q}
}

func validSchedule() *ir.Schedule {
	return &ir.Schedule{
		Name: "Update",
		Systems: []ir.SystemSpec{
			{Name: "a", Params: []ir.Param{readQuery("Transform")}, Before: []string{"b"}},
			{Name: "b", Params: []ir.Param{{Kind: ir.ParamRes, Resource: "Time"}}},
		},
	}
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateScheduleValid(t *testing.T) {
	assert.Empty(t, Validate(validSchedule()))
	assert.Empty(t, Validate(*validSchedule()), "value form is accepted")
}

func TestValidateUnsupportedType(t *testing.T) {
	errs := Validate(42)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnsupportedIRType, errs[0].Code)
	assert.Contains(t, errs[0].Message, "int")
}

func TestValidateScheduleEmpty(t *testing.T) {
	errs := Validate(&ir.Schedule{Name: "Empty"})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrScheduleEmpty, errs[0].Code)
}

func TestValidateSystemNoParams(t *testing.T) {
	s := validSchedule()
	s.Systems[1].Params = nil

	errs := Validate(s)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrSystemNoParams, errs[0].Code)
	assert.Equal(t, "systems[1].params", errs[0].Field)
}

func TestValidateDuplicateSystem(t *testing.T) {
	s := validSchedule()
	s.Systems[1].Name = "a"
	s.Systems[0].Before = nil

	errs := Validate(s)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateName, errs[0].Code)
	assert.Contains(t, errs[0].Message, `"a"`)
}

func TestValidateDeclaredNames(t *testing.T) {
	s := validSchedule()
	s.Components = []string{"A", "", "A"}

	assert.Equal(t, []string{ErrEmptyName, ErrDuplicateName}, codes(Validate(s)))
}

func TestValidateOrdering(t *testing.T) {
	t.Run("unknown target", func(t *testing.T) {
		s := validSchedule()
		s.Systems[1].After = []string{"ghost"}

		errs := Validate(s)
		require.Len(t, errs, 1)
		assert.Equal(t, ErrUnknownOrderingTarget, errs[0].Code)
		assert.Equal(t, "systems[1].after[0]", errs[0].Field)
	})

	t.Run("self ordering", func(t *testing.T) {
		s := validSchedule()
		s.Systems[1].Before = []string{"b"}

		assert.Equal(t, []string{ErrSelfOrdering}, codes(Validate(s)))
	})

	t.Run("cycle", func(t *testing.T) {
		s := validSchedule()
		s.Systems[1].Before = []string{"a"}

		errs := Validate(s)
		require.Len(t, errs, 1)
		assert.Equal(t, ErrOrderingCycle, errs[0].Code)
		assert.Contains(t, errs[0].Message, "a → b → a")
	})
}

func TestValidateParams(t *testing.T) {
	tests := []struct {
		name  string
		param ir.Param
		code  string
		field string
	}{
		{"unknown kind", ir.Param{Kind: "local"}, ErrInvalidParam, "systems[0].params[0].kind"},
		{"res without name", ir.Param{Kind: ir.ParamRes}, ErrInvalidParam, "systems[0].params[0].resource"},
		{"query without query", ir.Param{Kind: ir.ParamQuery}, ErrInvalidParam, "systems[0].params[0].query"},
		{
			"unknown term",
			ir.Param{Kind: ir.ParamQuery, Query: &ir.QuerySpec{Data: []ir.DataTerm{{Kind: "peek", Component: "A"}}}},
			ErrInvalidDataTerm, "systems[0].params[0].query.data[0]",
		},
		{
			"term without component",
			ir.Param{Kind: ir.ParamQuery, Query: &ir.QuerySpec{Data: []ir.DataTerm{{Kind: ir.TermWrite}}}},
			ErrInvalidDataTerm, "systems[0].params[0].query.data[0]",
		},
		{
			"entity term with component",
			ir.Param{Kind: ir.ParamQuery, Query: &ir.QuerySpec{Data: []ir.DataTerm{{Kind: ir.TermEntityMut, Component: "A"}}}},
			ErrInvalidDataTerm, "systems[0].params[0].query.data[0]",
		},
		{
			"repeated term",
			readQuery("A", "A"),
			ErrDuplicateAccess, "systems[0].params[0].query.data[1]",
		},
		{
			"bad filter",
			ir.Param{Kind: ir.ParamQuery, Query: &ir.QuerySpec{Filter: &ir.FilterNode{Op: ir.FilterAll, Args: []ir.FilterNode{{Op: "xor", Component: "A"}}}}},
			ErrInvalidFilter, "systems[0].params[0].query.filter.all[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &ir.Schedule{Name: "S", Systems: []ir.SystemSpec{{Name: "sys", Params: []ir.Param{tt.param}}}}

			errs := Validate(s)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, errs[0].Code)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidateSystemDirect(t *testing.T) {
	errs := Validate(&ir.SystemSpec{Params: []ir.Param{{Kind: ir.ParamWorld}}})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrEmptyName, errs[0].Code)
	assert.Equal(t, "system.name", errs[0].Field)
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "systems", Message: "no systems", Code: ErrScheduleEmpty}
	assert.Equal(t, "[E101] systems: no systems", err.Error())

	err.Line = 7
	assert.Equal(t, "[E101] line 7: systems: no systems", err.Error())
}
