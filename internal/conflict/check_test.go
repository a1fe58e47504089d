package conflict

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ecsaccess/internal/analysis"
	"github.com/roach88/ecsaccess/internal/ir"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheck(t *testing.T) {
	s := gameSchedule()

	g, r, err := Check(s, quietLogger())
	require.NoError(t, err)

	assert.Len(t, g.Edges(), 4)
	assert.Equal(t, ir.MustScheduleHash(*s), r.ScheduleHash)
	assert.Len(t, r.Ambiguities(), 3)
}

func TestCheck_ParamConflict(t *testing.T) {
	s := &ir.Schedule{Name: "S", Systems: []ir.SystemSpec{
		{Name: "bad", Params: []ir.Param{
			query(nil, write("A")),
			query(nil, read("A")),
		}},
	}}

	_, _, err := Check(s, quietLogger())
	require.Error(t, err)

	pce, ok := analysis.AsParamConflict(err)
	require.True(t, ok)
	assert.Equal(t, analysis.CodeSystemConflict, pce.Code)
	assert.Equal(t, "bad", pce.System)
	assert.Equal(t, 1, pce.Param)
}
