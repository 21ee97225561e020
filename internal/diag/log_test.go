package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmitFiltersByLevel(t *testing.T) {
	log := NewLog(LevelWarning)
	log.Emit(LevelDebug, "debug note", nil)
	require.Empty(t, log.Lines())

	log.Emit(LevelWarning, "warning note", []string{"detail"})
	require.Equal(t, []string{"warning note", "detail"}, log.Lines())
}

func TestEmitOnNilLogIsNoop(t *testing.T) {
	var log *Log
	require.NotPanics(t, func() {
		log.Emit(LevelWarning, "x", nil)
	})
	require.Nil(t, log.Lines())
}

func TestTraceIndentOutdent(t *testing.T) {
	tr := NewTrace("resolve %q", "./a")
	tr.Notef("top level")
	tr.Indent()
	tr.Notef("nested")
	tr.Indent()
	tr.Notef("deeper")
	tr.Outdent()
	tr.Notef("back to nested")
	tr.Outdent()
	tr.Notef("back to top")

	log := NewLog(LevelVerbose)
	tr.FlushTo(log, LevelVerbose)

	require.Equal(t, []string{
		`resolve "./a"`,
		"top level",
		"  nested",
		"    deeper",
		"  back to nested",
		"back to top",
	}, log.Lines())
}

func TestOutdentNeverGoesNegative(t *testing.T) {
	tr := NewTrace("x")
	tr.Outdent()
	tr.Notef("still at top")
	log := NewLog(LevelVerbose)
	tr.FlushTo(log, LevelVerbose)
	require.Equal(t, []string{"x", "still at top"}, log.Lines())
}

func TestFlushToRespectsLevel(t *testing.T) {
	tr := NewTrace("quiet call")
	tr.Notef("should not surface")
	log := NewLog(LevelWarning)
	tr.FlushTo(log, LevelVerbose)
	require.Empty(t, log.Lines())
}

func TestNilTraceMethodsAreNoop(t *testing.T) {
	var tr *Trace
	require.NotPanics(t, func() {
		tr.Notef("x")
		tr.FlushTo(NewLog(LevelVerbose), LevelVerbose)
	})
}
