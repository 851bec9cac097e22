package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPopMatchedNesting(t *testing.T) {
	m := New()
	require.NoError(t, m.Push(ModeWorld))
	require.NoError(t, m.Push(ModeAttribute))
	require.NoError(t, m.Pop(ModeAttribute))
	require.NoError(t, m.Pop(ModeWorld))
	require.Equal(t, ModeOuter, m.Current())
}

func TestMismatchedEndIsError(t *testing.T) {
	m := New()
	require.NoError(t, m.Push(ModeWorld))
	require.NoError(t, m.Push(ModeAttribute))
	require.Error(t, m.Pop(ModeWorld))
}

func TestGeometryNotAllowedOutsideWorld(t *testing.T) {
	m := New()
	require.Error(t, m.AllowGeometry())
	require.NoError(t, m.Push(ModeWorld))
	require.NoError(t, m.AllowGeometry())
}

func TestMotionBlockSignatureMismatchIsError(t *testing.T) {
	m := New()
	require.NoError(t, m.Push(ModeWorld))
	require.NoError(t, m.BeginMotion([]float64{0, 1}))
	require.NoError(t, m.CheckMotionSample("Translate", 3))
	require.Error(t, m.CheckMotionSample("Rotate", 4))
}

func TestMotionBlockSampleCountMismatch(t *testing.T) {
	m := New()
	require.NoError(t, m.Push(ModeWorld))
	require.NoError(t, m.BeginMotion([]float64{0, 1, 2}))
	require.NoError(t, m.CheckMotionSample("Translate", 3))
	require.NoError(t, m.CheckMotionSample("Translate", 3))
	require.Error(t, m.EndMotion())
}

func TestConditionalBranchSelection(t *testing.T) {
	m := New()
	require.NoError(t, m.Push(ModeWorld))
	require.NoError(t, m.BeginIf(func(map[string]any, map[string]any) bool { return false }))
	require.False(t, m.BranchActive())
	require.NoError(t, m.ElseIf(func(map[string]any, map[string]any) bool { return true }))
	require.True(t, m.BranchActive())
	require.NoError(t, m.Else())
	require.False(t, m.BranchActive())
	require.NoError(t, m.EndIf())
}

func TestNestedConditionalInsideInactiveBranchStaysInactive(t *testing.T) {
	m := New()
	require.NoError(t, m.Push(ModeWorld))
	require.NoError(t, m.BeginIf(func(map[string]any, map[string]any) bool { return false }))
	require.False(t, m.BranchActive())

	require.NoError(t, m.BeginIf(func(map[string]any, map[string]any) bool { return true }))
	require.False(t, m.BranchActive(), "a true condition cannot reactivate a discarded branch")
	require.NoError(t, m.Else())
	require.False(t, m.BranchActive())
	require.NoError(t, m.EndIf())

	require.NoError(t, m.EndIf())
}
