package handle

import (
	"testing"

	"github.com/rmanicore/ri/backend"
	"github.com/stretchr/testify/require"
)

func TestBindAndLookupObjectInt(t *testing.T) {
	b := New()
	b.BindObjectInt(1, backend.Handle(42))
	h, ok := b.LookupObjectInt(1)
	require.True(t, ok)
	require.Equal(t, backend.Handle(42), h)
}

func TestLookupMissingHandleFails(t *testing.T) {
	b := New()
	_, ok := b.LookupObjectString("nope")
	require.False(t, ok)
}

func TestRebindWarns(t *testing.T) {
	b := New()
	var warnings []string
	b.OnWarning(func(msg string) { warnings = append(warnings, msg) })
	b.BindLightString("key", backend.Handle(1))
	b.BindLightString("key", backend.Handle(2))
	require.Len(t, warnings, 1)
	h, _ := b.LookupLightString("key")
	require.Equal(t, backend.Handle(2), h)
}

func TestReleaseScopeClearsAll(t *testing.T) {
	b := New()
	b.BindArchive("a.rib", backend.Handle(7))
	b.ReleaseScope()
	_, ok := b.LookupArchive("a.rib")
	require.False(t, ok)
}
