package macro

import (
	"testing"

	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/handle"
	"github.com/stretchr/testify/require"
)

func TestReplayObjectEmitsRecordedRequests(t *testing.T) {
	m := New("1", true)
	m.Append(10, NullaryPayload{Name: "AttributeBegin"})
	m.Append(11, GenericCallPayload{Name: "Sphere", Floats: []float64{1, -1, 1, 360}})
	m.Append(12, NullaryPayload{Name: "AttributeEnd"})
	m.Close()

	rec := backend.NewRecorder()
	store := NewStore()
	bindings := handle.New()

	err := store.ReplayObject(m, rec, bindings, "")
	require.NoError(t, err)
	require.Len(t, rec.Calls, 3)
	require.Equal(t, "attributeBegin", rec.Calls[0].Method)
	require.Equal(t, "sphere", rec.Calls[1].Method)
	require.Equal(t, "attributeEnd", rec.Calls[2].Method)
}

func TestReplayHandleEmitBindsHandleForLaterConsume(t *testing.T) {
	m := New("1", true)
	m.Append(1, HandleEmitPayload{Name: "ObjectBegin", ID: "1", IDIsInt: true})
	m.Append(2, NullaryPayload{Name: "ObjectEnd"})
	m.Close()

	rec := backend.NewRecorder()
	store := NewStore()
	bindings := handle.New()

	require.NoError(t, store.ReplayObject(m, rec, bindings, ""))

	h, ok := bindings.LookupObjectInt(1)
	require.True(t, ok)

	consume := New("instance", true)
	consume.Append(1, HandleConsumePayload{Name: "ObjectInstance", ID: "1", IDIsInt: true})
	consume.Close()
	require.NoError(t, store.ReplayObject(consume, rec, bindings, ""))

	last := rec.Calls[len(rec.Calls)-1]
	require.Equal(t, "objectInstance", last.Method)
	require.Equal(t, h, last.Args[0])
}

func TestReplayHandleConsumeUnknownHandleIsError(t *testing.T) {
	m := New("instance", true)
	m.Append(1, HandleConsumePayload{Name: "ObjectInstance", ID: "99", IDIsInt: true})
	m.Close()

	rec := backend.NewRecorder()
	store := NewStore()
	bindings := handle.New()

	err := store.ReplayObject(m, rec, bindings, "")
	require.Error(t, err)
}

func TestReplayHandleConsumeWithoutBindingsIsError(t *testing.T) {
	m := New("instance", true)
	m.Append(1, HandleConsumePayload{Name: "ObjectInstance", ID: "1", IDIsInt: true})
	m.Close()

	rec := backend.NewRecorder()
	store := NewStore()

	err := store.ReplayObject(m, rec, nil, "")
	require.Error(t, err)
}

func TestReplayLightSourceUsesShaderNameField(t *testing.T) {
	m := New("1", false)
	m.Append(1, HandleEmitPayload{Name: "LightSource", ID: "1", IDIsInt: true, ShaderName: "distantlight"})
	m.Close()

	rec := backend.NewRecorder()
	store := NewStore()
	bindings := handle.New()

	require.NoError(t, store.ReplayObject(m, rec, bindings, ""))
	require.Equal(t, "lightSource", rec.Calls[0].Method)
	require.Equal(t, "distantlight", rec.Calls[0].Args[0])

	_, ok := bindings.LookupLightInt(1)
	require.True(t, ok)
}

func TestReplayArchiveInvokesCallbackOnArchiveRecord(t *testing.T) {
	m := New("scene.rib", false)
	m.Append(1, ArchiveRecordPayload{Kind: "comment", Text: "hello"})
	m.Close()

	rec := backend.NewRecorder()
	store := NewStore()

	var seen []string
	err := store.ReplayArchive(m, rec, handle.New(), "scene.rib", func(kind, text string) {
		seen = append(seen, kind+":"+text)
	})
	require.NoError(t, err)
	require.Equal(t, []string{"comment:hello"}, seen)
}

func TestDiscardReleasesBindingsAndRemovesFromStore(t *testing.T) {
	store := NewStore()
	bindings := handle.New()
	bindings.BindObjectInt(1, backend.Handle(5))

	m := New("1", true)
	store.Put(m)

	store.Discard("1", bindings)

	_, ok := store.Get("1")
	require.False(t, ok)
	_, ok = bindings.LookupObjectInt(1)
	require.False(t, ok)
}
