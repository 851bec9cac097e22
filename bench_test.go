package ri

import (
	"strings"
	"testing"

	"github.com/rmanicore/ri/backend"
	"github.com/rmanicore/ri/diag"
)

// benchScene is a representative small scene exercising the lexer, parser,
// state machine and parameter binding.
var benchScene = []byte(`##RenderMan RIB-Structure 1.1
Format 640 480 1
Projection "perspective" "fov" [30]
WorldBegin
AttributeBegin
Color [0.8 0.2 0.2]
Surface "plastic" "Ka" [0.5] "Kd" [0.8]
Translate 0 0 5
Sphere 1 -1 1 360
AttributeEnd
AttributeBegin
Translate 2 0 5
Polygon "P" [0 0 0 1 0 0 1 1 0 0 1 0]
AttributeEnd
WorldEnd
`)

func BenchmarkProcess(b *testing.B) {
	b.SetBytes(int64(len(benchScene)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ctx := NewContext(backend.NewRecorder(), Options{Reporter: diag.IgnoreReporter{}})
		if err := ctx.Process("bench.rib", benchScene); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	b.SetBytes(int64(len(benchScene)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(benchScene); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkObjectReplay(b *testing.B) {
	scene := []byte("ObjectBegin 1\nSphere 1 -1 1 360\nObjectEnd\nWorldBegin\n" +
		strings.Repeat("ObjectInstance 1\n", 100) + "WorldEnd\n")
	b.SetBytes(int64(len(scene)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ctx := NewContext(backend.NewRecorder(), Options{Reporter: diag.IgnoreReporter{}})
		if err := ctx.Process("replay.rib", scene); err != nil {
			b.Fatal(err)
		}
	}
}
