package loader

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/Carmen-Shannon/penguin-paradise/engine/diagnostics"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

func newTestLoader(t *testing.T, options ...LoaderBuilderOption) (Loader, diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.NewSink(diagnostics.WithCapacity(200))
	options = append([]LoaderBuilderOption{WithSink(sink), WithWorkers(3)}, options...)
	return NewLoader(options...), sink
}

func awaitResult(t *testing.T, l Loader) Result {
	t.Helper()
	select {
	case res := <-l.Completions():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a load result")
	}
	return Result{}
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func countPrefix(messages []string, prefix string) int {
	n := 0
	for _, m := range messages {
		if strings.HasPrefix(m, prefix) {
			n++
		}
	}
	return n
}

func TestLoadAppliesPlacement(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "penguin.glb", triangleGLB(t))
	l, _ := newTestLoader(t, WithAssetRoot(root))

	req := LoadRequest{Source: "penguin.glb", Slot: 0, Placement: Placement{X: -2, Z: 0, RotationY: math.Pi / 6}}
	l.Load(context.Background(), req)
	res := awaitResult(t, l)

	if !res.OK() {
		t.Fatalf("load failed: %v", res.Err)
	}
	if res.Fallback {
		t.Fatal("primary load should not use the fallback")
	}
	m := res.Model
	if m.Position() != [3]float32{-2, 0, 0} {
		t.Errorf("position = %v", m.Position())
	}
	if m.RotationY() != float32(math.Pi/6) {
		t.Errorf("rotation y = %f", m.RotationY())
	}
	if m.Scale() != [3]float32{DefaultScale, DefaultScale, DefaultScale} {
		t.Errorf("scale = %v, want default %f", m.Scale(), DefaultScale)
	}
	for _, n := range model.MeshNodes(m) {
		if !n.CastShadow() || !n.ReceiveShadow() {
			t.Errorf("mesh node %q missing shadow flags", n.Name())
		}
	}
}

func TestLoadExplicitScale(t *testing.T) {
	l, _ := newTestLoader(t, WithModel("cached", mustImport(t)))
	l.Load(context.Background(), LoadRequest{Source: "cached", Placement: Placement{Scale: 0.5}})
	res := awaitResult(t, l)
	if !res.OK() || res.Model.Scale() != [3]float32{0.5, 0.5, 0.5} {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLoadExternalBufferUnderAssetRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "models/tri.gltf", triangleDocument(t, "tri.bin"))
	writeFile(t, root, "models/tri.bin", triangleBuffer())
	l, _ := newTestLoader(t, WithAssetRoot(root))

	l.Load(context.Background(), LoadRequest{Source: "models/tri.gltf"})
	if res := awaitResult(t, l); !res.OK() {
		t.Fatalf("load failed: %v", res.Err)
	}

	loaded, total := l.Progress().Snapshot()
	if loaded != 2 || total != 2 {
		t.Fatalf("progress = %d/%d, want 2/2 (document + buffer)", loaded, total)
	}
}

func TestLoadRemoteSourceResolvesRelativeBuffer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/Duck/glTF/Duck.gltf", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(triangleDocument(t, "Duck0.bin"))
	})
	mux.HandleFunc("/Duck/glTF/Duck0.bin", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(triangleBuffer())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l, _ := newTestLoader(t, WithHTTPClient(srv.Client()))
	l.Load(context.Background(), LoadRequest{Source: srv.URL + "/Duck/glTF/Duck.gltf"})
	if res := awaitResult(t, l); !res.OK() {
		t.Fatalf("remote load failed: %v", res.Err)
	}
}

func TestLoadZstdSource(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := enc.EncodeAll(triangleGLB(t), nil)
	_ = enc.Close()

	root := t.TempDir()
	writeFile(t, root, "penguin.glb.zst", compressed)
	l, _ := newTestLoader(t, WithAssetRoot(root))

	l.Load(context.Background(), LoadRequest{Source: "penguin.glb.zst"})
	if res := awaitResult(t, l); !res.OK() {
		t.Fatalf("zstd load failed: %v", res.Err)
	}
}

func TestPrimaryFailureFallsBackOnce(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "duck.glb", triangleGLB(t))
	l, sink := newTestLoader(t, WithAssetRoot(root), WithFallbackSource("duck.glb"))

	place := Placement{X: 2, RotationY: -math.Pi / 6}
	l.Load(context.Background(), LoadRequest{Source: "missing.glb", Slot: 1, Placement: place})
	res := awaitResult(t, l)

	if !res.OK() {
		t.Fatalf("fallback load failed: %v", res.Err)
	}
	if !res.Fallback || res.Source != "duck.glb" {
		t.Fatalf("result source = %q fallback = %v", res.Source, res.Fallback)
	}
	if res.Request.Slot != 1 || res.Request.Placement != place {
		t.Fatalf("fallback changed the request: %+v", res.Request)
	}
	if res.Model.Position() != [3]float32{2, 0, 0} {
		t.Fatalf("fallback model position = %v", res.Model.Position())
	}

	msgs := sink.Messages()
	if got := countPrefix(msgs, "Error loading penguin 2 from missing.glb"); got != 1 {
		t.Errorf("primary error diagnostics = %d, want 1: %v", got, msgs)
	}
	if got := countPrefix(msgs, "Falling back to duck model for penguin 2"); got != 1 {
		t.Errorf("fallback diagnostics = %d, want 1", got)
	}
	if got := countPrefix(msgs, "Attempting to load model from: "); got != 2 {
		t.Errorf("attempt diagnostics = %d, want 2", got)
	}
}

func TestFallbackFailureIsTerminal(t *testing.T) {
	l, sink := newTestLoader(t, WithAssetRoot(t.TempDir()), WithFallbackSource("also-missing.gltf"))

	l.Load(context.Background(), LoadRequest{Source: "missing.glb", Slot: 0})
	res := awaitResult(t, l)
	if res.OK() || res.Err == nil {
		t.Fatalf("expected terminal failure, got %+v", res)
	}
	if res.Model != nil {
		t.Fatal("failed result must not carry a model")
	}

	select {
	case extra := <-l.Completions():
		t.Fatalf("unexpected second result: %+v", extra)
	case <-time.After(200 * time.Millisecond):
	}

	msgs := sink.Messages()
	if got := countPrefix(msgs, "Error loading penguin 1 from "); got != 2 {
		t.Errorf("failure diagnostics = %d, want 2: %v", got, msgs)
	}
	if got := countPrefix(msgs, "Falling back to duck model"); got != 1 {
		t.Errorf("fallback diagnostics = %d, want 1", got)
	}
}

func TestNoFallbackConfigured(t *testing.T) {
	l, sink := newTestLoader(t, WithAssetRoot(t.TempDir()))
	l.Load(context.Background(), LoadRequest{Source: "missing.glb"})
	if res := awaitResult(t, l); res.OK() || res.Fallback {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := countPrefix(sink.Messages(), "Falling back"); got != 0 {
		t.Fatalf("fallback diagnostics = %d, want 0", got)
	}
}

func TestRemoteErrorStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	l, sink := newTestLoader(t, WithHTTPClient(srv.Client()))
	l.Load(context.Background(), LoadRequest{Source: srv.URL + "/penguin2.glb"})
	if res := awaitResult(t, l); res.OK() {
		t.Fatal("expected failure for 404")
	}
	if got := countPrefix(sink.Messages(), "Error loading: "+srv.URL); got != 1 {
		t.Fatalf("aggregate error diagnostics = %d, want 1", got)
	}
}

func TestSameSourceDecodedOnceAndClonedPerSlot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "penguin.glb", triangleGLB(t))
	l, _ := newTestLoader(t, WithAssetRoot(root))

	for slot := 0; slot < 3; slot++ {
		l.Load(context.Background(), LoadRequest{Source: "penguin.glb", Slot: slot, Placement: Placement{X: float32(slot)}})
	}

	bySlot := map[int]model.Node{}
	for i := 0; i < 3; i++ {
		res := awaitResult(t, l)
		if !res.OK() {
			t.Fatalf("slot %d failed: %v", res.Request.Slot, res.Err)
		}
		bySlot[res.Request.Slot] = res.Model
	}
	if len(bySlot) != 3 {
		t.Fatalf("results for %d slots, want 3", len(bySlot))
	}
	if bySlot[0] == bySlot[1] || bySlot[1] == bySlot[2] {
		t.Fatal("slots must receive distinct model instances")
	}
	if bySlot[2].Position()[0] != 2 {
		t.Fatalf("slot 2 position = %v", bySlot[2].Position())
	}

	if _, total := l.Progress().Snapshot(); total != 1 {
		t.Fatalf("fetched %d files, want 1", total)
	}
}

func TestCancelledContextDropsCompletion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l, _ := newTestLoader(t, WithAssetRoot(t.TempDir()), WithCompletionBuffer(0))
	l.Load(ctx, LoadRequest{Source: "missing.glb"})

	select {
	case res := <-l.Completions():
		t.Fatalf("cancelled load delivered %+v", res)
	case <-time.After(200 * time.Millisecond):
	}
}

func mustImport(t *testing.T) model.Node {
	t.Helper()
	n, err := newGLTFImporter().Import(context.Background(), triangleGLB(t), "fixture", nil)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestMalformedPrimaryFallsBack(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.gltf", editedTriangle(t, func(doc map[string]any) {
		doc["accessors"].([]any)[0].(map[string]any)["byteOffset"] = -8
	}))
	writeFile(t, root, "duck.glb", triangleGLB(t))
	l, sink := newTestLoader(t, WithAssetRoot(root), WithFallbackSource("duck.glb"))

	l.Load(context.Background(), LoadRequest{Source: "broken.gltf", Slot: 0})
	res := awaitResult(t, l)
	if !res.OK() || !res.Fallback {
		t.Fatalf("want fallback success, got %+v", res)
	}
	if got := countPrefix(sink.Messages(), "Error loading penguin 1 from broken.gltf"); got != 1 {
		t.Fatalf("primary error diagnostics = %d, want 1", got)
	}
}

func TestDecodePanicBecomesFailure(t *testing.T) {
	l, sink := newTestLoader(t, WithFallbackSource("duck.glb"))
	// a nil fetcher panics on first use, in the primary and the fallback alike
	l.(*loader).fetch = nil

	l.Load(context.Background(), LoadRequest{Source: "penguin.glb", Slot: 2})
	res := awaitResult(t, l)
	if res.OK() || !errors.Is(res.Err, ErrMalformedModel) {
		t.Fatalf("err = %v, want ErrMalformedModel", res.Err)
	}
	if got := countPrefix(sink.Messages(), "Falling back to duck model for penguin 3"); got != 1 {
		t.Fatalf("fallback diagnostics = %d, want 1", got)
	}
}
