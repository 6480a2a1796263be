package gosieview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errBrokenAsset = errors.New("broken asset")

func builtinOrFail(ctx context.Context, path string) (*Node, error) {
	if path == "broken.glb" {
		return nil, errBrokenAsset
	}
	return FileLoader{}.Load(ctx, path)
}

func TestLoadQueueIsolatesFailures(t *testing.T) {
	specs := []AssetSpec{
		{Path: "builtin:box"},
		{Path: "broken.glb"},
		{Path: "builtin:sphere"},
	}
	q := StartLoads(context.Background(), LoaderFunc(builtinOrFail), specs, LoadOptions{Concurrency: 2, Centre: true})
	results := q.Wait()
	if !q.Done() {
		t.Error("queue not done after Wait")
	}
	if len(results) != len(specs) {
		t.Fatalf("got %d results, want %d", len(results), len(specs))
	}

	scene := NewScene(testCamera(), DefaultLayout(), len(specs))
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	for _, res := range results {
		if res.Spec != specs[res.Index] {
			t.Errorf("result %d carries spec %+v", res.Index, res.Spec)
		}
		err := scene.Attach(res)
		if res.Spec.Path == "broken.glb" {
			if !errors.Is(err, errBrokenAsset) {
				t.Errorf("broken asset err = %v", err)
			}
			continue
		}
		if err != nil {
			t.Errorf("attach %s: %v", res.Spec.Path, err)
		}
	}

	units := scene.Units()
	if len(units) != 2 {
		t.Fatalf("scene has %d units, want 2", len(units))
	}
	for _, u := range units {
		if u.Parent() != scene.Root || u.Asset == "" {
			t.Errorf("unit %q not a tagged top-level node", u.Name)
		}
	}
	// layout positions come from the configured index, not arrival order
	if units[0].Position == units[1].Position {
		t.Error("units share a layout position")
	}
}

func TestLoadQueueSurvivesCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"huge.ply":      "ply\nformat ascii 1.0\nelement vertex 9000000000000000000\nend_header\n",
		"truncated.ply": plyFaceColours[:len(plyFaceColours)-20],
		"broken.gltf":   brokenGLTF,
	}
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	specs := []AssetSpec{
		{Path: filepath.Join(dir, "huge.ply")},
		{Path: "builtin:box"},
		{Path: filepath.Join(dir, "truncated.ply")},
		{Path: filepath.Join(dir, "broken.gltf")},
		{Path: "builtin:sphere"},
	}

	results := StartLoads(context.Background(), FileLoader{}, specs, LoadOptions{Concurrency: 3, Centre: true}).Wait()
	if len(results) != len(specs) {
		t.Fatalf("got %d results, want %d", len(results), len(specs))
	}
	for _, res := range results {
		builtin := res.Index == 1 || res.Index == 4
		switch {
		case builtin && (res.Err != nil || res.Node == nil):
			t.Errorf("%s: node %v, err %v", res.Spec.Path, res.Node, res.Err)
		case !builtin && res.Err == nil:
			t.Errorf("%s: corrupt file loaded", res.Spec.Path)
		}
	}
}

func TestLoadQueueRecoversLoaderPanic(t *testing.T) {
	loader := LoaderFunc(func(ctx context.Context, path string) (*Node, error) {
		if path == "explodes" {
			panic("index out of range")
		}
		return FileLoader{}.Load(ctx, "builtin:box")
	})
	specs := []AssetSpec{{Path: "explodes"}, {Path: "fine"}}

	results := StartLoads(context.Background(), loader, specs, LoadOptions{Concurrency: 2}).Wait()
	if len(results) != len(specs) {
		t.Fatalf("got %d results, want %d", len(results), len(specs))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	if !errors.Is(results[0].Err, ErrLoaderPanic) || results[0].Node != nil {
		t.Errorf("panicking load: node %v, err %v", results[0].Node, results[0].Err)
	}
	if results[1].Err != nil || results[1].Node == nil {
		t.Errorf("healthy load: node %v, err %v", results[1].Node, results[1].Err)
	}
}

func TestLoadQueueBoundsConcurrency(t *testing.T) {
	var running, peak int32
	release := make(chan struct{})
	loader := LoaderFunc(func(ctx context.Context, path string) (*Node, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		<-release
		atomic.AddInt32(&running, -1)
		return FileLoader{}.Load(ctx, "builtin:box")
	})

	specs := make([]AssetSpec, 6)
	for i := range specs {
		specs[i] = AssetSpec{Path: "box"}
	}
	q := StartLoads(context.Background(), loader, specs, LoadOptions{Concurrency: 2})

	time.Sleep(50 * time.Millisecond)
	close(release)
	results := q.Wait()

	if len(results) != len(specs) {
		t.Fatalf("got %d results, want %d", len(results), len(specs))
	}
	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Errorf("peak concurrency %d, want at most 2", p)
	}
}

func TestLoadQueuePollDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	loader := LoaderFunc(func(ctx context.Context, path string) (*Node, error) {
		<-release
		return FileLoader{}.Load(ctx, "builtin:box")
	})
	q := StartLoads(context.Background(), loader, []AssetSpec{{Path: "a"}, {Path: "b"}}, LoadOptions{Concurrency: 2})
	defer once.Do(func() { close(release) })

	if got := q.Poll(); len(got) != 0 {
		t.Fatalf("Poll returned %d results before any load finished", len(got))
	}
	if q.Done() {
		t.Fatal("queue done before loads finished")
	}

	once.Do(func() { close(release) })
	var collected int
	deadline := time.Now().Add(5 * time.Second)
	for !q.Done() && time.Now().Before(deadline) {
		collected += len(q.Poll())
		time.Sleep(time.Millisecond)
	}
	if collected != 2 {
		t.Errorf("collected %d results, want 2", collected)
	}
	if got := q.Wait(); len(got) != 0 {
		t.Errorf("Wait after Poll drained returned %d results", len(got))
	}
}

func TestLoadQueueEmpty(t *testing.T) {
	q := StartLoads(context.Background(), FileLoader{}, nil, LoadOptions{})
	if got := q.Wait(); len(got) != 0 || q.Total() != 0 {
		t.Errorf("empty queue returned %d results", len(got))
	}
}
