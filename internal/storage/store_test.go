package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/procanim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.Frame{
			{Tick: 0, Time: 0, Positions: []mgl32.Vec3{{-150, -150, 0}, {-125.5, -140.125, 0}}},
			{Tick: 1, Time: 0.016666668, Positions: []mgl32.Vec3{{-150, -150.04087, 0}, {-125.3, -140.2, 0.1}}},
		},
		Metrics:     map[string]float64{"link_residual": 0.25},
		Series:      map[string][]float64{"link_residual": {0.5, 0.25}},
		Fingerprint: 0xdeadbeef,
		TicksTaken:  1,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := testResult()
	runID, err := st.Save(RunMetadata{Scene: "demo", Dt: 1.0 / 60, Ticks: 1, Iterations: 5}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scene != "demo" || meta.Iterations != 5 || meta.Particles != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Fingerprint != "00000000deadbeef" {
		t.Errorf("unexpected fingerprint %s", meta.Fingerprint)
	}
	if meta.Metrics["link_residual"] != 0.25 {
		t.Errorf("metric not saved: %v", meta.Metrics)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	for i := range frames {
		if frames[i].Tick != result.Frames[i].Tick {
			t.Errorf("frame %d: tick %d, want %d", i, frames[i].Tick, result.Frames[i].Tick)
		}
		for j, p := range frames[i].Positions {
			if p != result.Frames[i].Positions[j] {
				t.Errorf("frame %d particle %d: %v, want %v", i, j, p, result.Frames[i].Positions[j])
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	first, _ := st.Save(RunMetadata{Scene: "demo"}, testResult())
	second, _ := st.Save(RunMetadata{Scene: "ring"}, testResult())
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("unexpected order %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadFrames("nope"); err == nil {
		t.Error("expected error for missing frames")
	}
}

func TestStoreLoadFramesMalformed(t *testing.T) {
	dir := t.TempDir()
	runDir := filepath.Join(dir, "bad")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	body := "time,tick,p0_x,p0_y,p0_z\n0,0,1,2\n"
	if err := os.WriteFile(filepath.Join(runDir, "frames.csv"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(dir).LoadFrames("bad"); err == nil {
		t.Error("expected error for malformed record")
	}
}
