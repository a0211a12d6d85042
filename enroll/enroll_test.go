package enroll

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"attendance/capture"
	"attendance/config"
	"attendance/dataset"
	"attendance/db"
	"attendance/models"
	"attendance/recog"
)

type fakeSource struct {
	frames []image.Image
	closed bool
}

func (s *fakeSource) Next() (image.Image, error) {
	if len(s.frames) == 0 {
		return nil, &capture.AcquisitionError{Cause: errors.New("out of frames")}
	}
	frame := s.frames[0]
	s.frames = s.frames[1:]
	return frame, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

// fakeDetector reports the same regions on every frame.
type fakeDetector struct {
	regions []image.Rectangle
}

func (e *fakeDetector) Detect(frame image.Image) ([]image.Rectangle, error) {
	return e.regions, nil
}

func (e *fakeDetector) Train(samples []*image.Gray, ids []uint64) (recog.Model, error) {
	return nil, errors.New("not used")
}

func (e *fakeDetector) LoadModel(data []byte) (recog.Model, error) {
	return nil, errors.New("not used")
}

func initTest(t *testing.T) {
	t.Helper()
	config.MYSQL_DSN = ""
	config.SQLITE_FILE = filepath.Join(t.TempDir(), "test.db")
	config.DATASET_DIR = t.TempDir()
	config.CAPTURE_COOLDOWN_MS = 0
	config.CAPTURE_PADDING = 20
	db.Init()
	models.Init()
}

func frames(n int) []image.Image {
	result := make([]image.Image, n)
	for i := range result {
		result[i] = image.NewGray(image.Rect(0, 0, 640, 480))
	}
	return result
}

func TestRunConflictAbortsWithNoSamples(t *testing.T) {
	initTest(t)
	if _, err := models.RegisterStudent(5, "Alice"); err != nil {
		t.Fatal(err)
	}

	source := &fakeSource{frames: frames(10)}
	engine := &fakeDetector{regions: []image.Rectangle{image.Rect(100, 100, 200, 200)}}
	_, err := Run(context.Background(), 5, "Bob", source, engine, []Phase{{Label: "p", Target: 2}})

	var conflict *models.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Run = %v, want ConflictError", err)
	}
	if conflict.Existing != "Alice" {
		t.Errorf("existing name = %q", conflict.Existing)
	}
	samples, _ := dataset.ListAll()
	if len(samples) != 0 {
		t.Errorf("samples written despite conflict: %d", len(samples))
	}
	if !source.closed {
		t.Error("source not closed on conflict exit")
	}
	// The original registration is untouched.
	if name, _ := models.LookupStudent(5); name != "Alice" {
		t.Errorf("lookup(5) = %q, want Alice", name)
	}
}

func TestRunReinforceSameNameCaseInsensitive(t *testing.T) {
	initTest(t)
	if _, err := models.RegisterStudent(5, "Alice"); err != nil {
		t.Fatal(err)
	}
	source := &fakeSource{frames: frames(2)}
	engine := &fakeDetector{regions: []image.Rectangle{image.Rect(100, 100, 200, 200)}}
	saved, err := Run(context.Background(), 5, "ALICE", source, engine, []Phase{{Label: "p", Target: 2}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if saved != 2 {
		t.Errorf("saved = %d, want 2", saved)
	}
}

func TestRunPhaseTargetsAndSequences(t *testing.T) {
	initTest(t)
	engine := &fakeDetector{regions: []image.Rectangle{image.Rect(100, 100, 200, 200)}}
	phases := []Phase{{Label: "a", Target: 2}, {Label: "b", Target: 1}}

	saved, err := Run(context.Background(), 9, "Dana", &fakeSource{frames: frames(3)}, engine, phases)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if saved != 3 {
		t.Errorf("saved = %d, want 3", saved)
	}

	// A second session continues the numbering with no gaps or reuse.
	saved, err = Run(context.Background(), 9, "Dana", &fakeSource{frames: frames(2)}, engine, []Phase{{Label: "a", Target: 2}})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if saved != 2 {
		t.Errorf("second saved = %d, want 2", saved)
	}

	samples, err := dataset.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	seen := map[int]bool{}
	for _, sample := range samples {
		seen[sample.Sequence] = true
	}
	for i := 1; i <= 5; i++ {
		if !seen[i] {
			t.Errorf("sequence %d missing", i)
		}
	}
	if len(samples) != 5 {
		t.Errorf("corpus = %d samples, want 5", len(samples))
	}
}

func TestRunSkipsOutOfBoundsRegions(t *testing.T) {
	initTest(t)
	engine := &fakeDetector{regions: []image.Rectangle{
		image.Rect(620, 100, 639, 200), // padded box exceeds the right edge
		image.Rect(100, 100, 200, 200), // fine
	}}
	source := &fakeSource{frames: frames(2)}

	saved, err := Run(context.Background(), 3, "Eve", source, engine, []Phase{{Label: "p", Target: 2}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if saved != 2 {
		t.Errorf("saved = %d, want 2", saved)
	}
	samples, _ := dataset.ListAll()
	for _, sample := range samples {
		if sample.OwnerID != 3 {
			t.Errorf("unexpected owner %d", sample.OwnerID)
		}
	}
}

func TestRunCancelKeepsPartialPhase(t *testing.T) {
	initTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	engine := &fakeDetector{regions: []image.Rectangle{image.Rect(100, 100, 200, 200)}}

	// Cancel once the first sample lands by feeding a source that cancels
	// after handing out one frame.
	source := &cancellingSource{inner: &fakeSource{frames: frames(10)}, cancel: cancel, after: 1}
	saved, err := Run(ctx, 4, "Finn", source, engine, []Phase{{Label: "p", Target: 10}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if saved != 1 {
		t.Errorf("saved = %d, want 1", saved)
	}
	samples, _ := dataset.ListAll()
	if len(samples) != 1 {
		t.Errorf("partial phase samples = %d, want 1 (no rollback)", len(samples))
	}
	if !source.inner.closed {
		t.Error("source not closed after cancel")
	}
}

type cancellingSource struct {
	inner  *fakeSource
	cancel context.CancelFunc
	after  int
	served int
}

func (s *cancellingSource) Next() (image.Image, error) {
	frame, err := s.inner.Next()
	s.served++
	if s.served >= s.after {
		s.cancel()
	}
	return frame, err
}

func (s *cancellingSource) Close() error {
	return s.inner.Close()
}

func TestPhasesParsing(t *testing.T) {
	config.CAPTURE_PHASES = "NO MASK:25,WITH MASK:25"
	phases := Phases()
	if len(phases) != 2 || phases[0].Label != "NO MASK" || phases[0].Target != 25 || phases[1].Target != 25 {
		t.Errorf("phases = %+v", phases)
	}

	config.CAPTURE_PHASES = "single:50"
	phases = Phases()
	if len(phases) != 1 || phases[0].Target != 50 {
		t.Errorf("phases = %+v", phases)
	}

	config.CAPTURE_PHASES = "garbage"
	phases = Phases()
	if len(phases) != 1 || phases[0].Target != 50 {
		t.Errorf("fallback phases = %+v", phases)
	}
}
