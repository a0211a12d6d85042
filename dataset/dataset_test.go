package dataset

import (
	"image"
	"testing"

	"attendance/config"
)

func testSample() *image.Gray {
	return image.NewGray(image.Rect(0, 0, 8, 8))
}

func TestSequenceMonotonicAcrossSessions(t *testing.T) {
	config.DATASET_DIR = t.TempDir()

	// Three enrollment sessions with different sample counts.
	counts := []int{3, 2, 4}
	total := 0
	for _, count := range counts {
		next, err := NextSequence(42)
		if err != nil {
			t.Fatalf("NextSequence: %v", err)
		}
		if next != total+1 {
			t.Fatalf("next sequence = %d, want %d", next, total+1)
		}
		for i := 0; i < count; i++ {
			if err := Save(42, next, testSample()); err != nil {
				t.Fatalf("Save: %v", err)
			}
			next++
			total++
		}
	}

	samples, err := ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	seen := map[int]bool{}
	for _, sample := range samples {
		if sample.OwnerID != 42 {
			t.Errorf("unexpected owner %d", sample.OwnerID)
		}
		if seen[sample.Sequence] {
			t.Errorf("sequence %d reused", sample.Sequence)
		}
		seen[sample.Sequence] = true
	}
	for i := 1; i <= total; i++ {
		if !seen[i] {
			t.Errorf("sequence %d missing", i)
		}
	}
	if len(samples) != total {
		t.Errorf("corpus size = %d, want %d", len(samples), total)
	}
}

func TestNextSequenceIgnoresOtherIdentities(t *testing.T) {
	config.DATASET_DIR = t.TempDir()
	for i := 1; i <= 5; i++ {
		if err := Save(7, i, testSample()); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	next, err := NextSequence(8)
	if err != nil {
		t.Fatalf("NextSequence: %v", err)
	}
	if next != 1 {
		t.Errorf("next sequence for fresh id = %d, want 1", next)
	}
}

func TestDeleteFor(t *testing.T) {
	config.DATASET_DIR = t.TempDir()
	for i := 1; i <= 3; i++ {
		if err := Save(9, i, testSample()); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if err := Save(10, 1, testSample()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := DeleteFor(9); err != nil {
		t.Fatalf("DeleteFor: %v", err)
	}
	samples, err := ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(samples) != 1 || samples[0].OwnerID != 10 {
		t.Errorf("unexpected corpus after delete: %+v", samples)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	config.DATASET_DIR = t.TempDir()
	if err := Save(3, 1, testSample()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	samples, err := ListAll()
	if err != nil || len(samples) != 1 {
		t.Fatalf("ListAll: %v (%d samples)", err, len(samples))
	}
	img, err := Load(samples[0])
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("loaded bounds = %v", img.Bounds())
	}
}
