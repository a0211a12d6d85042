package capture

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"attendance/utils"
)

func writeFrame(t *testing.T, dir, name string) {
	t.Helper()
	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	if err := utils.EncodeJPEG(file, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
}

func TestDirSourceConsumesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, "frame-002.jpg")
	writeFrame(t, dir, "frame-001.jpg")

	source := NewDirSource(dir)
	source.Timeout = time.Second
	defer source.Close()

	if _, err := source.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := source.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("spool not drained, %d files left", len(entries))
	}
}

func TestDirSourceTimesOut(t *testing.T) {
	source := NewDirSource(t.TempDir())
	source.Poll = 5 * time.Millisecond
	source.Timeout = 20 * time.Millisecond
	defer source.Close()

	_, err := source.Next()
	var acquisition *AcquisitionError
	if !errors.As(err, &acquisition) {
		t.Fatalf("Next = %v, want AcquisitionError", err)
	}
}

func TestDirSourceSkipsTornFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "frame-001.jpg"), []byte("not an image"), 0666); err != nil {
		t.Fatal(err)
	}
	writeFrame(t, dir, "frame-002.jpg")

	source := NewDirSource(dir)
	source.Timeout = time.Second
	defer source.Close()

	if _, err := source.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
}
