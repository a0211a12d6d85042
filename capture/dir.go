package capture

import (
	"errors"
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"attendance/utils"
)

// DirSource consumes frames from a spool directory where an external camera
// agent drops JPEG/PNG files. Files are read in name order and removed once
// consumed. Next waits up to Timeout for a new frame before giving up with
// an AcquisitionError.
type DirSource struct {
	Dir     string
	Poll    time.Duration
	Timeout time.Duration
	closed  bool
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{
		Dir:     dir,
		Poll:    100 * time.Millisecond,
		Timeout: 10 * time.Second,
	}
}

func isFrameFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func (s *DirSource) Next() (image.Image, error) {
	deadline := time.Now().Add(s.Timeout)
	for {
		if s.closed {
			return nil, &AcquisitionError{Cause: errors.New("source closed")}
		}
		entries, err := os.ReadDir(s.Dir)
		if err != nil {
			return nil, &AcquisitionError{Cause: err}
		}
		names := []string{}
		for _, entry := range entries {
			if !entry.IsDir() && isFrameFile(entry.Name()) {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			path := filepath.Join(s.Dir, name)
			file, err := os.Open(path)
			if err != nil {
				continue
			}
			img, err := utils.DecodeImage(file)
			file.Close()
			os.Remove(path)
			if err != nil {
				// Torn or partial file from the agent, drop it and move on.
				log.Printf("Dropping undecodable frame %s: %v", path, err)
				continue
			}
			return img, nil
		}
		if time.Now().After(deadline) {
			return nil, &AcquisitionError{Cause: errors.New("no frame within timeout")}
		}
		time.Sleep(s.Poll)
	}
}

func (s *DirSource) Close() error {
	s.closed = true
	return nil
}
