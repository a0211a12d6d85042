// Package dataset stores enrollment samples as grayscale JPEG files named
// User.<id>.<sequence>.jpg. Sequence numbers are monotonic per identity over
// its whole history so that later capture sessions never overwrite earlier
// samples.
package dataset

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"attendance/config"
	"attendance/utils"
)

type Sample struct {
	OwnerID  uint64
	Sequence int
	Path     string
}

func sampleFileName(id uint64, sequence int) string {
	return fmt.Sprintf("User.%d.%d.jpg", id, sequence)
}

// parseSampleName extracts owner id and sequence from User.<id>.<seq>.jpg.
func parseSampleName(name string) (id uint64, sequence int, ok bool) {
	parts := strings.Split(name, ".")
	if len(parts) != 4 || parts[0] != "User" || parts[3] != "jpg" {
		return 0, 0, false
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	sequence, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, false
	}
	return id, sequence, true
}

// NextSequence returns 1 + the highest sequence number ever used for the id.
func NextSequence(id uint64) (int, error) {
	entries, err := os.ReadDir(config.DATASET_DIR)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, err
	}
	max := 0
	for _, entry := range entries {
		owner, sequence, ok := parseSampleName(entry.Name())
		if !ok || owner != id {
			continue
		}
		if sequence > max {
			max = sequence
		}
	}
	return max + 1, nil
}

// Save writes one sample image at the given sequence number.
func Save(id uint64, sequence int, face *image.Gray) error {
	if err := os.MkdirAll(config.DATASET_DIR, 0777); err != nil {
		return err
	}
	path := filepath.Join(config.DATASET_DIR, sampleFileName(id, sequence))
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return utils.EncodeJPEG(file, face)
}

// ListAll enumerates the full current sample corpus across all identities.
func ListAll() (samples []Sample, err error) {
	entries, err := os.ReadDir(config.DATASET_DIR)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	for _, entry := range entries {
		owner, sequence, ok := parseSampleName(entry.Name())
		if !ok {
			continue
		}
		samples = append(samples, Sample{
			OwnerID:  owner,
			Sequence: sequence,
			Path:     filepath.Join(config.DATASET_DIR, entry.Name()),
		})
	}
	return samples, nil
}

// Load reads a sample back as a grayscale image.
func Load(sample Sample) (*image.Gray, error) {
	file, err := os.Open(sample.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, err := utils.DecodeImage(file)
	if err != nil {
		return nil, err
	}
	return utils.ToGray(img), nil
}

// DeleteFor removes every sample belonging to the id.
func DeleteFor(id uint64) error {
	samples, err := ListAll()
	if err != nil {
		return err
	}
	for _, sample := range samples {
		if sample.OwnerID != id {
			continue
		}
		if err := os.Remove(sample.Path); err != nil {
			log.Printf("Error removing sample %s: %v", sample.Path, err)
			return err
		}
	}
	return nil
}
