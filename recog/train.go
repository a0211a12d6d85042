package recog

import (
	"image"
	"log"
	"os"
	"path/filepath"

	"attendance/config"
	"attendance/dataset"
)

// Train rebuilds the model artifact from the full current sample corpus and
// atomically replaces the previous one. Returns the number of distinct
// identities covered. A failure at any point leaves the prior artifact as is.
func Train(engine Engine) (identities int, err error) {
	samples, err := dataset.ListAll()
	if err != nil {
		return 0, err
	}
	if len(samples) == 0 {
		return 0, ErrEmptyCorpus
	}
	images := make([]*image.Gray, 0, len(samples))
	ids := make([]uint64, 0, len(samples))
	owners := map[uint64]bool{}
	for _, sample := range samples {
		img, err := dataset.Load(sample)
		if err != nil {
			log.Printf("Error loading sample %s: %v", sample.Path, err)
			continue
		}
		images = append(images, img)
		ids = append(ids, sample.OwnerID)
		owners[sample.OwnerID] = true
	}
	if len(images) == 0 {
		return 0, ErrEmptyCorpus
	}
	model, err := engine.Train(images, ids)
	if err != nil {
		return 0, err
	}
	data, err := model.Bytes()
	if err != nil {
		return 0, err
	}
	if err := saveArtifact(config.MODEL_FILE, data); err != nil {
		return 0, err
	}
	return len(owners), nil
}

// saveArtifact writes to a temp file and renames it over the current
// artifact, so a partially written one is never observable.
func saveArtifact(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadModel restores the current model artifact, or ErrModelMissing when
// training has never run.
func LoadModel(engine Engine) (Model, error) {
	data, err := os.ReadFile(config.MODEL_FILE)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrModelMissing
		}
		return nil, err
	}
	return engine.LoadModel(data)
}
