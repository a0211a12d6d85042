package recog

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"log"

	"attendance/utils"

	"github.com/Kagami/go-face"
)

// GoFace is the production engine, backed by dlib through go-face. Training
// reduces each sample to a 128-float descriptor; prediction is a nearest
// descriptor search by squared euclidean distance, so the configured
// FACE_MAX_DISTANCE_SQ threshold applies directly.
type GoFace struct {
	rec *face.Recognizer
}

func NewGoFace(modelsDir string) (*GoFace, error) {
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, err
	}
	return &GoFace{rec: rec}, nil
}

func (g *GoFace) Close() {
	g.rec.Close()
}

func encodeForDlib(img image.Image) ([]byte, error) {
	buf := bytes.Buffer{}
	if err := utils.EncodeJPEG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *GoFace) Detect(frame image.Image) ([]image.Rectangle, error) {
	data, err := encodeForDlib(frame)
	if err != nil {
		return nil, err
	}
	found, err := g.rec.Recognize(data)
	if err != nil {
		return nil, err
	}
	regions := make([]image.Rectangle, 0, len(found))
	for _, f := range found {
		regions = append(regions, f.Rectangle)
	}
	return regions, nil
}

func (g *GoFace) descriptor(img *image.Gray) ([]float32, error) {
	data, err := encodeForDlib(img)
	if err != nil {
		return nil, err
	}
	f, err := g.rec.RecognizeSingle(data)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.New("no face in crop")
	}
	desc := [128]float32(f.Descriptor)
	return desc[:], nil
}

func (g *GoFace) Train(samples []*image.Gray, ids []uint64) (Model, error) {
	if len(samples) != len(ids) {
		return nil, errors.New("samples and ids must be parallel")
	}
	model := &descriptorModel{engine: g}
	for i, sample := range samples {
		desc, err := g.descriptor(sample)
		if err != nil {
			// A sample the engine cannot re-detect a face in is unusable,
			// but it must not sink the whole corpus.
			log.Printf("Skipping sample %d for id %d: %v", i, ids[i], err)
			continue
		}
		model.ids = append(model.ids, ids[i])
		model.descriptors = append(model.descriptors, desc)
	}
	if len(model.ids) == 0 {
		return nil, errors.New("no usable samples in corpus")
	}
	return model, nil
}

type artifactFile struct {
	IDs         []uint64 `json:"ids"`
	Descriptors [][]byte `json:"descriptors"`
}

func (g *GoFace) LoadModel(data []byte) (Model, error) {
	var stored artifactFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	if len(stored.IDs) != len(stored.Descriptors) {
		return nil, errors.New("corrupt model artifact")
	}
	model := &descriptorModel{engine: g, ids: stored.IDs}
	for _, packed := range stored.Descriptors {
		model.descriptors = append(model.descriptors, utils.ByteArrayToFloat32Array(packed))
	}
	return model, nil
}

// descriptorModel is the trained artifact: parallel owner-id and descriptor
// sequences over the corpus at training time.
type descriptorModel struct {
	engine      *GoFace
	ids         []uint64
	descriptors [][]float32
}

func (m *descriptorModel) Predict(crop *image.Gray) (uint64, float64, error) {
	desc, err := m.engine.descriptor(crop)
	if err != nil {
		return 0, 0, err
	}
	best := -1
	bestDistance := 0.0
	for i, candidate := range m.descriptors {
		distance := squaredDistance(desc, candidate)
		if best < 0 || distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}
	if best < 0 {
		return 0, 0, errors.New("empty model")
	}
	return m.ids[best], bestDistance, nil
}

func (m *descriptorModel) Bytes() ([]byte, error) {
	stored := artifactFile{IDs: m.ids}
	for _, desc := range m.descriptors {
		stored.Descriptors = append(stored.Descriptors, utils.Float32ArrayToByteArray(desc))
	}
	return json.Marshal(stored)
}

func squaredDistance(a, b []float32) float64 {
	sum := 0.0
	for i := range a {
		if i >= len(b) {
			break
		}
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
