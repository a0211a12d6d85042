// Package enroll drives a multi-phase face capture session for one identity,
// numbering samples so that later sessions extend the corpus instead of
// overwriting it.
package enroll

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"attendance/capture"
	"attendance/config"
	"attendance/dataset"
	"attendance/models"
	"attendance/recog"
	"attendance/utils"

	"github.com/google/uuid"
)

// Phase is one capture condition with a fixed target of new samples.
type Phase struct {
	Label  string
	Target int
}

// Phases parses the configured phase list, e.g. "NO MASK:25,WITH MASK:25".
func Phases() []Phase {
	phases := []Phase{}
	for _, part := range strings.Split(config.CAPTURE_PHASES, ",") {
		label, countStr, found := strings.Cut(strings.TrimSpace(part), ":")
		if !found {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil || count <= 0 {
			continue
		}
		phases = append(phases, Phase{Label: strings.TrimSpace(label), Target: count})
	}
	if len(phases) == 0 {
		phases = []Phase{{Label: "default", Target: 50}}
	}
	return phases
}

// Run registers the identity and captures samples through the phase list.
// Registration must succeed (or reinforce an existing identity) before any
// frame is read; a conflict aborts with zero samples written. Cancelling via
// ctx keeps whatever was captured, partial phases are valid training input.
// The frame source is closed on every exit path.
func Run(ctx context.Context, id uint64, name string, source capture.FrameSource, engine recog.Engine, phases []Phase) (saved int, err error) {
	defer source.Close()

	reinforced, err := models.RegisterStudent(id, name)
	if err != nil {
		return 0, err
	}
	runID := uuid.NewString()
	if reinforced {
		log.Printf("Enrollment %s: adding samples to existing id %d (%s)", runID, id, name)
	} else {
		log.Printf("Enrollment %s: new id %d (%s)", runID, id, name)
	}

	next, err := dataset.NextSequence(id)
	if err != nil {
		return 0, err
	}
	cooldown := time.Duration(config.CAPTURE_COOLDOWN_MS) * time.Millisecond

	for _, phase := range phases {
		log.Printf("Enrollment %s: phase %q, target %d", runID, phase.Label, phase.Target)
		captured := 0
		for captured < phase.Target {
			select {
			case <-ctx.Done():
				log.Printf("Enrollment %s: cancelled after %d samples", runID, saved)
				return saved, nil
			default:
			}
			frame, err := source.Next()
			if err != nil {
				return saved, err
			}
			regions, err := engine.Detect(frame)
			if err != nil {
				log.Printf("Enrollment %s: detector error: %v", runID, err)
				continue
			}
			for _, region := range regions {
				padded, ok := recog.PadRegion(region, config.CAPTURE_PADDING, frame.Bounds())
				if !ok {
					// Padded box leaves the frame, skip without error.
					continue
				}
				crop := utils.CropGray(frame, padded)
				if err := dataset.Save(id, next, crop); err != nil {
					return saved, err
				}
				next++
				captured++
				saved++
				// Give the subject time to vary their pose.
				time.Sleep(cooldown)
				if captured >= phase.Target {
					break
				}
			}
		}
	}
	log.Printf("Enrollment %s: done, %d samples saved", runID, saved)
	return saved, nil
}
