// Package scan runs the continuous detect->classify->decide loop against a
// live frame source and feeds accepted matches into the attendance ledger,
// at most once per identity per session.
package scan

import (
	"context"
	"fmt"
	"log"

	"attendance/capture"
	"attendance/config"
	"attendance/ledger"
	"attendance/models"
	"attendance/recog"
	"attendance/utils"

	"github.com/google/uuid"
)

// Decision is the outcome for one detected region. Errors inside a region
// produce no decision at all rather than aborting the frame.
type Decision struct {
	ID       uint64
	Name     string
	Distance float64
	Accepted bool
	Marked   bool
}

type Controller struct {
	Source capture.FrameSource
	Engine recog.Engine
	Model  recog.Model
	Ledger *ledger.Ledger

	// OnMark is called after each committed mark, e.g. to feed a live view.
	OnMark func(id uint64, name string)
	// OnFrame receives the decisions of every frame; the display layer is
	// external, this is its hook.
	OnFrame func(decisions []Decision)
}

// Run loops until the frame source fails or ctx is cancelled. Cancellation
// is checked once per iteration, at the frame boundary. The source is closed
// on every exit path.
func (c *Controller) Run(ctx context.Context) error {
	defer c.Source.Close()

	runID := uuid.NewString()
	names := map[uint64]string{}
	students, err := models.AllStudents()
	if err != nil {
		return err
	}
	for _, student := range students {
		names[student.ID] = student.Name
	}
	log.Printf("Scan %s: started, %d known identities", runID, len(names))

	for {
		select {
		case <-ctx.Done():
			log.Printf("Scan %s: stopped", runID)
			return nil
		default:
		}
		frame, err := c.Source.Next()
		if err != nil {
			// Fatal for this run only, the process stays up.
			log.Printf("Scan %s: %v", runID, err)
			return err
		}
		regions, err := c.Engine.Detect(frame)
		if err != nil {
			log.Printf("Scan %s: detector error: %v", runID, err)
			continue
		}
		decisions := []Decision{}
		for _, region := range regions {
			padded, ok := recog.PadRegion(region, config.CAPTURE_PADDING, frame.Bounds())
			if !ok {
				continue
			}
			crop := utils.CropGray(frame, padded)
			id, distance, err := c.Model.Predict(crop)
			if err != nil {
				// No decision for this region, the loop goes on.
				log.Printf("Scan %s: predict error: %v", runID, err)
				continue
			}
			decision := Decision{ID: id, Distance: distance}
			if distance < config.FACE_MAX_DISTANCE_SQ {
				decision.Accepted = true
				name, known := names[id]
				if !known {
					name = fmt.Sprintf("ID:%d", id)
				}
				decision.Name = name
				if c.Ledger.Session.TryMark(id) {
					if err := c.Ledger.Mark(id, name, models.MethodCamera); err != nil {
						c.Ledger.Session.Unmark(id)
						log.Printf("Scan %s: %v", runID, err)
					} else {
						decision.Marked = true
						log.Printf("Scan %s: marked %s (%d), distance %.3f", runID, name, id, distance)
						if c.OnMark != nil {
							c.OnMark(id, name)
						}
					}
				}
			} else {
				decision.Name = "Unknown"
			}
			decisions = append(decisions, decision)
		}
		if c.OnFrame != nil {
			c.OnFrame(decisions)
		}
	}
}

// ManualEntry marks an identity without the camera, sharing the session's
// dedup scope with the recognition loop.
func ManualEntry(l *ledger.Ledger, id uint64) (name string, err error) {
	name, err = models.LookupStudent(id)
	if err != nil {
		return "", err
	}
	if !l.Session.TryMark(id) {
		return "", ledger.ErrAlreadyMarked
	}
	if err := l.Mark(id, name, models.MethodManual); err != nil {
		l.Session.Unmark(id)
		return "", err
	}
	return name, nil
}
