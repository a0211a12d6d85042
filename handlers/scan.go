package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"attendance/capture"
	"attendance/config"
	"attendance/enroll"
	"attendance/models"
	"attendance/recog"
	"attendance/scan"

	"github.com/gin-gonic/gin"
)

// One capture loop at a time: the camera agent feeds a single spool.
var (
	runMutex  sync.Mutex
	runCancel context.CancelFunc
)

func claimRun(cancel context.CancelFunc) bool {
	runMutex.Lock()
	defer runMutex.Unlock()
	if runCancel != nil {
		return false
	}
	runCancel = cancel
	return true
}

func releaseRun() {
	runMutex.Lock()
	defer runMutex.Unlock()
	runCancel = nil
}

// ScanStart launches the recognition loop over the spool source. Fails when
// no model has been trained yet or another loop is running.
func ScanStart(c *gin.Context) {
	model, err := recog.LoadModel(engine)
	if errors.Is(err, recog.ErrModelMissing) {
		c.JSON(http.StatusConflict, ModelMissingResponse)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	if !claimRun(cancel) {
		cancel()
		c.JSON(http.StatusConflict, RunActiveResponse)
		return
	}
	controller := &scan.Controller{
		Source: capture.NewDirSource(config.SPOOL_DIR),
		Engine: engine,
		Model:  model,
		Ledger: attendance,
		OnMark: BroadcastMark,
	}
	go func() {
		defer releaseRun()
		if err := controller.Run(ctx); err != nil {
			log.Printf("Scan loop ended: %v", err)
		}
	}()
	c.JSON(http.StatusOK, OKResponse)
}

// ScanStop signals the running loop; it stops at the next frame boundary.
func ScanStop(c *gin.Context) {
	runMutex.Lock()
	cancel := runCancel
	runMutex.Unlock()
	if cancel == nil {
		c.JSON(http.StatusConflict, NoRunResponse)
		return
	}
	cancel()
	c.JSON(http.StatusOK, OKResponse)
}

type EnrollStartRequest struct {
	ID   uint64 `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// EnrollStart runs an enrollment capture session over the spool source.
// Registration conflicts are surfaced synchronously, before any capture.
func EnrollStart(c *gin.Context) {
	r := EnrollStartRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	// Register up front so a conflict aborts before the loop claims the spool.
	reinforced, err := models.RegisterStudent(r.ID, r.Name)
	var conflict *models.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "existing": conflict.Existing})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	if !claimRun(cancel) {
		cancel()
		c.JSON(http.StatusConflict, RunActiveResponse)
		return
	}
	go func() {
		defer releaseRun()
		saved, err := enroll.Run(ctx, r.ID, r.Name, capture.NewDirSource(config.SPOOL_DIR), engine, enroll.Phases())
		if err != nil {
			log.Printf("Enrollment for %d ended after %d samples: %v", r.ID, saved, err)
		}
	}()
	c.JSON(http.StatusOK, gin.H{"reinforced": reinforced})
}

// EnrollStop shares the single-run slot with the scan loop.
func EnrollStop(c *gin.Context) {
	ScanStop(c)
}
