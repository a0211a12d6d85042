package handlers

import (
	"errors"
	"net/http"
	"time"

	"attendance/db"
	"attendance/ledger"
	"attendance/models"
	"attendance/scan"

	"github.com/gin-gonic/gin"
)

type ManualEntryRequest struct {
	ID uint64 `json:"id" binding:"required"`
}

func AttendanceManual(c *gin.Context) {
	r := ManualEntryRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	name, err := scan.ManualEntry(attendance, r.ID)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if errors.Is(err, ledger.ErrAlreadyMarked) {
		c.JSON(http.StatusConflict, AlreadyMarkedResponse)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}
	BroadcastMark(r.ID, name)
	c.JSON(http.StatusOK, gin.H{"name": name})
}

func SessionNew(c *gin.Context) {
	if err := attendance.StartNewSession(); err != nil {
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

type AttendanceListRequest struct {
	Date string `form:"date"`
}

type AttendanceInfo struct {
	StudentID uint64 `json:"student_id"`
	Name      string `json:"name"`
	Time      string `json:"time"`
	Date      string `json:"date"`
	Method    string `json:"method"`
}

// AttendanceList returns the relational records for a date (default today).
// This is a pure read; it runs concurrently with the scan loop and tolerates
// interleaved appends.
func AttendanceList(c *gin.Context) {
	r := AttendanceListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if r.Date == "" {
		r.Date = time.Now().Format("2006-01-02")
	}
	var records []models.Attendance
	if err := db.Instance.Order("auto_id").Find(&records, "date = ?", r.Date).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	result := []AttendanceInfo{}
	for _, record := range records {
		result = append(result, AttendanceInfo{
			StudentID: record.StudentID,
			Name:      record.Name,
			Time:      record.Time,
			Date:      record.Date,
			Method:    record.Method,
		})
	}
	c.JSON(http.StatusOK, result)
}
