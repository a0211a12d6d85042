// Package ledger owns attendance marking: one relational row plus one row in
// the append-only daily CSV file per mark event, and the in-memory session
// set that enforces at-most-once marking per session.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"attendance/config"
	"attendance/db"
	"attendance/models"

	"gorm.io/gorm"
)

// SeparatorMarker is the text of the distinguished session separator row.
// It is a public contract: external readers scan for it to recover only the
// current session's records.
const SeparatorMarker = "NEW SESSION STARTED"

var ErrAlreadyMarked = errors.New("already marked in this session")

// PersistenceError means a mark was not committed. It is always surfaced,
// never swallowed.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

type Ledger struct {
	Session *Session
}

func New() *Ledger {
	return &Ledger{Session: NewSession()}
}

// FilePath returns the daily ledger file for a date.
func FilePath(date string) string {
	return filepath.Join(config.LEDGER_DIR, "Attendance_"+date+".csv")
}

// TodayFilePath returns the ledger file external readers should follow now.
func TodayFilePath() string {
	return FilePath(time.Now().Format("2006-01-02"))
}

func appendRow(path string, row []string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	if err := writer.Write(row); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// Mark appends one attendance record to the relational store and one row to
// the ledger file, in that order. The relational row and the file append
// commit together: a failed file append rolls the row back, so the file never
// runs ahead of the store.
func (l *Ledger) Mark(id uint64, name, method string) error {
	now := time.Now()
	tm := now.Format("15:04:05")
	dt := now.Format("2006-01-02")
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		record := models.Attendance{
			StudentID: id,
			Name:      name,
			Time:      tm,
			Date:      dt,
			Method:    method,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return appendRow(FilePath(dt), []string{
			fmt.Sprintf("%d", id), name, tm, dt, method,
		})
	})
	if err != nil {
		return &PersistenceError{Op: "mark", Cause: err}
	}
	return nil
}

// StartNewSession appends the separator row and then clears the session set,
// so that downstream readers can reconstruct "records since last session
// start". The separator lands first: clearing dedup before a failed append
// would let re-marks write rows that readers attribute to the old session.
func (l *Ledger) StartNewSession() error {
	tm := time.Now().Format("15:04:05")
	if err := appendRow(TodayFilePath(), []string{"---", SeparatorMarker, tm, "---"}); err != nil {
		return &PersistenceError{Op: "new session", Cause: err}
	}
	l.Session.Clear()
	return nil
}
