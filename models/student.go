package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"attendance/dataset"
	"attendance/db"

	"gorm.io/gorm"
)

// Student is an enrolled identity. The ID is stable and user-assigned,
// never generated by the database.
type Student struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement:false"`
	Name    string `gorm:"type:varchar(300)"`
	RegDate string `gorm:"type:varchar(10)"` // YYYY-MM-DD
}

var ErrNotFound = errors.New("student not found")

// ConflictError means the id is already registered under a different name.
// Registration must not proceed; the existing mapping is immutable.
type ConflictError struct {
	ID       uint64
	Existing string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("id %d is already registered to %q", e.ID, e.Existing)
}

// LookupStudent resolves an id to the registered name.
func LookupStudent(id uint64) (string, error) {
	var student Student
	result := db.Instance.First(&student, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", result.Error
	}
	return student.Name, nil
}

// RegisterStudent creates the identity, or confirms it when re-registered
// under the same name (case-insensitive). reinforced=true means the id was
// already known and enrollment may proceed additively.
func RegisterStudent(id uint64, name string) (reinforced bool, err error) {
	existing, err := LookupStudent(id)
	if err == nil {
		if !strings.EqualFold(existing, name) {
			return false, &ConflictError{ID: id, Existing: existing}
		}
		return true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	student := Student{
		ID:      id,
		Name:    name,
		RegDate: time.Now().Format("2006-01-02"),
	}
	return false, db.Instance.Create(&student).Error
}

// RenameStudent corrects a name and propagates it to the attendance history,
// so that past reports stay consistent.
func RenameStudent(id uint64, newName string) error {
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Student{}).Where("id = ?", id).Update("name", newName)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&Attendance{}).Where("student_id = ?", id).Update("name", newName).Error
	})
}

// DeleteStudent removes the identity together with its attendance history and
// all enrollment samples. The next training pass naturally omits the id.
func DeleteStudent(id uint64) error {
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&Student{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Delete(&Attendance{}, "student_id = ?", id).Error
	})
	if err != nil {
		return err
	}
	return dataset.DeleteFor(id)
}

// AllStudents returns the registry contents ordered by id.
func AllStudents() (students []Student, err error) {
	err = db.Instance.Order("id").Find(&students).Error
	return
}
