package models

// Attendance is one mark event. Rows are append-only; the only mutations are
// the rename cascade and the delete cascade driven by the student registry.
type Attendance struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement;column:auto_id"`
	StudentID uint64 `gorm:"index"`
	Name      string `gorm:"type:varchar(300)"`
	Time      string `gorm:"type:varchar(8)"`  // HH:MM:SS
	Date      string `gorm:"type:varchar(10)"` // YYYY-MM-DD
	Method    string `gorm:"type:varchar(10)"` // camera or manual
}

// TableName overrides the table name
func (Attendance) TableName() string {
	return "attendance"
}

const (
	MethodCamera = "camera"
	MethodManual = "manual"
)
