package models

import (
	"attendance/db"
)

func Init() {
	db.Instance.AutoMigrate(&Student{})
	db.Instance.AutoMigrate(&Attendance{})
}
