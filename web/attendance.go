// Package web renders the read-only attendance views. It reads the ledger
// file through its public contract only, never the in-memory session, so it
// can run beside the scan loop and on hosts without the relational store.
package web

import (
	"log"
	"net/http"
	"time"

	"attendance/ledger"

	"github.com/gin-gonic/gin"
)

type viewerRow struct {
	Name   string
	Time   string
	Method string
}

// AttendanceView shows the current session reconstructed from today's ledger
// file: records after the last separator, deduplicated by identity.
func AttendanceView(c *gin.Context) {
	entries, err := ledger.ReadCurrentSession(ledger.TodayFilePath())
	if err != nil {
		log.Printf("Error reading ledger file: %v", err)
		c.String(http.StatusInternalServerError, "ledger unavailable")
		return
	}
	rows := []viewerRow{}
	for _, entry := range entries {
		display := entry.Time
		if t, err := time.Parse("15:04:05", entry.Time); err == nil {
			display = t.Format("03:04:05 PM")
		}
		rows = append(rows, viewerRow{Name: entry.Name, Time: display, Method: entry.Method})
	}
	c.HTML(http.StatusOK, "student_list.tmpl", gin.H{
		"Date":     time.Now().Format("2006-01-02"),
		"Students": rows,
	})
}

func Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", gin.H{})
}

func DisallowRobots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nDisallow: /\n")
}
