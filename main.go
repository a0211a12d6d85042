package main

import (
	"log"
	"strings"
	"time"

	"attendance/config"
	"attendance/db"
	"attendance/handlers"
	"attendance/ledger"
	"attendance/models"
	"attendance/recog"
	"attendance/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

func main() {
	db.Init()
	models.Init()

	engine, err := recog.NewGoFace(config.FACE_MODELS_DIR)
	if err != nil {
		log.Fatalf("Cannot load face models from %s: %v", config.FACE_MODELS_DIR, err)
	}
	defer engine.Close()
	handlers.Init(engine, ledger.New())

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws"})))
	}

	// HTML templates
	router.LoadHTMLGlob("templates/*.tmpl")

	// Student registry
	router.POST("/student/register", handlers.StudentRegister)
	router.POST("/student/rename", handlers.StudentRename)
	router.POST("/student/delete", handlers.StudentDelete)
	router.GET("/student/list", handlers.StudentList)
	// Enrollment and training
	router.POST("/enroll/start", handlers.EnrollStart)
	router.POST("/enroll/stop", handlers.EnrollStop)
	router.POST("/train", handlers.TrainModel)
	// Attendance
	router.POST("/scan/start", handlers.ScanStart)
	router.POST("/scan/stop", handlers.ScanStop)
	router.POST("/attendance/manual", handlers.AttendanceManual)
	router.POST("/session/new", handlers.SessionNew)
	router.GET("/attendance/list", handlers.AttendanceList)
	router.GET("/ws", handlers.LiveFeed)

	/*
	 *	Web interface
	 */
	router.GET("/", web.Index)
	router.GET("/attendance", web.AttendanceView)
	router.GET("/robots.txt", web.DisallowRobots)

	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
