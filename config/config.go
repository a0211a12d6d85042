package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS  = "" // e.g. "example.com,example2.com"
	MYSQL_DSN    = "" // MySQL will be used if this is set
	SQLITE_FILE  = "attendance.db"
	BIND_ADDRESS = "0.0.0.0:8080"
	DEBUG_MODE   = true

	DATASET_DIR     = "dataset"     // enrollment sample images
	MODEL_FILE      = "trainer.dat" // current model artifact
	LEDGER_DIR      = "."           // daily Attendance_YYYY-MM-DD.csv files
	SPOOL_DIR       = "spool"       // frames dropped here by the camera agent
	FACE_MODELS_DIR = "models"      // dlib model files for go-face

	FACE_MAX_DISTANCE_SQ = 0.11 // squared descriptor distance to accept a match
	CAPTURE_PADDING      = 20   // pixels added around a detected face box
	CAPTURE_COOLDOWN_MS  = 150  // delay after each saved sample, forces pose variation
	CAPTURE_PHASES       = "NO MASK:25,WITH MASK:25"
)

func init() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("DATASET_DIR", &DATASET_DIR)
	readEnvString("MODEL_FILE", &MODEL_FILE)
	readEnvString("LEDGER_DIR", &LEDGER_DIR)
	readEnvString("SPOOL_DIR", &SPOOL_DIR)
	readEnvString("FACE_MODELS_DIR", &FACE_MODELS_DIR)
	readEnvFloat("FACE_MAX_DISTANCE_SQ", &FACE_MAX_DISTANCE_SQ)
	readEnvInt("CAPTURE_PADDING", &CAPTURE_PADDING)
	readEnvInt("CAPTURE_COOLDOWN_MS", &CAPTURE_COOLDOWN_MS)
	readEnvString("CAPTURE_PHASES", &CAPTURE_PHASES)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvFloat(name string, value *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
