package handlers

import (
	"attendance/ledger"
	"attendance/recog"
)

var (
	engine     recog.Engine
	attendance *ledger.Ledger
)

// Init wires the shared engine and ledger used by all handlers.
func Init(e recog.Engine, l *ledger.Ledger) {
	engine = e
	attendance = l
}
