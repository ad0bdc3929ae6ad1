package logger

import (
	"log"
	"strings"
	"sync/atomic"
)

var debugEnabled atomic.Bool

// Init sets logging flags and the minimum level (called once from main).
// Any level other than "debug" suppresses Debugf output.
func Init(level string) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	debugEnabled.Store(strings.EqualFold(strings.TrimSpace(level), "debug"))
}

func Infof(format string, v ...any) {
	log.Printf("[INFO] "+format, v...)
}

func Warnf(format string, v ...any) {
	log.Printf("[WARN] "+format, v...)
}

func Errorf(format string, v ...any) {
	log.Printf("[ERROR] "+format, v...)
}

func Debugf(format string, v ...any) {
	if !debugEnabled.Load() {
		return
	}
	log.Printf("[DEBUG] "+format, v...)
}

func Fatalf(format string, v ...any) {
	log.Fatalf("[FATAL] "+format, v...)
}
