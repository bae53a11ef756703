package shutterscene

import (
	"log"
	"os"
	"sync"
)

var logger = log.New(os.Stderr, "", log.LstdFlags)

// SetLogOutput redirects all package logging (tests use it to silence output).
func SetLogOutput(l *log.Logger) {
	logger = l
}

func InfoLog(format string, args ...interface{}) {
	logger.Printf("[INFO] "+format, args...)
}

func DebugLog(format string, args ...interface{}) {
	if !Debug {
		return
	}
	logger.Printf("[DEBUG] "+format, args...)
}

var once sync.Once

func DebugLogOnce(format string, args ...interface{}) {
	if !Debug {
		return
	}
	once.Do(func() {
		logger.Printf("[DEBUG] "+format, args...)
	})
}

func progressLog(stage string, percent Real) {
	logger.Printf("[%s] %.2f%%", stage, percent)
}
