package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/antibyte/englang/pkg/configuration"
)

// LogLevel is the severity of a log entry.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var logLevelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

// LogArea is the subsystem a log entry belongs to.
type LogArea string

const (
	AreaInterpreter LogArea = "interpreter"
	AreaLoader      LogArea = "loader"
	AreaTerminal    LogArea = "terminal"
	AreaWebSocket   LogArea = "websocket"
	AreaAuth        LogArea = "auth"
	AreaDatabase    LogArea = "database"
	AreaSession     LogArea = "session"
	AreaConfig      LogArea = "config"
	AreaGeneral     LogArea = "general"
)

var allAreas = []LogArea{
	AreaInterpreter, AreaLoader, AreaTerminal, AreaWebSocket, AreaAuth,
	AreaDatabase, AreaSession, AreaConfig, AreaGeneral,
}

// Logger writes filtered entries to a rotating log file.
type Logger struct {
	enabled       int32              // atomic bool
	level         int32              // atomic LogLevel
	areaEnabled   map[LogArea]*int32 // atomic bools per area
	file          *os.File
	out           io.Writer
	mutex         sync.RWMutex
	logPath       string
	maxSizeMB     int64
	rotationCount int
	currentSize   int64
}

var (
	globalLogger *Logger
	initOnce     sync.Once
)

// Initialize sets up the global logger from the [Debug] configuration
// section. The log file is only opened when logging is enabled.
func Initialize() error {
	var err error
	initOnce.Do(func() {
		globalLogger, err = newLogger()
	})
	return err
}

func newLogger() (*Logger, error) {
	l := &Logger{
		areaEnabled: make(map[LogArea]*int32),
	}
	for _, area := range allAreas {
		l.areaEnabled[area] = new(int32)
	}

	if err := l.loadConfig(); err != nil {
		return nil, err
	}
	if l.isEnabled() {
		if err := l.openLogFile(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// loadConfig reads level, file and area switches.
func (l *Logger) loadConfig() error {
	enabled := configuration.GetBool("Debug", "enable_debug_logging", false)
	atomic.StoreInt32(&l.enabled, boolToInt32(enabled))

	levelStr := configuration.GetString("Debug", "log_level", "INFO")
	atomic.StoreInt32(&l.level, int32(parseLogLevel(levelStr)))

	l.logPath = configuration.GetString("Debug", "log_file", "englang.log")
	l.maxSizeMB = int64(configuration.GetInt("Debug", "max_log_size_mb", 10))
	l.rotationCount = configuration.GetInt("Debug", "log_rotation_count", 3)

	for area, atomicBool := range l.areaEnabled {
		configKey := fmt.Sprintf("log_%s", string(area))
		atomic.StoreInt32(atomicBool, boolToInt32(configuration.GetBool("Debug", configKey, false)))
	}
	return nil
}

func (l *Logger) openLogFile() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.file != nil {
		l.file.Close()
	}

	dir := filepath.Dir(l.logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	l.file = file
	l.out = file

	if stat, err := file.Stat(); err == nil {
		l.currentSize = stat.Size()
	}
	return nil
}

// rotateLogFile shifts englang.log to englang.log.1 and so on. The caller
// holds the mutex.
func (l *Logger) rotateLogFile() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
		l.out = nil
	}

	for i := l.rotationCount - 1; i >= 1; i-- {
		oldName := fmt.Sprintf("%s.%d", l.logPath, i)
		newName := fmt.Sprintf("%s.%d", l.logPath, i+1)
		if i == l.rotationCount-1 {
			os.Remove(newName)
		}
		os.Rename(oldName, newName)
	}
	os.Rename(l.logPath, l.logPath+".1")

	file, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	l.file = file
	l.out = file
	l.currentSize = 0
	return nil
}

func (l *Logger) isEnabled() bool {
	return atomic.LoadInt32(&l.enabled) != 0
}

func (l *Logger) isAreaEnabled(area LogArea) bool {
	if atomicBool, exists := l.areaEnabled[area]; exists {
		return atomic.LoadInt32(atomicBool) != 0
	}
	return false
}

func (l *Logger) shouldLog(level LogLevel, area LogArea) bool {
	if !l.isEnabled() {
		return false
	}
	if atomic.LoadInt32(&l.level) > int32(level) {
		return false
	}
	return l.isAreaEnabled(area)
}

// formatEntry renders one log line.
func formatEntry(level LogLevel, area LogArea, file string, line int, message string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf("[%s] %s [%s:%d] [%s] %s\n",
		timestamp,
		logLevelNames[level],
		filepath.Base(file),
		line,
		strings.ToUpper(string(area)),
		message)
}

func (l *Logger) writeLog(level LogLevel, area LogArea, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, file, line, _ := runtime.Caller(3)
	logEntry := formatEntry(level, area, file, line, message)

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.out != nil {
		n, err := io.WriteString(l.out, logEntry)
		if err == nil {
			l.currentSize += int64(n)
			if l.file != nil {
				l.file.Sync()
				if l.currentSize > l.maxSizeMB*1024*1024 {
					l.rotateLogFile()
				}
			}
		}
	}

	if level >= WARN {
		log.Printf("[%s] [%s] %s", logLevelNames[level], strings.ToUpper(string(area)), message)
	}
}

// Debug writes a DEBUG entry.
func Debug(area LogArea, format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.shouldLog(DEBUG, area) {
		globalLogger.writeLog(DEBUG, area, format, args...)
	}
}

// Info writes an INFO entry.
func Info(area LogArea, format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.shouldLog(INFO, area) {
		globalLogger.writeLog(INFO, area, format, args...)
	}
}

// Warn writes a WARN entry.
func Warn(area LogArea, format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.shouldLog(WARN, area) {
		globalLogger.writeLog(WARN, area, format, args...)
	}
}

// Error writes an ERROR entry.
func Error(area LogArea, format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.shouldLog(ERROR, area) {
		globalLogger.writeLog(ERROR, area, format, args...)
	}
}

// Fatal writes a FATAL entry and exits.
func Fatal(area LogArea, format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.writeLog(FATAL, area, format, args...)
	}
	log.Fatalf("[FATAL] [%s] %s", strings.ToUpper(string(area)), fmt.Sprintf(format, args...))
}

// Interpreter logging
func InterpreterDebug(format string, args ...interface{}) { Debug(AreaInterpreter, format, args...) }
func InterpreterInfo(format string, args ...interface{})  { Info(AreaInterpreter, format, args...) }
func InterpreterWarn(format string, args ...interface{})  { Warn(AreaInterpreter, format, args...) }
func InterpreterError(format string, args ...interface{}) { Error(AreaInterpreter, format, args...) }

// Terminal logging
func TerminalDebug(format string, args ...interface{}) { Debug(AreaTerminal, format, args...) }
func TerminalInfo(format string, args ...interface{})  { Info(AreaTerminal, format, args...) }
func TerminalWarn(format string, args ...interface{})  { Warn(AreaTerminal, format, args...) }
func TerminalError(format string, args ...interface{}) { Error(AreaTerminal, format, args...) }

// WebSocket logging
func WebSocketDebug(format string, args ...interface{}) { Debug(AreaWebSocket, format, args...) }
func WebSocketInfo(format string, args ...interface{})  { Info(AreaWebSocket, format, args...) }
func WebSocketWarn(format string, args ...interface{})  { Warn(AreaWebSocket, format, args...) }
func WebSocketError(format string, args ...interface{}) { Error(AreaWebSocket, format, args...) }

// Auth logging
func AuthDebug(format string, args ...interface{}) { Debug(AreaAuth, format, args...) }
func AuthInfo(format string, args ...interface{})  { Info(AreaAuth, format, args...) }
func AuthWarn(format string, args ...interface{})  { Warn(AreaAuth, format, args...) }
func AuthError(format string, args ...interface{}) { Error(AreaAuth, format, args...) }

// Database logging
func DatabaseDebug(format string, args ...interface{}) { Debug(AreaDatabase, format, args...) }
func DatabaseInfo(format string, args ...interface{})  { Info(AreaDatabase, format, args...) }
func DatabaseWarn(format string, args ...interface{})  { Warn(AreaDatabase, format, args...) }
func DatabaseError(format string, args ...interface{}) { Error(AreaDatabase, format, args...) }

// Config logging
func ConfigDebug(format string, args ...interface{}) { Debug(AreaConfig, format, args...) }
func ConfigInfo(format string, args ...interface{})  { Info(AreaConfig, format, args...) }
func ConfigWarn(format string, args ...interface{})  { Warn(AreaConfig, format, args...) }
func ConfigError(format string, args ...interface{}) { Error(AreaConfig, format, args...) }

// ReloadConfig re-reads the [Debug] section and opens the log file if
// logging became enabled.
func ReloadConfig() error {
	if globalLogger == nil {
		return fmt.Errorf("logger not initialized")
	}
	if err := globalLogger.loadConfig(); err != nil {
		return err
	}
	globalLogger.mutex.RLock()
	needsFile := globalLogger.out == nil
	globalLogger.mutex.RUnlock()
	if globalLogger.isEnabled() && needsFile {
		return globalLogger.openLogFile()
	}
	return nil
}

// SetOutput redirects log entries to w instead of the log file.
func SetOutput(w io.Writer) {
	if globalLogger == nil {
		return
	}
	globalLogger.mutex.Lock()
	defer globalLogger.mutex.Unlock()
	if globalLogger.file != nil {
		globalLogger.file.Close()
		globalLogger.file = nil
	}
	globalLogger.out = w
}

// SetEnabled switches logging on or off at runtime.
func SetEnabled(enabled bool) {
	if globalLogger != nil {
		atomic.StoreInt32(&globalLogger.enabled, boolToInt32(enabled))
	}
}

// EnableArea turns logging on for area.
func EnableArea(area LogArea) {
	if globalLogger != nil {
		if atomicBool, exists := globalLogger.areaEnabled[area]; exists {
			atomic.StoreInt32(atomicBool, 1)
		}
	}
}

// DisableArea turns logging off for area.
func DisableArea(area LogArea) {
	if globalLogger != nil {
		if atomicBool, exists := globalLogger.areaEnabled[area]; exists {
			atomic.StoreInt32(atomicBool, 0)
		}
	}
}

// GetAreaStatus reports whether area is enabled.
func GetAreaStatus(area LogArea) bool {
	if globalLogger != nil {
		return globalLogger.isAreaEnabled(area)
	}
	return false
}

// ListAreas returns all known areas.
func ListAreas() []LogArea {
	out := make([]LogArea, len(allAreas))
	copy(out, allAreas)
	return out
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func parseLogLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// Close closes the log file.
func Close() {
	if globalLogger != nil {
		globalLogger.mutex.Lock()
		defer globalLogger.mutex.Unlock()

		if globalLogger.file != nil {
			globalLogger.file.Close()
			globalLogger.file = nil
		}
		globalLogger.out = nil
	}
}
