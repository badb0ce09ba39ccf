package log

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync/atomic"
)

// Level 日志级别
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) tag() string {
	switch l {
	case LevelDebug:
		return "[DBUG] "
	case LevelInfo:
		return "[INFO] "
	case LevelWarning:
		return "[WARN] "
	default:
		return "[ERRO] "
	}
}

type PsLogger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warning(v ...interface{})
	Warningf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

var (
	Plg PsLogger = DefaultLogger()
)

type defaultLogger struct {
	level int32
	log   *log.Logger
}

// DefaultLogger 输出到 stdout, 默认级别 LevelInfo
func DefaultLogger() *defaultLogger {
	return NewLogger(log.New(os.Stdout, "", log.LstdFlags), LevelInfo)
}

// NewLogger 基于标准库 log 的实现, 方便测试时重定向输出
func NewLogger(l *log.Logger, level Level) *defaultLogger {
	return &defaultLogger{level: int32(level), log: l}
}

// SetLevel 低于 level 的日志会被丢弃
func (d *defaultLogger) SetLevel(level Level) {
	atomic.StoreInt32(&d.level, int32(level))
}

func (d *defaultLogger) enabled(level Level) bool {
	return Level(atomic.LoadInt32(&d.level)) <= level
}

func (d *defaultLogger) println(level Level, v []interface{}) {
	if !d.enabled(level) {
		return
	}
	d.log.Println(append([]interface{}{level.tag() + d.getPrefix(5)}, v...)...)
}

func (d *defaultLogger) printf(level Level, format string, v []interface{}) {
	if !d.enabled(level) {
		return
	}
	d.log.Printf(level.tag()+d.getPrefix(5)+" "+format, v...)
}

func (d *defaultLogger) Debug(v ...interface{}) {
	d.println(LevelDebug, v)
}

func (d *defaultLogger) Debugf(format string, v ...interface{}) {
	d.printf(LevelDebug, format, v)
}

func (d *defaultLogger) Info(v ...interface{}) {
	d.println(LevelInfo, v)
}

func (d *defaultLogger) Infof(format string, v ...interface{}) {
	d.printf(LevelInfo, format, v)
}

func (d *defaultLogger) Warning(v ...interface{}) {
	d.println(LevelWarning, v)
}

func (d *defaultLogger) Warningf(format string, v ...interface{}) {
	d.printf(LevelWarning, format, v)
}

func (d *defaultLogger) Error(v ...interface{}) {
	d.println(LevelError, v)
}

func (d *defaultLogger) Errorf(format string, v ...interface{}) {
	d.printf(LevelError, format, v)
}

func (d *defaultLogger) Panicf(format string, v ...interface{}) {
	d.printf(LevelError, format, v)
	panic(fmt.Sprintf(format, v...))
}

// getPrefix skip 对应经由包级函数(public.go)调用时的调用方
func (d *defaultLogger) getPrefix(skip int) string {
	file, line := callInfo(skip)
	return file + ":" + strconv.Itoa(line)
}

func callInfo(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "", 0
	}
	return filepath.Base(file), line
}
