package logger

import (
	"os"

	"go.uber.org/zap"
)

var (
	std = New(os.Stderr, InfoLevel, AddCaller())
	// 包级函数多一层调用栈
	stdSkip = std.l.WithOptions(zap.AddCallerSkip(1))
)

func Default() *Logger { return std }

// ReplaceDefault 替换默认日志
func ReplaceDefault(l *Logger) {
	std = l
	stdSkip = l.l.WithOptions(zap.AddCallerSkip(1))
}

func SetLevel(level Level) { std.SetLevel(level) }

func Debug(msg string, fields ...Field) { stdSkip.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { stdSkip.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { stdSkip.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { stdSkip.Error(msg, fields...) }

func Debugf(format string, v ...interface{}) { stdSkip.Sugar().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { stdSkip.Sugar().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { stdSkip.Sugar().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { stdSkip.Sugar().Errorf(format, v...) }

func Sync() error { return std.Sync() }
