package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

// Option zap 选项
type Option = zap.Option

// AddCaller 记录调用位置
func AddCaller() Option { return zap.AddCaller() }

// AddCallerSkip 跳过调用栈层数
func AddCallerSkip(skip int) Option { return zap.AddCallerSkip(skip) }

// Logger 基于 zap 的日志实现
type Logger struct {
	l  *zap.Logger
	al *zap.AtomicLevel
}

// New 创建输出到 out 的日志，out 为 nil 时输出到 stderr
func New(out io.Writer, level Level, opts ...Option) *Logger {
	if out == nil {
		out = os.Stderr
	}

	al := zap.NewAtomicLevelAt(level)

	core := zapcore.NewCore(
		GetEncoder(),
		zapcore.AddSync(out),
		al,
	)
	return &Logger{l: zap.New(core, opts...), al: &al}
}

// Nop 丢弃所有输出
func Nop() *Logger {
	return &Logger{l: zap.NewNop()}
}

// ParseLevel 解析日志级别，如 debug/info/warn/error
func ParseLevel(text string) (Level, error) {
	if text == "" {
		return InfoLevel, nil
	}
	return zapcore.ParseLevel(text)
}

// GetEncoder 自定义Encoder
func GetEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(
		zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller_line",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    cEncodeLevel,
			EncodeTime:     cEncodeTime,
			EncodeName:     cEncodeName,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   cEncodeCaller,
		})
}

// 自定义日志级别显示
func cEncodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + level.CapitalString() + "]")
}

const defaultTimeFormat = "2006-01-02 15:04:05"

// 自定义时间格式显示
func cEncodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format(defaultTimeFormat) + "]")
}

// 自定义名称显示
func cEncodeName(name string, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + name + "]")
}

// 自定义行号显示
func cEncodeCaller(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + caller.TrimmedPath() + "]")
}

// SetLevel 动态调整日志级别
func (l *Logger) SetLevel(level Level) {
	if l.al != nil {
		l.al.SetLevel(level)
	}
}

// Enabled 判断级别是否输出
func (l *Logger) Enabled(level Level) bool {
	return l.l.Core().Enabled(level)
}

// Named 创建子日志，名称以 "." 连接
func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), al: l.al}
}

// With 创建携带固定字段的子日志
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l: l.l.With(fields...), al: l.al}
}

// Zap 返回底层 zap 日志
func (l *Logger) Zap() *zap.Logger {
	return l.l
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.l.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.l.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.l.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.l.Error(msg, fields...)
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.l.Debug(fmt.Sprintf(format, v...))
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.l.Info(fmt.Sprintf(format, v...))
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.l.Warn(fmt.Sprintf(format, v...))
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.l.Error(fmt.Sprintf(format, v...))
}
