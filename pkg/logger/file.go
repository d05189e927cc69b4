package logger

import (
	"errors"
	"io"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions 日志文件输出配置
type FileOptions struct {
	Path       string `yaml:"path" json:"path" ini:"path"`                      // 日志文件路径
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb" ini:"max_size_mb"` // 按大小切割，单位 MB
	MaxBackups int    `yaml:"max_backups" json:"max_backups" ini:"max_backups"` // 保留的旧文件数
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days" ini:"max_age_days"`
	Compress   bool   `yaml:"compress" json:"compress" ini:"compress"`

	// Pattern 非空时按时间切割，如 "logs/hfsm.%Y%m%d%H.log"，Path 作为最新文件的软链接
	Pattern      string        `yaml:"pattern" json:"pattern" ini:"pattern"`
	RotationTime time.Duration `yaml:"rotation_time" json:"rotation_time" ini:"rotation_time"`
}

// NewFile 创建输出到文件的日志
func NewFile(fo FileOptions, level Level, opts ...Option) (*Logger, error) {
	w, err := NewFileWriter(fo)
	if err != nil {
		return nil, err
	}
	return New(w, level, opts...), nil
}

// NewFileWriter 根据配置创建可切割的文件输出
func NewFileWriter(fo FileOptions) (io.Writer, error) {
	if fo.Pattern != "" {
		return newTimeRotateWriter(fo)
	}
	if fo.Path == "" {
		return nil, errors.New("log file path is empty")
	}
	return &lumberjack.Logger{
		Filename:   fo.Path,
		MaxSize:    fo.MaxSizeMB,
		MaxBackups: fo.MaxBackups,
		MaxAge:     fo.MaxAgeDays,
		Compress:   fo.Compress,
	}, nil
}

func newTimeRotateWriter(fo FileOptions) (io.Writer, error) {
	rotation := fo.RotationTime
	if rotation <= 0 {
		rotation = 24 * time.Hour
	}

	options := []rotatelogs.Option{rotatelogs.WithRotationTime(rotation)}
	if fo.Path != "" {
		options = append(options, rotatelogs.WithLinkName(fo.Path))
	}
	if fo.MaxAgeDays > 0 {
		options = append(options, rotatelogs.WithMaxAge(time.Duration(fo.MaxAgeDays)*24*time.Hour))
	} else if fo.MaxBackups > 0 {
		options = append(options, rotatelogs.WithRotationCount(uint(fo.MaxBackups)))
	}
	return rotatelogs.New(fo.Pattern, options...)
}
