package config

import (
	"github.com/junbin-yang/go-hfsm/pkg/hfsm"
	"github.com/junbin-yang/go-hfsm/pkg/logger"
)

// Settings 状态机运行配置
type Settings struct {
	Name     string      `yaml:"name" json:"name" ini:"name" env:"NAME"`
	Print    bool        `yaml:"print" json:"print" ini:"print" env:"PRINT"`
	Validate bool        `yaml:"validate" json:"validate" ini:"validate" env:"VALIDATE"`
	Log      LogSettings `yaml:"log" json:"log" ini:"log"`
}

// LogSettings 日志配置，File.Path 与 File.Pattern 都为空时输出到 stderr
type LogSettings struct {
	Level string             `yaml:"level" json:"level" ini:"level" env:"LOG_LEVEL"`
	File  logger.FileOptions `yaml:"file" json:"file" ini:"file"`
}

// DefaultSettings 默认配置
func DefaultSettings() Settings {
	return Settings{
		Name: "hfsm",
		Log:  LogSettings{Level: "info"},
	}
}

// NewLogger 根据日志配置创建日志
func (s LogSettings) NewLogger() (*logger.Logger, error) {
	level, err := logger.ParseLevel(s.Level)
	if err != nil {
		return nil, err
	}
	if s.File.Path == "" && s.File.Pattern == "" {
		return logger.New(nil, level), nil
	}
	return logger.NewFile(s.File, level)
}

// MachineOptions 转换为状态机选项
func (s Settings) MachineOptions(l *logger.Logger) []hfsm.Option {
	opts := []hfsm.Option{
		hfsm.WithPrint(s.Print),
		hfsm.WithValidation(s.Validate),
	}
	if s.Name != "" {
		opts = append(opts, hfsm.WithName(s.Name))
	}
	if l != nil {
		opts = append(opts, hfsm.WithLogger(l))
	}
	return opts
}
