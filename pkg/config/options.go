package config

import (
	"time"

	"github.com/junbin-yang/go-hfsm/pkg/logger"
)

// Option 配置管理器选项
type Option func(*Manager)

// WithAppName 设置应用名称，用于默认配置文件名
func WithAppName(name string) Option {
	return func(m *Manager) {
		m.appName = name
	}
}

// WithForceFormat 强制指定配置格式，忽略文件扩展名
func WithForceFormat(s Serializer) Option {
	return func(m *Manager) {
		m.forceFormat = s
	}
}

// WithFormats 设置支持的配置格式
func WithFormats(formats ...Serializer) Option {
	return func(m *Manager) {
		m.formats = formats
	}
}

// WithSearchPaths 设置默认配置文件查找路径，支持 {{.AppName}} 与 {{.ExecDir}}
func WithSearchPaths(paths ...string) Option {
	return func(m *Manager) {
		m.searchPaths = paths
	}
}

// WithEnvPrefix 设置环境变量覆盖的前缀
func WithEnvPrefix(prefix string) Option {
	return func(m *Manager) {
		m.envPrefix = prefix
	}
}

// WithWatch 加载后监听配置文件变化并自动重载，interval 为防抖间隔
func WithWatch(interval time.Duration) Option {
	return func(m *Manager) {
		m.watch = true
		m.debounce = interval
	}
}

// WithLogger 设置日志，默认使用 logger.Default()
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}
