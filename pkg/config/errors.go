package config

import "fmt"

var (
	// ErrNotPointer 配置实例必须是非空的结构体指针
	ErrNotPointer = fmt.Errorf("config instance must be a non-nil struct pointer")

	// ErrUnknownFormat 无法根据扩展名识别配置格式
	ErrUnknownFormat = fmt.Errorf("unknown config format")

	// ErrNotFound 没有找到配置文件
	ErrNotFound = fmt.Errorf("config file not found")

	// ErrNotLoaded 尚未加载配置
	ErrNotLoaded = fmt.Errorf("config not loaded")

	// ErrEnvOverride 环境变量无法转换为字段类型
	ErrEnvOverride = fmt.Errorf("invalid environment override")
)
