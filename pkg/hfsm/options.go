package hfsm

import "github.com/junbin-yang/go-hfsm/pkg/logger"

type options struct {
	name            string
	log             *logger.Logger
	print           bool
	validate        bool
	transitionNames []string
}

// Option 状态机配置选项
type Option func(*options)

// WithName 设置状态机名称，用于日志与图形导出
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger 设置状态机日志，默认使用 logger.Default()
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithPrint 启用事件跟踪输出
func WithPrint(enable bool) Option {
	return func(o *options) {
		o.print = enable
	}
}

// WithValidation 首次初始化时执行 Validate，未使用 hfsmdebug 标签编译时也生效
func WithValidation(enable bool) Option {
	return func(o *options) {
		o.validate = enable
	}
}

// WithTransitionNames 设置转换名称，按转换标识顺序
func WithTransitionNames(names ...string) Option {
	return func(o *options) {
		o.transitionNames = names
	}
}
