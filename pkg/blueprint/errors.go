package blueprint

import "fmt"

var (
	// ErrUnknownState 定义中引用了目录中不存在的状态
	ErrUnknownState = fmt.Errorf("unknown state")

	// ErrUnknownTransition 定义中引用了目录中不存在的转换
	ErrUnknownTransition = fmt.Errorf("unknown transition")

	// ErrUnknownHandler 定义中引用了目录中不存在的事件回调
	ErrUnknownHandler = fmt.Errorf("unknown handler")

	// ErrUnknownGuard 定义中引用了目录中不存在的守卫
	ErrUnknownGuard = fmt.Errorf("unknown guard")

	// ErrInvalidDefinition 定义本身不完整或自相矛盾
	ErrInvalidDefinition = fmt.Errorf("invalid definition")

	// ErrUnsupportedFormat 格式无法表达嵌套的状态树
	ErrUnsupportedFormat = fmt.Errorf("unsupported blueprint format")
)
