package hfsm

import "fmt"

var (
	// ErrInvalidState 状态标识越界（>= Count）或与注册键不一致
	ErrInvalidState = fmt.Errorf("invalid state")

	// ErrInvalidTransition 转换标识越界（>= Count）
	ErrInvalidTransition = fmt.Errorf("invalid transition")

	// ErrInvalidEvent 事件类型不是 OnEnter/OnUpdate/OnExit
	ErrInvalidEvent = fmt.Errorf("invalid event")

	// ErrStateExists 状态已经注册到状态机
	ErrStateExists = fmt.Errorf("state already exists")

	// ErrSubstateExists 子状态已经存在
	ErrSubstateExists = fmt.Errorf("substate already exists")

	// ErrStateNotFound 访问未注册的状态
	ErrStateNotFound = fmt.Errorf("state not found")

	// ErrEventExists 事件回调已经存在
	ErrEventExists = fmt.Errorf("event already exists")

	// ErrTransitionExists 转换已经存在
	ErrTransitionExists = fmt.Errorf("transition already exists")

	// ErrYieldConflict 普通转换与 yield 转换冲突
	ErrYieldConflict = fmt.Errorf("yield transition conflict")

	// ErrTransitionMissing 自动守卫引用了当前状态未处理的转换
	ErrTransitionMissing = fmt.Errorf("transition doesn't exist")

	// ErrUnhandledTransition 活动层级中没有状态处理该转换
	ErrUnhandledTransition = fmt.Errorf("current state doesn't handle transition")

	// ErrNoHistory yield 转换时没有历史状态
	ErrNoHistory = fmt.Errorf("no history state")

	// ErrNoStates 状态机没有注册任何状态
	ErrNoStates = fmt.Errorf("no states registered")

	// ErrInvalidRegion 并行区域为空、为自身或重复添加
	ErrInvalidRegion = fmt.Errorf("invalid parallel region")

	// ErrMissingStates 存在未注册或未命名的状态
	ErrMissingStates = fmt.Errorf("missing states")

	// ErrDuplicateName 状态名称重复
	ErrDuplicateName = fmt.Errorf("states have duplicate names")
)
