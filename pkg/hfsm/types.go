package hfsm

// Enum 状态与转换标识的约束
// Count 返回的值是保留的哨兵，表示"无状态"或"无转换"，不能作为合法标识
type Enum[E any] interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
	Count() E
}

// EventFunc 状态事件回调，第一个参数总是状态机本身，便于在回调中再次触发转换
type EventFunc[T Enum[T], S Enum[S], A any] func(m *Machine[T, S, A], args A) error

// GuardFunc 转换守卫谓词
type GuardFunc[A any] func(args A) bool

// Event 简单事件类型
type Event uint8

const (
	OnEnter Event = iota
	OnUpdate
	OnExit
	simpleEventCount
)

// String 返回事件名称
func (e Event) String() string {
	switch e {
	case OnEnter:
		return "on_enter"
	case OnUpdate:
		return "on_update"
	case OnExit:
		return "on_exit"
	}
	return "unknown"
}

const noIndex = -1
