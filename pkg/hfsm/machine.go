package hfsm

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/junbin-yang/go-hfsm/pkg/logger"
)

// Machine 层次状态机
// 单线程同步执行，回调中可以再次调用 Trigger，新转换会拼接到正在执行的事件队列
// 不提供查询当前状态的接口，应用应通过回调跟踪语义
type Machine[T Enum[T], S Enum[S], A any] struct {
	name string

	states     []*State[T, S, A] // 顶层状态
	stateIndex []int             // 顶层状态标识 -> states 下标
	nodes      []*State[T, S, A] // 所有已注册状态
	topmost    []S               // 状态标识 -> 所属顶层状态

	current      S
	history      S
	defaultState S

	pending *resolution[T, S, A] // 回调中触发、等待拼接的转换
	depth   int                  // 正在执行的事件队列层数

	parallel []*Machine[T, S, A]
	region   bool // 作为其他状态机的并行区域

	log             *logger.Logger
	print           bool
	validate        bool
	inGuard         bool
	transitionNames []string
}

// NewMachine 创建层次状态机
func NewMachine[T Enum[T], S Enum[S], A any](opts ...Option) *Machine[T, S, A] {
	o := options{name: "hfsm"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Default()
	}

	ns := int(noState[S]())
	m := &Machine[T, S, A]{
		name:            o.name,
		stateIndex:      make([]int, ns),
		nodes:           make([]*State[T, S, A], ns),
		topmost:         make([]S, ns),
		current:         noState[S](),
		history:         noState[S](),
		defaultState:    noState[S](),
		log:             o.log.Named(o.name),
		print:           o.print,
		validate:        o.validate,
		transitionNames: o.transitionNames,
	}
	for i := 0; i < ns; i++ {
		m.stateIndex[i] = noIndex
		m.topmost[i] = noState[S]()
	}
	return m
}

// Name 返回状态机名称
func (m *Machine[T, S, A]) Name() string { return m.name }

// AddState 注册顶层状态及其整个子树，第一个注册的顶层状态默认作为初始状态
func (m *Machine[T, S, A]) AddState(id S, st *State[T, S, A]) error {
	if st == nil || !validState(id) {
		return fmt.Errorf("%w: %s : state %d", ErrInvalidState, m.name, id)
	}
	if st.id != id {
		return fmt.Errorf("%w: %s : misconfigured state, state enum mismatch", ErrInvalidState, m.name)
	}

	// 整棵子树中的状态都必须是首次注册
	seen := make(map[S]bool)
	err := st.walk(0, func(s *State[T, S, A], _ int) error {
		if !validState(s.id) {
			return fmt.Errorf("%w: %s : state %d", ErrInvalidState, m.name, s.id)
		}
		if m.nodes[s.id] != nil || seen[s.id] {
			return fmt.Errorf("%w: %s : %s", ErrStateExists, m.name, s.name)
		}
		seen[s.id] = true
		return nil
	})
	if err != nil {
		return err
	}

	m.stateIndex[id] = len(m.states)
	m.states = append(m.states, st)
	_ = st.walk(0, func(s *State[T, S, A], depth int) error {
		s.depth = depth
		m.nodes[s.id] = s
		m.topmost[s.id] = id
		return nil
	})

	if m.defaultState == noState[S]() {
		m.defaultState = id
	}
	return nil
}

// SetDefaultState 设置初始顶层状态
func (m *Machine[T, S, A]) SetDefaultState(id S) error {
	if !validState(id) || m.stateIndex[id] == noIndex {
		return fmt.Errorf("%w: %s : default state %d", ErrStateNotFound, m.name, id)
	}
	m.defaultState = id
	return nil
}

// AddParallel 添加并行区域，区域按添加顺序接收相同的 Trigger/Update 调用
func (m *Machine[T, S, A]) AddParallel(region *Machine[T, S, A]) error {
	if region == nil || region == m || region.region {
		return fmt.Errorf("%w: %s", ErrInvalidRegion, m.name)
	}
	region.region = true
	m.parallel = append(m.parallel, region)
	return nil
}

// State 返回已注册的状态节点，仅供调试使用
func (m *Machine[T, S, A]) State(id S) (*State[T, S, A], error) {
	if !validState(id) || m.nodes[id] == nil {
		return nil, fmt.Errorf("%w: %s : trying to access invalid state %d", ErrStateNotFound, m.name, id)
	}
	return m.nodes[id], nil
}

// StateName 返回状态名称，未注册时返回空字符串
func (m *Machine[T, S, A]) StateName(id S) string {
	if !validState(id) || m.nodes[id] == nil {
		return ""
	}
	return m.nodes[id].name
}

// StateNames 按状态标识返回名称，未注册的为空字符串
func (m *Machine[T, S, A]) StateNames() []string {
	names := make([]string, len(m.nodes))
	for i, n := range m.nodes {
		if n != nil {
			names[i] = n.name
		}
	}
	return names
}

// TransitionName 返回转换名称，未设置时返回数字
func (m *Machine[T, S, A]) TransitionName(t T) string {
	if i := int(t); i < len(m.transitionNames) && m.transitionNames[i] != "" {
		return m.transitionNames[i]
	}
	return fmt.Sprintf("%d", uint64(t))
}

// SetTransitionNames 设置转换名称，同时应用到并行区域
func (m *Machine[T, S, A]) SetTransitionNames(names ...string) {
	m.transitionNames = names
	for _, region := range m.parallel {
		region.SetTransitionNames(names...)
	}
}

// EnablePrint 启用事件跟踪输出，同时应用到并行区域
func (m *Machine[T, S, A]) EnablePrint() {
	m.print = true
	for _, region := range m.parallel {
		region.EnablePrint()
	}
}

// DisablePrint 关闭事件跟踪输出，同时应用到并行区域
func (m *Machine[T, S, A]) DisablePrint() {
	m.print = false
	for _, region := range m.parallel {
		region.DisablePrint()
	}
}

// Trigger 触发转换，随后按添加顺序转发给并行区域
// 活动层级中没有状态处理该转换时返回 ErrUnhandledTransition，各区域的错误合并返回
// 在本状态机的回调中调用时，转换在当前回调返回后生效，剩余队列被丢弃，且不转发给并行区域
func (m *Machine[T, S, A]) Trigger(t T, args A) error {
	if !validTransition(t) {
		return fmt.Errorf("%w: %s : %d", ErrInvalidTransition, m.name, t)
	}
	if m.depth > 0 {
		return m.trigger(t, args)
	}

	errs := m.trigger(t, args)
	for _, region := range m.parallel {
		errs = multierr.Append(errs, region.Trigger(t, args))
	}
	return errs
}

// Update 更新当前状态，随后按添加顺序更新并行区域
// 先检查自动转换守卫，守卫触发转换时跳过本轮剩余的 on_update
func (m *Machine[T, S, A]) Update(args A) error {
	errs := m.update(args)
	for _, region := range m.parallel {
		errs = multierr.Append(errs, region.Update(args))
	}
	return errs
}

/* ------------------------------ 内部方法 ------------------------------ */

func (m *Machine[T, S, A]) update(args A) error {
	if err := m.maybeInit(args); err != nil {
		return err
	}
	if m.region {
		m.tracef("--- parallel update ---")
	} else {
		m.tracef("--- update ---")
	}

	// 叶子在前收集启用了父状态更新的链，执行时外层在前
	chain := m.currentState().activeStates(nil, true)
	n := 1
	for n < len(chain) && chain[n-1].parentUpdate {
		n++
	}
	states := make([]*State[T, S, A], 0, n)
	for i := n - 1; i >= 0; i-- {
		states = append(states, chain[i])
	}
	return m.execute(m.enqueueUpdate(nil, states), args)
}

func (m *Machine[T, S, A]) trigger(t T, args A) error {
	if err := m.maybeInit(args); err != nil {
		return err
	}

	r := newResolution[T, S, A](t)
	m.currentState().resolve(t, r, args)
	if !r.handled() {
		return fmt.Errorf("%w: %s : %s", ErrUnhandledTransition, m.name, m.TransitionName(t))
	}
	m.traceTrigger(t)

	if m.depth > 0 {
		m.pending = r
		return nil
	}

	events, err := m.enqueueTransition(nil, r)
	if err != nil {
		return err
	}
	return m.execute(events, args)
}

func (m *Machine[T, S, A]) maybeInit(args A) error {
	if m.current != noState[S]() {
		return nil
	}
	if len(m.states) == 0 {
		return fmt.Errorf("%w: %s : did you forget to add states?", ErrNoStates, m.name)
	}
	if !m.region && (debugChecks || m.validate) {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	if m.region {
		m.tracef("--- parallel init ---")
	} else {
		m.tracef("--- init ---")
	}

	m.setCurrentState(m.defaultState)
	m.currentState().init()
	enter := m.currentState().activeStates(nil, false)
	return m.execute(m.enqueueEnter(nil, enter, noState[S]()), args)
}

func (m *Machine[T, S, A]) currentState() *State[T, S, A] {
	return m.states[m.stateIndex[m.current]]
}

func (m *Machine[T, S, A]) setCurrentState(id S) {
	m.history = m.current
	m.current = id
}
