package hfsm

import "fmt"

// specialEvent on_enter_from / on_exit_to 回调
type specialEvent[T Enum[T], S Enum[S], A any] struct {
	fn          EventFunc[T, S, A]
	callGeneric bool // 同时调用通用的 on_enter / on_exit
}

// guardTransition 带守卫的转换
type guardTransition[S Enum[S], A any] struct {
	guard GuardFunc[A]
	to    S
}

// State 层次状态机中的状态节点
// 节点独占其子状态，拓扑在注册到状态机后不再变化
type State[T Enum[T], S Enum[S], A any] struct {
	id    S
	name  string
	depth int

	substates  []*State[T, S, A]
	subIndex   []int // 状态标识 -> substates 下标
	defaultSub S
	currentSub S

	simple    [simpleEventCount]EventFunc[T, S, A]
	enterFrom []specialEvent[T, S, A]
	exitTo    []specialEvent[T, S, A]

	transitions []S
	guards      [][]guardTransition[S, A]
	autoGuards  [][]GuardFunc[A]
	yields      []bool

	parentUpdate bool
	active       bool // 已执行进入事件且尚未退出
}

// NewState 创建状态节点
func NewState[T Enum[T], S Enum[S], A any](id S, name string) *State[T, S, A] {
	ns := int(noState[S]())
	nt := int(noTransition[T]())

	s := &State[T, S, A]{
		id:          id,
		name:        name,
		subIndex:    make([]int, ns),
		defaultSub:  noState[S](),
		currentSub:  noState[S](),
		enterFrom:   make([]specialEvent[T, S, A], ns),
		exitTo:      make([]specialEvent[T, S, A], ns),
		transitions: make([]S, nt),
		guards:      make([][]guardTransition[S, A], nt),
		autoGuards:  make([][]GuardFunc[A], nt),
		yields:      make([]bool, nt),
	}
	for i := range s.subIndex {
		s.subIndex[i] = noIndex
	}
	for i := range s.transitions {
		s.transitions[i] = noState[S]()
	}
	return s
}

// ID 返回状态标识
func (s *State[T, S, A]) ID() S { return s.id }

// Name 返回状态名称
func (s *State[T, S, A]) Name() string { return s.name }

// AddSubstate 添加子状态，第一个添加的子状态默认作为初始子状态
func (s *State[T, S, A]) AddSubstate(id S, sub *State[T, S, A]) error {
	if sub == nil || !validState(id) {
		return fmt.Errorf("%w: %s : substate %d", ErrInvalidState, s.name, id)
	}
	if sub.id != id {
		return fmt.Errorf("%w: %s : misconfigured substate, state enum mismatch", ErrInvalidState, s.name)
	}
	if s.subIndex[id] != noIndex {
		return fmt.Errorf("%w: %s : %s", ErrSubstateExists, s.name, sub.name)
	}

	s.subIndex[id] = len(s.substates)
	s.substates = append(s.substates, sub)

	if s.defaultSub == noState[S]() {
		s.defaultSub = id
	}
	return nil
}

// SetDefaultSubstate 设置初始子状态
func (s *State[T, S, A]) SetDefaultSubstate(id S) error {
	if !s.hasSubstate(id) {
		return fmt.Errorf("%w: %s : default substate %d", ErrStateNotFound, s.name, id)
	}
	s.defaultSub = id
	return nil
}

// DefaultSubstate 返回初始子状态，叶子状态返回 false
func (s *State[T, S, A]) DefaultSubstate() (S, bool) {
	return s.defaultSub, s.defaultSub != noState[S]()
}

// Substate 返回已注册的直接子状态
func (s *State[T, S, A]) Substate(id S) (*State[T, S, A], error) {
	if !s.hasSubstate(id) {
		return nil, fmt.Errorf("%w: %s : trying to access invalid substate %d", ErrStateNotFound, s.name, id)
	}
	return s.substates[s.subIndex[id]], nil
}

// Substates 按添加顺序返回直接子状态
func (s *State[T, S, A]) Substates() []*State[T, S, A] {
	return append([]*State[T, S, A](nil), s.substates...)
}

// AddEvent 添加 on_enter / on_update / on_exit 回调
func (s *State[T, S, A]) AddEvent(ev Event, fn EventFunc[T, S, A]) error {
	if ev >= simpleEventCount {
		return fmt.Errorf("%w: %s : %d", ErrInvalidEvent, s.name, ev)
	}
	if s.simple[ev] != nil {
		return fmt.Errorf("%w: %s : %s", ErrEventExists, s.name, ev)
	}
	s.simple[ev] = fn
	return nil
}

// AddEnterFrom 添加从指定状态进入时的回调
// callGeneric 为 true 时先调用 on_enter 再调用本回调
func (s *State[T, S, A]) AddEnterFrom(from S, fn EventFunc[T, S, A], callGeneric bool) error {
	if !validState(from) {
		return fmt.Errorf("%w: %s : on_enter_from %d", ErrInvalidState, s.name, from)
	}
	if s.enterFrom[from].fn != nil {
		return fmt.Errorf("%w: %s : on_enter_from already exists for selected state", ErrEventExists, s.name)
	}
	s.enterFrom[from] = specialEvent[T, S, A]{fn: fn, callGeneric: callGeneric}
	return nil
}

// AddExitTo 添加退出到指定状态时的回调
// callGeneric 为 true 时在本回调之后调用 on_exit
func (s *State[T, S, A]) AddExitTo(to S, fn EventFunc[T, S, A], callGeneric bool) error {
	if !validState(to) {
		return fmt.Errorf("%w: %s : on_exit_to %d", ErrInvalidState, s.name, to)
	}
	if s.exitTo[to].fn != nil {
		return fmt.Errorf("%w: %s : on_exit_to already exists for selected state", ErrEventExists, s.name)
	}
	s.exitTo[to] = specialEvent[T, S, A]{fn: fn, callGeneric: callGeneric}
	return nil
}

// AddTransition 添加无条件转换
func (s *State[T, S, A]) AddTransition(t T, to S) error {
	if err := s.checkTransition(t, to); err != nil {
		return err
	}
	if s.transitions[t] != noState[S]() {
		return fmt.Errorf("%w: %s : transition %d", ErrTransitionExists, s.name, t)
	}
	s.transitions[t] = to
	return nil
}

// AddGuardTransition 添加带守卫的转换
// 守卫按添加顺序求值，优先于无条件转换，第一个返回 true 的生效
func (s *State[T, S, A]) AddGuardTransition(t T, to S, guard GuardFunc[A]) error {
	if err := s.checkTransition(t, to); err != nil {
		return err
	}
	s.guards[t] = append(s.guards[t], guardTransition[S, A]{guard: guard, to: to})
	return nil
}

// AddAutoTransitionGuard 添加自动转换守卫，在 on_update 之前检查
// 守卫返回 true 时自动触发转换并跳过 on_update
func (s *State[T, S, A]) AddAutoTransitionGuard(t T, guard GuardFunc[A]) error {
	if !validTransition(t) {
		return fmt.Errorf("%w: %s : %d", ErrInvalidTransition, s.name, t)
	}
	if !s.handles(t) {
		return fmt.Errorf("%w: %s : transition %d", ErrTransitionMissing, s.name, t)
	}
	s.autoGuards[t] = append(s.autoGuards[t], guard)
	return nil
}

// AddYieldTransition 添加 yield（历史）转换，返回到之前的状态
func (s *State[T, S, A]) AddYieldTransition(t T) error {
	if !validTransition(t) {
		return fmt.Errorf("%w: %s : %d", ErrInvalidTransition, s.name, t)
	}
	if s.yields[t] {
		return fmt.Errorf("%w: %s : transition is already set to yield", ErrTransitionExists, s.name)
	}
	if s.transitions[t] != noState[S]() || len(s.guards[t]) != 0 {
		return fmt.Errorf("%w: %s : transition already exists as non yield transition", ErrYieldConflict, s.name)
	}
	s.yields[t] = true
	return nil
}

// EnableParentUpdate 更新本状态时同时更新父状态
func (s *State[T, S, A]) EnableParentUpdate() {
	s.parentUpdate = true
}

// ParentUpdateEnabled 返回是否启用父状态更新
func (s *State[T, S, A]) ParentUpdateEnabled() bool {
	return s.parentUpdate
}

/* ------------------------------ 内部方法 ------------------------------ */

func (s *State[T, S, A]) checkTransition(t T, to S) error {
	if !validTransition(t) {
		return fmt.Errorf("%w: %s : %d", ErrInvalidTransition, s.name, t)
	}
	if !validState(to) {
		return fmt.Errorf("%w: %s : transition target %d", ErrInvalidState, s.name, to)
	}
	if s.yields[t] {
		return fmt.Errorf("%w: %s : transition predefined as yield transition", ErrYieldConflict, s.name)
	}
	return nil
}

func (s *State[T, S, A]) handles(t T) bool {
	return s.transitions[t] != noState[S]() || len(s.guards[t]) != 0 || s.yields[t]
}

func (s *State[T, S, A]) hasSubstate(id S) bool {
	return validState(id) && s.subIndex[id] != noIndex
}

func (s *State[T, S, A]) current() *State[T, S, A] {
	return s.substates[s.subIndex[s.currentSub]]
}

// init 将当前子状态链重置为默认子状态链
func (s *State[T, S, A]) init() {
	s.currentSub = s.defaultSub
	if s.currentSub != noState[S]() {
		s.current().init()
	}
}

// enterSubstate 切换当前子状态并重置其子状态链
func (s *State[T, S, A]) enterSubstate(id S) error {
	sub, err := s.Substate(id)
	if err != nil {
		return err
	}
	s.currentSub = id
	sub.init()
	return nil
}

// focus 重置子状态链，并沿 path 指向目标状态
// path[0] 必须是 s 本身
func (s *State[T, S, A]) focus(path []*State[T, S, A]) {
	s.init()
	for i := 0; i+1 < len(path); i++ {
		path[i].currentSub = path[i+1].id
	}
	if n := len(path); n > 1 {
		path[n-1].init()
	}
}

// activeStates 收集当前活动的状态链，leafFirst 为 true 时叶子在前
func (s *State[T, S, A]) activeStates(dst []*State[T, S, A], leafFirst bool) []*State[T, S, A] {
	if !leafFirst {
		dst = append(dst, s)
	}
	if s.currentSub != noState[S]() {
		dst = s.current().activeStates(dst, leafFirst)
	}
	if leafFirst {
		dst = append(dst, s)
	}
	return dst
}

// defaultStates 收集默认子状态链，外层在前
func (s *State[T, S, A]) defaultStates(dst []*State[T, S, A]) []*State[T, S, A] {
	dst = append(dst, s)
	if s.defaultSub != noState[S]() {
		dst = s.substates[s.subIndex[s.defaultSub]].defaultStates(dst)
	}
	return dst
}

// pathTo 返回从 s 到目标状态的路径，外层在前，目标不在子树中时返回 nil
func (s *State[T, S, A]) pathTo(target S) []*State[T, S, A] {
	if s.id == target {
		return []*State[T, S, A]{s}
	}
	for _, sub := range s.substates {
		if p := sub.pathTo(target); p != nil {
			return append([]*State[T, S, A]{s}, p...)
		}
	}
	return nil
}

// walk 先序遍历子树
func (s *State[T, S, A]) walk(depth int, fn func(st *State[T, S, A], depth int) error) error {
	if err := fn(s, depth); err != nil {
		return err
	}
	for _, sub := range s.substates {
		if err := sub.walk(depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// enterCallsGeneric 从 from 进入时是否需要先调用 on_enter
func (s *State[T, S, A]) enterCallsGeneric(from S) bool {
	if !validState(from) {
		return false
	}
	return s.enterFrom[from].fn != nil && s.enterFrom[from].callGeneric && s.simple[OnEnter] != nil
}

// exitCallsGeneric 退出到 to 时是否需要再调用 on_exit
func (s *State[T, S, A]) exitCallsGeneric(to S) bool {
	if !validState(to) {
		return false
	}
	return s.exitTo[to].fn != nil && s.exitTo[to].callGeneric && s.simple[OnExit] != nil
}

// enter 执行进入回调，存在 on_enter_from 时优先
func (s *State[T, S, A]) enter(m *Machine[T, S, A], from S, args A) error {
	if validState(from) && s.enterFrom[from].fn != nil {
		return s.enterFrom[from].fn(m, args)
	}
	return s.fire(m, OnEnter, args)
}

// exit 执行退出回调，存在 on_exit_to 时优先
func (s *State[T, S, A]) exit(m *Machine[T, S, A], to S, args A) error {
	if validState(to) && s.exitTo[to].fn != nil {
		return s.exitTo[to].fn(m, args)
	}
	return s.fire(m, OnExit, args)
}

// fire 执行简单事件，未注册时忽略
func (s *State[T, S, A]) fire(m *Machine[T, S, A], ev Event, args A) error {
	if fn := s.simple[ev]; fn != nil {
		return fn(m, args)
	}
	return nil
}

func noState[S Enum[S]]() S {
	var s S
	return s.Count()
}

func noTransition[T Enum[T]]() T {
	var t T
	return t.Count()
}

func validState[S Enum[S]](s S) bool {
	return s < noState[S]()
}

func validTransition[T Enum[T]](t T) bool {
	return t < noTransition[T]()
}
