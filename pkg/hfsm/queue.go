package hfsm

import "fmt"

// step 事件队列中的一个延迟动作：进入/更新/退出回调或当前状态指针的更新
type step[A any] func(args A) error

// execute 顺序执行事件队列
// 每个动作执行后检查是否触发了新转换：若是，丢弃剩余队列并拼接新转换的退出/进入事件
func (m *Machine[T, S, A]) execute(events []step[A], args A) error {
	m.depth++
	defer func() { m.depth-- }()

	for i := 0; i < len(events); i++ {
		if err := events[i](args); err != nil {
			m.pending = nil
			return err
		}

		if m.pending == nil {
			continue
		}

		r := m.pending
		m.pending = nil

		var err error
		if events, err = m.enqueueTransition(events[:i+1], r); err != nil {
			return err
		}
	}
	return nil
}

// enqueueTransition 根据查找结果生成退出、指针更新、进入事件
func (m *Machine[T, S, A]) enqueueTransition(events []step[A], r *resolution[T, S, A]) ([]step[A], error) {
	if r.internal {
		return m.enqueueInternal(events, r)
	}

	to := r.to
	resume := false
	if r.yield {
		if m.history == noState[S]() {
			return nil, fmt.Errorf("%w: %s : %s", ErrNoHistory, m.name, m.TransitionName(r.transition))
		}
		to = m.history
		resume = true
	}

	if !validState(to) || m.topmost[to] == noState[S]() {
		return nil, fmt.Errorf("%w: %s : transition target %d isn't registered", ErrStateNotFound, m.name, to)
	}
	topID := m.topmost[to]
	top := m.states[m.stateIndex[topID]]
	old := m.current

	events = m.enqueueExit(events, m.currentState().activeStates(nil, true), to)

	var enter []*State[T, S, A]
	if resume {
		// 恢复离开时的分支
		enter = top.activeStates(nil, false)
		events = append(events, func(A) error {
			m.setCurrentState(topID)
			return nil
		})
	} else {
		path := top.pathTo(to)
		enter = append(enter, path...)
		enter = append(enter, path[len(path)-1].defaultStates(nil)[1:]...)
		events = append(events, func(A) error {
			m.setCurrentState(topID)
			top.focus(path)
			return nil
		})
	}

	return m.enqueueEnter(events, enter, old), nil
}

// enqueueInternal 目标是共同祖先的直接子状态时，只退出/进入该层以下的状态
func (m *Machine[T, S, A]) enqueueInternal(events []step[A], r *resolution[T, S, A]) ([]step[A], error) {
	parent := r.parent
	child, err := parent.Substate(r.to)
	if err != nil {
		return nil, err
	}

	// 进入时使用同层被退出的兄弟状态作为 enter_from 提示
	from := parent.currentSub
	exits := parent.current().activeStates(nil, true)

	events = m.enqueueExit(events, exits, r.to)
	to := r.to
	events = append(events, func(A) error {
		return parent.enterSubstate(to)
	})
	return m.enqueueEnter(events, child.defaultStates(nil), from), nil
}

// enqueueEnter 外层在前；on_enter_from 要求调用通用事件时 on_enter 在其之前执行
func (m *Machine[T, S, A]) enqueueEnter(events []step[A], states []*State[T, S, A], from S) []step[A] {
	for _, s := range states {
		events = append(events, func(args A) error {
			s.active = true
			if s.enterCallsGeneric(from) {
				m.traceEvent(s, OnEnter, noState[S]())
				if err := s.fire(m, OnEnter, args); err != nil || m.pending != nil {
					return err
				}
			}
			m.traceEvent(s, OnEnter, from)
			return s.enter(m, from, args)
		})
	}
	return events
}

// enqueueExit 内层在前；on_exit_to 要求调用通用事件时 on_exit 在其之后执行
// 未进入过的状态（进入事件被新转换丢弃）不会退出
func (m *Machine[T, S, A]) enqueueExit(events []step[A], states []*State[T, S, A], to S) []step[A] {
	for _, s := range states {
		events = append(events, func(args A) error {
			if !s.active {
				return nil
			}
			s.active = false
			m.traceEvent(s, OnExit, to)
			if err := s.exit(m, to, args); err != nil || m.pending != nil {
				return err
			}
			if s.exitCallsGeneric(to) {
				m.traceEvent(s, OnExit, noState[S]())
				return s.fire(m, OnExit, args)
			}
			return nil
		})
	}
	return events
}

// enqueueUpdate 每个状态先检查自动转换守卫，没有触发时才执行 on_update
func (m *Machine[T, S, A]) enqueueUpdate(events []step[A], states []*State[T, S, A]) []step[A] {
	for _, s := range states {
		events = append(events, func(args A) error {
			fired, err := m.runAutoGuards(s, args)
			if err != nil || fired {
				return err
			}
			if s.simple[OnUpdate] != nil {
				m.traceEvent(s, OnUpdate, noState[S]())
			}
			return s.fire(m, OnUpdate, args)
		})
	}
	return events
}

// runAutoGuards 按转换标识顺序检查自动守卫，第一个返回 true 的守卫触发转换
func (m *Machine[T, S, A]) runAutoGuards(s *State[T, S, A], args A) (bool, error) {
	for i, guards := range s.autoGuards {
		for _, guard := range guards {
			if !guard(args) {
				continue
			}
			m.inGuard = true
			err := m.Trigger(T(i), args)
			m.inGuard = false
			return true, err
		}
	}
	return false, nil
}
