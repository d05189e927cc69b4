package hfsm

// resolution 一次 trigger 的转换查找结果
type resolution[T Enum[T], S Enum[S], A any] struct {
	transition T
	from       S
	to         S
	yield      bool
	internal   bool // 目标是某个已进入祖先的直接子状态

	// internal 为 true 时的共同祖先，只重新进入其下的分支
	parent *State[T, S, A]
}

func newResolution[T Enum[T], S Enum[S], A any](t T) *resolution[T, S, A] {
	return &resolution[T, S, A]{
		transition: t,
		from:       noState[S](),
		to:         noState[S](),
	}
}

func (r *resolution[T, S, A]) handled() bool {
	return r.to != noState[S]() || r.yield
}

// resolve 深度优先查找转换：子状态优先处理，然后才检查本状态的规则
// 本状态的规则优先级：守卫转换 > 无条件转换 > yield 转换
func (s *State[T, S, A]) resolve(t T, r *resolution[T, S, A], args A) {
	if s.currentSub != noState[S]() {
		s.current().resolve(t, r, args)
	}

	if r.yield || r.internal {
		return
	}

	// 子状态已处理
	if r.to != noState[S]() {
		// 只检查直接子状态，更深层的目标退化为完整的退出/进入
		if s.hasSubstate(r.to) {
			r.internal = true
			r.parent = s
		}
		return
	}

	for _, g := range s.guards[t] {
		if g.guard(args) {
			r.from = s.id
			r.to = g.to
			return
		}
	}

	if to := s.transitions[t]; to != noState[S]() {
		r.from = s.id
		r.to = to
		return
	}

	if s.yields[t] {
		r.from = s.id
		r.yield = true
	}
}
