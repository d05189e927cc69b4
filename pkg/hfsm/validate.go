package hfsm

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate 检查状态机配置，包括所有并行区域：
//   - 每个状态标识恰好注册一次
//   - 状态名称非空且唯一
//   - 转换目标已注册到所属状态机
//
// 所有问题合并为一个错误返回
func (m *Machine[T, S, A]) Validate() error {
	machines := m.regions(nil)

	var errs error
	owners := make([]string, int(noState[S]()))
	names := make(map[string]S)

	for _, mm := range machines {
		if len(mm.states) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrNoStates, mm.name))
		}

		for id, n := range mm.nodes {
			if n == nil {
				continue
			}
			if owners[id] != "" {
				errs = multierr.Append(errs, fmt.Errorf("%w: state %d registered in %s and %s", ErrStateExists, id, owners[id], mm.name))
				continue
			}
			owners[id] = mm.name

			if n.name == "" {
				errs = multierr.Append(errs, fmt.Errorf("%w: state %d has no name", ErrMissingStates, id))
			} else if other, ok := names[n.name]; ok {
				errs = multierr.Append(errs, fmt.Errorf("%w: %q used by states %d and %d", ErrDuplicateName, n.name, other, id))
			} else {
				names[n.name] = S(id)
			}

			errs = multierr.Append(errs, mm.validateTargets(n))
		}
	}

	for id, owner := range owners {
		if owner == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: state %d isn't registered", ErrMissingStates, id))
		}
	}
	return errs
}

// regions 收集自身及所有嵌套的并行区域
func (m *Machine[T, S, A]) regions(dst []*Machine[T, S, A]) []*Machine[T, S, A] {
	dst = append(dst, m)
	for _, region := range m.parallel {
		dst = region.regions(dst)
	}
	return dst
}

func (m *Machine[T, S, A]) validateTargets(n *State[T, S, A]) error {
	var errs error
	check := func(t int, to S) {
		if m.topmost[to] == noState[S]() {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s : transition %s targets unregistered state %d",
				ErrStateNotFound, n.name, m.TransitionName(T(t)), to))
		}
	}
	for t, to := range n.transitions {
		if to != noState[S]() {
			check(t, to)
		}
	}
	for t, guards := range n.guards {
		for _, g := range guards {
			check(t, g.to)
		}
	}
	return errs
}
