package hfsm

import "strings"

const indentSize = 4

func (m *Machine[T, S, A]) tracef(format string, v ...interface{}) {
	if !m.print {
		return
	}
	m.log.Infof(format, v...)
}

func (m *Machine[T, S, A]) traceTrigger(t T) {
	if m.inGuard {
		m.tracef("--- transition guard triggered : %s ---", m.TransitionName(t))
		return
	}
	m.tracef("--- triggered : %s ---", m.TransitionName(t))
}

// traceEvent 只输出实际会执行的回调
func (m *Machine[T, S, A]) traceEvent(s *State[T, S, A], ev Event, other S) {
	if !m.print {
		return
	}
	indent := strings.Repeat(" ", s.depth*indentSize)

	switch ev {
	case OnEnter:
		if validState(other) && s.enterFrom[other].fn != nil {
			m.tracef("%s%s : on_enter_from : %s", indent, s.name, m.StateName(other))
			return
		}
	case OnExit:
		if validState(other) && s.exitTo[other].fn != nil {
			m.tracef("%s%s : on_exit_to : %s", indent, s.name, m.StateName(other))
			return
		}
	}
	if s.simple[ev] != nil {
		m.tracef("%s%s : %s", indent, s.name, ev)
	}
}
