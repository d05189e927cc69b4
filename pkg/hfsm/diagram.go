package hfsm

import (
	"fmt"
	"io"
	"strings"
)

// WritePlantUML 以 PlantUML 格式导出状态机拓扑，并行区域作为并发区段输出
// 仅用于调试和文档，不反映当前状态
func (m *Machine[T, S, A]) WritePlantUML(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "@startuml %s\n", plantID(m.name))

	if len(m.parallel) == 0 {
		m.writeRegion(&b, 0)
	} else {
		fmt.Fprintf(&b, "state %s {\n", plantID(m.name))
		for i, mm := range m.regions(nil) {
			if i > 0 {
				b.WriteString("  --\n")
			}
			mm.writeRegion(&b, 1)
		}
		b.WriteString("}\n")
	}

	b.WriteString("@enduml\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (m *Machine[T, S, A]) writeRegion(b *strings.Builder, depth int) {
	for _, s := range m.states {
		m.writeState(b, s, depth)
	}
	indent := strings.Repeat("  ", depth)
	if validState(m.defaultState) && m.nodes[m.defaultState] != nil {
		fmt.Fprintf(b, "%s[*] --> %s\n", indent, plantID(m.nodes[m.defaultState].name))
	}
	for _, s := range m.states {
		_ = s.walk(0, func(st *State[T, S, A], _ int) error {
			m.writeTransitions(b, st, indent)
			return nil
		})
	}
}

func (m *Machine[T, S, A]) writeState(b *strings.Builder, s *State[T, S, A], depth int) {
	indent := strings.Repeat("  ", depth)
	id := plantID(s.name)
	if len(s.substates) == 0 {
		fmt.Fprintf(b, "%sstate %s\n", indent, id)
	} else {
		fmt.Fprintf(b, "%sstate %s {\n", indent, id)
		if def, ok := s.DefaultSubstate(); ok {
			fmt.Fprintf(b, "%s  [*] --> %s\n", indent, plantID(m.StateName(def)))
		}
		for _, sub := range s.substates {
			m.writeState(b, sub, depth+1)
		}
		fmt.Fprintf(b, "%s}\n", indent)
	}
	if s.parentUpdate {
		fmt.Fprintf(b, "%sstate %s : parent update\n", indent, id)
	}
}

func (m *Machine[T, S, A]) writeTransitions(b *strings.Builder, s *State[T, S, A], indent string) {
	id := plantID(s.name)
	for t := range s.transitions {
		label := m.TransitionName(T(t))
		if len(s.autoGuards[t]) != 0 {
			label += " [auto]"
		}
		for i, g := range s.guards[t] {
			fmt.Fprintf(b, "%s%s --> %s : %s [guard %d]\n", indent, id, plantID(m.StateName(g.to)), label, i+1)
		}
		if to := s.transitions[t]; to != noState[S]() {
			fmt.Fprintf(b, "%s%s --> %s : %s\n", indent, id, plantID(m.StateName(to)), label)
		}
		if s.yields[t] {
			fmt.Fprintf(b, "%s%s --> [H] : %s\n", indent, id, label)
		}
	}
}

func plantID(name string) string {
	if name == "" {
		return "unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}
