package blueprint

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/junbin-yang/go-hfsm/pkg/hfsm"
)

// Catalog 将定义中的名称映射到枚举值与回调
type Catalog[T hfsm.Enum[T], S hfsm.Enum[S], A any] struct {
	States      map[string]S
	Transitions map[string]T
	Handlers    map[string]hfsm.EventFunc[T, S, A]
	Guards      map[string]hfsm.GuardFunc[A]
}

// Build 按定义注册状态与并行区域，所有问题合并为一个错误返回
// 转换名称取自 Catalog.Transitions，定义中的名称覆盖 opts 中的 WithName
func Build[T hfsm.Enum[T], S hfsm.Enum[S], A any](def *Definition, c Catalog[T, S, A], opts ...hfsm.Option) (*hfsm.Machine[T, S, A], error) {
	b := &builder[T, S, A]{catalog: c, opts: opts}
	m := b.machine(def)
	if b.errs != nil {
		return nil, b.errs
	}
	return m, nil
}

type builder[T hfsm.Enum[T], S hfsm.Enum[S], A any] struct {
	catalog Catalog[T, S, A]
	opts    []hfsm.Option
	errs    error
}

func (b *builder[T, S, A]) fail(err error) {
	b.errs = multierr.Append(b.errs, err)
}

func (b *builder[T, S, A]) machine(def *Definition) *hfsm.Machine[T, S, A] {
	opts := append([]hfsm.Option(nil), b.opts...)
	opts = append(opts, hfsm.WithTransitionNames(b.transitionNames()...))
	if def.Name != "" {
		opts = append(opts, hfsm.WithName(def.Name))
	}
	m := hfsm.NewMachine[T, S, A](opts...)

	for i := range def.States {
		sd := &def.States[i]
		st, ok := b.state(sd)
		if !ok {
			continue
		}
		if err := m.AddState(st.ID(), st); err != nil {
			b.fail(err)
		}
	}

	if def.Default != "" {
		if id, ok := b.stateID(def.Default); ok {
			if err := m.SetDefaultState(id); err != nil {
				b.fail(err)
			}
		}
	}

	for i := range def.Parallel {
		if err := m.AddParallel(b.machine(&def.Parallel[i])); err != nil {
			b.fail(err)
		}
	}
	return m
}

// state 构建状态节点及其子树，状态名称无法解析时返回 false
func (b *builder[T, S, A]) state(sd *StateDef) (*hfsm.State[T, S, A], bool) {
	id, ok := b.stateID(sd.Name)
	if !ok {
		return nil, false
	}
	st := hfsm.NewState[T, S, A](id, sd.Name)

	for i := range sd.Substates {
		if sub, ok := b.state(&sd.Substates[i]); ok {
			b.check(st.AddSubstate(sub.ID(), sub))
		}
	}
	if sd.Default != "" {
		if sub, ok := b.stateID(sd.Default); ok {
			b.check(st.SetDefaultSubstate(sub))
		}
	}
	if sd.ParentUpdate {
		st.EnableParentUpdate()
	}

	for ev, name := range [...]string{hfsm.OnEnter: sd.OnEnter, hfsm.OnUpdate: sd.OnUpdate, hfsm.OnExit: sd.OnExit} {
		if name == "" {
			continue
		}
		if fn, ok := b.handler(sd.Name, name); ok {
			b.check(st.AddEvent(hfsm.Event(ev), fn))
		}
	}
	for _, e := range sd.EnterFrom {
		other, ok1 := b.stateID(e.State)
		fn, ok2 := b.handler(sd.Name, e.Handler)
		if ok1 && ok2 {
			b.check(st.AddEnterFrom(other, fn, e.CallGeneric))
		}
	}
	for _, e := range sd.ExitTo {
		other, ok1 := b.stateID(e.State)
		fn, ok2 := b.handler(sd.Name, e.Handler)
		if ok1 && ok2 {
			b.check(st.AddExitTo(other, fn, e.CallGeneric))
		}
	}

	for _, td := range sd.Transitions {
		b.transition(st, td)
	}
	return st, true
}

func (b *builder[T, S, A]) transition(st *hfsm.State[T, S, A], td TransitionDef) {
	t, ok := b.transitionID(td.On)
	if !ok {
		return
	}

	switch {
	case td.Yield && td.To != "":
		b.fail(fmt.Errorf("%w: %s : %s : yield transition can't have a target", ErrInvalidDefinition, st.Name(), td.On))
		return
	case td.Yield:
		if td.Guard != "" {
			b.fail(fmt.Errorf("%w: %s : %s : yield transition can't have a guard", ErrInvalidDefinition, st.Name(), td.On))
			return
		}
		b.check(st.AddYieldTransition(t))
	case td.To != "":
		to, ok := b.stateID(td.To)
		if !ok {
			return
		}
		if td.Guard == "" {
			b.check(st.AddTransition(t, to))
			break
		}
		g, ok := b.guard(st.Name(), td.Guard)
		if !ok {
			return
		}
		b.check(st.AddGuardTransition(t, to, g))
	case td.Auto == "":
		b.fail(fmt.Errorf("%w: %s : %s : transition needs a target, yield or auto guard", ErrInvalidDefinition, st.Name(), td.On))
		return
	}

	if td.Auto != "" {
		if g, ok := b.guard(st.Name(), td.Auto); ok {
			b.check(st.AddAutoTransitionGuard(t, g))
		}
	}
}

func (b *builder[T, S, A]) check(err error) {
	if err != nil {
		b.fail(err)
	}
}

func (b *builder[T, S, A]) stateID(name string) (S, bool) {
	id, ok := b.catalog.States[name]
	if !ok {
		b.fail(fmt.Errorf("%w: %q", ErrUnknownState, name))
	}
	return id, ok
}

func (b *builder[T, S, A]) transitionID(name string) (T, bool) {
	t, ok := b.catalog.Transitions[name]
	if !ok {
		b.fail(fmt.Errorf("%w: %q", ErrUnknownTransition, name))
	}
	return t, ok
}

func (b *builder[T, S, A]) handler(state, name string) (hfsm.EventFunc[T, S, A], bool) {
	fn, ok := b.catalog.Handlers[name]
	if !ok || fn == nil {
		b.fail(fmt.Errorf("%w: %s : %q", ErrUnknownHandler, state, name))
		return nil, false
	}
	return fn, true
}

func (b *builder[T, S, A]) guard(state, name string) (hfsm.GuardFunc[A], bool) {
	g, ok := b.catalog.Guards[name]
	if !ok || g == nil {
		b.fail(fmt.Errorf("%w: %s : %q", ErrUnknownGuard, state, name))
		return nil, false
	}
	return g, true
}

// transitionNames 按枚举值排列的转换名称
func (b *builder[T, S, A]) transitionNames() []string {
	var t T
	names := make([]string, int(t.Count()))
	for name, id := range b.catalog.Transitions {
		if int(id) < len(names) {
			names[id] = name
		}
	}
	return names
}
