package hfsm

import (
	"reflect"
	"testing"
)

/* ------------------------------ 平面状态 ------------------------------ */

type flatState uint8

const (
	sWalk flatState = iota
	sRun
	sJump
	flatStateCount
)

func (flatState) Count() flatState { return flatStateCount }

type flatTransition uint8

const (
	tWalk flatTransition = iota
	tRun
	tJump
	tYield
	flatTransitionCount
)

func (flatTransition) Count() flatTransition { return flatTransitionCount }

type (
	flatMachine = Machine[flatTransition, flatState, struct{}]
	flatNode    = State[flatTransition, flatState, struct{}]
)

var flatTransitionNames = []string{"do_walk", "do_run", "do_jump", "yield"}

func newFlatMachine(opts ...Option) *flatMachine {
	opts = append([]Option{WithTransitionNames(flatTransitionNames...)}, opts...)
	return NewMachine[flatTransition, flatState, struct{}](opts...)
}

func newFlatNode(id flatState, name string) *flatNode {
	return NewState[flatTransition, flatState, struct{}](id, name)
}

/* ------------------------------ 层次状态 ------------------------------ */

type hState uint8

const (
	hWalk hState = iota
	hWalkNormal
	hWalkCrouch
	hRun
	hRunSub
	hRunSubSub
	hJump
	hStateCount
)

func (hState) Count() hState { return hStateCount }

type hTransition uint8

const (
	htWalk hTransition = iota
	htWalkCrouch
	htWalkNormal
	htRun
	htRunSub
	htJump
	hTransitionCount
)

func (hTransition) Count() hTransition { return hTransitionCount }

type (
	hMachine = Machine[hTransition, hState, struct{}]
	hNode    = State[hTransition, hState, struct{}]
)

var hTransitionNames = []string{"do_walk", "do_walk_crouch", "do_walk_normal", "do_run", "do_run_sub", "do_jump"}

func newHNode(id hState, name string) *hNode {
	return NewState[hTransition, hState, struct{}](id, name)
}

/* ------------------------------ 记录器 ------------------------------ */

// recorder 按顺序记录回调名称
type recorder struct {
	calls []string
}

func (r *recorder) flat(name string) EventFunc[flatTransition, flatState, struct{}] {
	return func(*flatMachine, struct{}) error {
		r.calls = append(r.calls, name)
		return nil
	}
}

func (r *recorder) hier(name string) EventFunc[hTransition, hState, struct{}] {
	return func(*hMachine, struct{}) error {
		r.calls = append(r.calls, name)
		return nil
	}
}

// take 返回并清空已记录的回调
func (r *recorder) take() []string {
	calls := r.calls
	r.calls = nil
	return calls
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("意外错误: %v", err)
	}
}

func expectCalls(t *testing.T, r *recorder, want ...string) {
	t.Helper()
	got := r.take()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("回调顺序错误:\n got  %v\n want %v", got, want)
	}
}
