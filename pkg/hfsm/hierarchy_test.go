package hfsm

import "testing"

// buildHierarchy 构建以下拓扑：
//
//	walk { walk_normal, walk_crouch }
//	run { run_sub { run_sub_sub } }
//	jump
func buildHierarchy(t *testing.T, r *recorder) *hMachine {
	t.Helper()
	node := func(id hState, name string) *hNode {
		n := newHNode(id, name)
		must(t, n.AddEvent(OnEnter, r.hier(name+".enter")))
		must(t, n.AddEvent(OnExit, r.hier(name+".exit")))
		return n
	}

	walk := node(hWalk, "walk")
	walkNormal := node(hWalkNormal, "walk_normal")
	walkCrouch := node(hWalkCrouch, "walk_crouch")
	must(t, walk.AddSubstate(hWalkNormal, walkNormal))
	must(t, walk.AddSubstate(hWalkCrouch, walkCrouch))
	must(t, walk.AddTransition(htRun, hRun))
	must(t, walk.AddTransition(htJump, hJump))
	must(t, walkNormal.AddTransition(htWalkCrouch, hWalkCrouch))
	must(t, walkCrouch.AddTransition(htWalkNormal, hWalkNormal))
	must(t, walkCrouch.AddTransition(htRun, hRun))

	run := node(hRun, "run")
	runSub := node(hRunSub, "run_sub")
	runSubSub := node(hRunSubSub, "run_sub_sub")
	must(t, runSub.AddSubstate(hRunSubSub, runSubSub))
	must(t, run.AddSubstate(hRunSub, runSub))
	must(t, run.AddTransition(htWalk, hWalk))
	must(t, runSub.AddTransition(htRunSub, hRunSubSub))
	must(t, runSubSub.AddTransition(htJump, hJump))
	must(t, runSubSub.AddTransition(htRun, hRunSub))

	jump := node(hJump, "jump")
	must(t, jump.AddTransition(htWalk, hWalkCrouch))

	m := NewMachine[hTransition, hState, struct{}](WithTransitionNames(hTransitionNames...))
	must(t, m.AddState(hWalk, walk))
	must(t, m.AddState(hRun, run))
	must(t, m.AddState(hJump, jump))
	return m
}

func TestHierarchy_Transitions(t *testing.T) {
	r := &recorder{}
	m := buildHierarchy(t, r)
	var none struct{}

	must(t, m.Update(none))
	expectCalls(t, r, "walk.enter", "walk_normal.enter")

	// 兄弟状态之间只退出/进入该层
	must(t, m.Trigger(htWalkCrouch, none))
	expectCalls(t, r, "walk_normal.exit", "walk_crouch.enter")

	// 叶子处理转换，目标在其他顶层状态，进入目标的默认子状态链
	must(t, m.Trigger(htRun, none))
	expectCalls(t, r,
		"walk_crouch.exit", "walk.exit",
		"run.enter", "run_sub.enter", "run_sub_sub.enter")

	// 目标是祖先的直接子状态，离开的每一层都会退出
	must(t, m.Trigger(htRun, none))
	expectCalls(t, r,
		"run_sub_sub.exit", "run_sub.exit",
		"run_sub.enter", "run_sub_sub.enter")

	// 更深层的目标退化为完整的退出/进入
	must(t, m.Trigger(htRunSub, none))
	expectCalls(t, r,
		"run_sub_sub.exit", "run_sub.exit", "run.exit",
		"run.enter", "run_sub.enter", "run_sub_sub.enter")

	must(t, m.Trigger(htJump, none))
	expectCalls(t, r, "run_sub_sub.exit", "run_sub.exit", "run.exit", "jump.enter")

	// 目标是嵌套状态时沿路径进入
	must(t, m.Trigger(htWalk, none))
	expectCalls(t, r, "jump.exit", "walk.enter", "walk_crouch.enter")

	must(t, m.Trigger(htWalkNormal, none))
	expectCalls(t, r, "walk_crouch.exit", "walk_normal.enter")

	// 父状态处理叶子不处理的转换
	must(t, m.Trigger(htJump, none))
	expectCalls(t, r, "walk_normal.exit", "walk.exit", "jump.enter")
}

func TestHierarchy_ReentryResetsBranch(t *testing.T) {
	r := &recorder{}
	m := buildHierarchy(t, r)
	var none struct{}

	must(t, m.Update(none))
	must(t, m.Trigger(htWalkCrouch, none))
	must(t, m.Trigger(htRun, none))
	must(t, m.Trigger(htWalk, none))
	r.take()

	// 普通转换重新进入时使用默认子状态
	must(t, m.Trigger(htRun, none))
	expectCalls(t, r, "walk_normal.exit", "walk.exit", "run.enter", "run_sub.enter", "run_sub_sub.enter")
}

func TestHierarchy_InternalHints(t *testing.T) {
	r := &recorder{}

	walk := newHNode(hWalk, "walk")
	walkNormal := newHNode(hWalkNormal, "walk_normal")
	walkCrouch := newHNode(hWalkCrouch, "walk_crouch")
	must(t, walk.AddSubstate(hWalkNormal, walkNormal))
	must(t, walk.AddSubstate(hWalkCrouch, walkCrouch))

	must(t, walkNormal.AddTransition(htWalkCrouch, hWalkCrouch))
	must(t, walkNormal.AddEnterFrom(hWalkCrouch, r.hier("walk_normal.enter_from.walk_crouch"), false))
	must(t, walkNormal.AddExitTo(hWalkCrouch, r.hier("walk_normal.exit_to.walk_crouch"), false))
	must(t, walkCrouch.AddTransition(htWalkNormal, hWalkNormal))
	must(t, walkCrouch.AddEnterFrom(hWalkNormal, r.hier("walk_crouch.enter_from.walk_normal"), false))
	must(t, walkCrouch.AddExitTo(hWalkNormal, r.hier("walk_crouch.exit_to.walk_normal"), false))

	m := NewMachine[hTransition, hState, struct{}]()
	must(t, m.AddState(hWalk, walk))

	var none struct{}
	must(t, m.Update(none))
	must(t, m.Trigger(htWalkCrouch, none))
	expectCalls(t, r, "walk_normal.exit_to.walk_crouch", "walk_crouch.enter_from.walk_normal")
	must(t, m.Trigger(htWalkNormal, none))
	expectCalls(t, r, "walk_crouch.exit_to.walk_normal", "walk_normal.enter_from.walk_crouch")
}

// 孙状态处理的内部转换：run { run_sub { run_sub_sub }, jump }
// 目标的 enter_from 提示是同层被退出的 run_sub，而不是处理转换的 run_sub_sub
func TestHierarchy_InternalHintsFromGrandchild(t *testing.T) {
	r := &recorder{}

	run := newHNode(hRun, "run")
	runSub := newHNode(hRunSub, "run_sub")
	runSubSub := newHNode(hRunSubSub, "run_sub_sub")
	jump := newHNode(hJump, "jump")
	must(t, runSub.AddSubstate(hRunSubSub, runSubSub))
	must(t, run.AddSubstate(hRunSub, runSub))
	must(t, run.AddSubstate(hJump, jump))

	must(t, runSubSub.AddTransition(htJump, hJump))
	must(t, runSubSub.AddEvent(OnExit, r.hier("run_sub_sub.exit")))
	must(t, runSub.AddExitTo(hJump, r.hier("run_sub.exit_to.jump"), false))
	must(t, jump.AddEnterFrom(hRunSub, r.hier("jump.enter_from.run_sub"), false))
	must(t, jump.AddEnterFrom(hRunSubSub, r.hier("jump.enter_from.run_sub_sub"), false))
	must(t, run.AddEvent(OnExit, r.hier("run.exit")))

	m := NewMachine[hTransition, hState, struct{}]()
	must(t, m.AddState(hRun, run))
	must(t, m.AddState(hWalk, newHNode(hWalk, "walk")))
	must(t, m.AddState(hWalkNormal, newHNode(hWalkNormal, "walk_normal")))
	must(t, m.AddState(hWalkCrouch, newHNode(hWalkCrouch, "walk_crouch")))

	var none struct{}
	must(t, m.Update(none))
	r.take()

	must(t, m.Trigger(htJump, none))
	expectCalls(t, r, "run_sub_sub.exit", "run_sub.exit_to.jump", "jump.enter_from.run_sub")
}

func TestHierarchy_YieldResumesBranch(t *testing.T) {
	r := &recorder{}
	node := func(id hState, name string) *hNode {
		n := newHNode(id, name)
		must(t, n.AddEvent(OnEnter, r.hier(name+".enter")))
		must(t, n.AddEvent(OnExit, r.hier(name+".exit")))
		return n
	}

	walk := node(hWalk, "walk")
	walkNormal := node(hWalkNormal, "walk_normal")
	walkCrouch := node(hWalkCrouch, "walk_crouch")
	must(t, walk.AddSubstate(hWalkNormal, walkNormal))
	must(t, walk.AddSubstate(hWalkCrouch, walkCrouch))
	must(t, walk.AddTransition(htJump, hJump))
	must(t, walkNormal.AddTransition(htWalkCrouch, hWalkCrouch))

	jump := node(hJump, "jump")
	must(t, jump.AddYieldTransition(htWalk))

	m := NewMachine[hTransition, hState, struct{}]()
	must(t, m.AddState(hWalk, walk))
	must(t, m.AddState(hJump, jump))

	var none struct{}
	must(t, m.Update(none))
	must(t, m.Trigger(htWalkCrouch, none))
	must(t, m.Trigger(htJump, none))
	expectCalls(t, r,
		"walk.enter", "walk_normal.enter",
		"walk_normal.exit", "walk_crouch.enter",
		"walk_crouch.exit", "walk.exit", "jump.enter")

	must(t, m.Trigger(htWalk, none))
	expectCalls(t, r, "jump.exit", "walk.enter", "walk_crouch.enter")
}

func TestHierarchy_ParentUpdate(t *testing.T) {
	r := &recorder{}
	node := func(id hState, name string) *hNode {
		n := newHNode(id, name)
		must(t, n.AddEvent(OnUpdate, r.hier(name+".update")))
		return n
	}

	walk := node(hWalk, "walk")
	walkNormal := node(hWalkNormal, "walk_normal")
	walkCrouch := node(hWalkCrouch, "walk_crouch")
	walkNormal.EnableParentUpdate()
	must(t, walk.AddSubstate(hWalkNormal, walkNormal))
	must(t, walk.AddSubstate(hWalkCrouch, walkCrouch))
	must(t, walkNormal.AddTransition(htWalkCrouch, hWalkCrouch))
	must(t, walkCrouch.AddTransition(htRun, hRun))

	run := node(hRun, "run")
	runSub := node(hRunSub, "run_sub")
	runSubSub := node(hRunSubSub, "run_sub_sub")
	runSubSub.EnableParentUpdate()
	must(t, runSub.AddSubstate(hRunSubSub, runSubSub))
	must(t, run.AddSubstate(hRunSub, runSub))

	if !walkNormal.ParentUpdateEnabled() || walkCrouch.ParentUpdateEnabled() {
		t.Fatal("父状态更新标志错误")
	}

	m := NewMachine[hTransition, hState, struct{}]()
	must(t, m.AddState(hWalk, walk))
	must(t, m.AddState(hRun, run))

	var none struct{}
	must(t, m.Update(none))
	expectCalls(t, r, "walk.update", "walk_normal.update")

	must(t, m.Trigger(htWalkCrouch, none))
	must(t, m.Update(none))
	expectCalls(t, r, "walk_crouch.update")

	// 父状态未启用时停止向上收集
	must(t, m.Trigger(htRun, none))
	must(t, m.Update(none))
	expectCalls(t, r, "run_sub.update", "run_sub_sub.update")
}

func TestHierarchy_ParentAutoGuard(t *testing.T) {
	r := &recorder{}

	walk := newHNode(hWalk, "walk")
	must(t, walk.AddEvent(OnUpdate, r.hier("walk.update")))
	must(t, walk.AddEvent(OnExit, r.hier("walk.exit")))
	must(t, walk.AddTransition(htJump, hJump))
	must(t, walk.AddAutoTransitionGuard(htJump, func(struct{}) bool { return true }))

	walkNormal := newHNode(hWalkNormal, "walk_normal")
	must(t, walkNormal.AddEvent(OnUpdate, r.hier("walk_normal.update")))
	must(t, walkNormal.AddEvent(OnExit, r.hier("walk_normal.exit")))
	walkNormal.EnableParentUpdate()
	must(t, walk.AddSubstate(hWalkNormal, walkNormal))

	jump := newHNode(hJump, "jump")
	must(t, jump.AddEvent(OnEnter, r.hier("jump.enter")))

	m := NewMachine[hTransition, hState, struct{}]()
	must(t, m.AddState(hWalk, walk))
	must(t, m.AddState(hJump, jump))

	must(t, m.Update(struct{}{}))
	expectCalls(t, r, "walk_normal.exit", "walk.exit", "jump.enter")
}

func TestHierarchy_SupersededEntersAreNotExited(t *testing.T) {
	r := &recorder{}

	walk := newHNode(hWalk, "walk")
	must(t, walk.AddEvent(OnExit, r.hier("walk.exit")))
	must(t, walk.AddTransition(htRun, hRun))

	run := newHNode(hRun, "run")
	runSub := newHNode(hRunSub, "run_sub")
	runSubSub := newHNode(hRunSubSub, "run_sub_sub")
	for _, n := range []*hNode{runSub, runSubSub} {
		must(t, n.AddEvent(OnEnter, r.hier(n.Name()+".enter")))
		must(t, n.AddEvent(OnExit, r.hier(n.Name()+".exit")))
	}
	must(t, runSub.AddSubstate(hRunSubSub, runSubSub))
	must(t, run.AddSubstate(hRunSub, runSub))
	must(t, run.AddEvent(OnEnter, func(m *hMachine, args struct{}) error {
		r.calls = append(r.calls, "run.enter")
		return m.Trigger(htJump, args)
	}))
	must(t, run.AddEvent(OnExit, r.hier("run.exit")))
	must(t, run.AddTransition(htJump, hJump))

	jump := newHNode(hJump, "jump")
	must(t, jump.AddEvent(OnEnter, r.hier("jump.enter")))

	m := NewMachine[hTransition, hState, struct{}]()
	must(t, m.AddState(hWalk, walk))
	must(t, m.AddState(hRun, run))
	must(t, m.AddState(hJump, jump))

	must(t, m.Update(struct{}{}))
	must(t, m.Trigger(htRun, struct{}{}))
	expectCalls(t, r, "walk.exit", "run.enter", "run.exit", "jump.enter")
}
