package hfsm

import (
	"bytes"
	"strings"
	"testing"
)

func TestWritePlantUML_Hierarchy(t *testing.T) {
	m := buildHierarchy(t, &recorder{})

	var buf bytes.Buffer
	must(t, m.WritePlantUML(&buf))
	out := buf.String()

	for _, want := range []string{
		"@startuml hfsm\n",
		"state walk {\n",
		"  [*] --> walk_normal\n",
		"  state walk_crouch\n",
		"    state run_sub_sub\n",
		"[*] --> walk\n",
		"walk_normal --> walk_crouch : do_walk_crouch\n",
		"run_sub_sub --> run_sub : do_run\n",
		"jump --> walk_crouch : do_walk\n",
		"@enduml\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("输出缺少 %q:\n%s", want, out)
		}
	}
}

func TestWritePlantUML_Rules(t *testing.T) {
	walk := newFlatNode(sWalk, "walk")
	must(t, walk.AddTransition(tRun, sRun))
	must(t, walk.AddAutoTransitionGuard(tRun, func(struct{}) bool { return false }))
	run := newFlatNode(sRun, "run")
	must(t, run.AddGuardTransition(tJump, sJump, func(struct{}) bool { return true }))
	run.EnableParentUpdate()
	jump := newFlatNode(sJump, "jump")
	must(t, jump.AddYieldTransition(tYield))

	m := newFlatMachine(WithName("player.move"))
	must(t, m.AddState(sWalk, walk))
	must(t, m.AddState(sRun, run))
	must(t, m.AddState(sJump, jump))

	var buf bytes.Buffer
	must(t, m.WritePlantUML(&buf))
	out := buf.String()

	for _, want := range []string{
		"@startuml player_move\n",
		"walk --> run : do_run [auto]\n",
		"run --> jump : do_jump [guard 1]\n",
		"jump --> [H] : yield\n",
		"state run : parent update\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("输出缺少 %q:\n%s", want, out)
		}
	}
}

func TestWritePlantUML_Parallel(t *testing.T) {
	m, _ := buildParallel(t)

	var buf bytes.Buffer
	must(t, m.WritePlantUML(&buf))
	out := buf.String()

	for _, want := range []string{
		"state movement {\n",
		"  state walk\n",
		"  --\n",
		"  state head_idle\n",
		"  [*] --> head_idle\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("输出缺少 %q:\n%s", want, out)
		}
	}
}
