package anim

import (
	"errors"
	"testing"
)

type testMachine struct {
	m                *Machine
	skel             *Skeleton
	idle, run, jump  StateID
	idleClip, jumpCl *Clip
}

// newTestMachine builds idle/run/jump with guards idle->run (run), run->idle (stop),
// idle->jump and run->jump (jump), jump->idle (land).
func newTestMachine(t *testing.T) testMachine {
	t.Helper()
	skel := testSkeleton(t)
	idleClip := mustRetarget(t, linearClip("idle", 1, 0, true), skel)
	runClip := mustRetarget(t, linearClip("run", 1, 10, true), skel)
	jumpClip := mustRetarget(t, linearClip("jump", 1, 5, false), skel)

	b := NewMachineBuilder(skel)
	idle := b.AddState("idle", idleClip)
	run := b.AddState("run", runClip)
	jump := b.AddState("jump", jumpClip)
	b.AddTransition(Transition{Name: "idle->run", From: idle, To: run, Duration: 0.1, Param: "run", Priority: 2})
	b.AddTransition(Transition{Name: "idle->jump", From: idle, To: jump, Duration: 0.25, Param: "jump", Priority: 1})
	b.AddTransition(Transition{Name: "run->idle", From: run, To: idle, Duration: 0.5, Param: "stop"})
	b.AddTransition(Transition{Name: "run->jump", From: run, To: jump, Duration: 0.25, Param: "jump"})
	b.AddTransition(Transition{Name: "jump->idle", From: jump, To: idle, Duration: 0.5, Param: "land"})

	m, err := b.Build(idle)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return testMachine{m: m, skel: skel, idle: idle, run: run, jump: jump, idleClip: idleClip, jumpCl: jumpClip}
}

func TestMachine_EntryStateBeforeTick(t *testing.T) {
	tm := newTestMachine(t)
	if tm.m.ActiveState() != tm.idle {
		t.Errorf("ActiveState() = %d, want entry %d", tm.m.ActiveState(), tm.idle)
	}
	if tm.m.EntryState() != tm.idle {
		t.Errorf("EntryState() = %d, want %d", tm.m.EntryState(), tm.idle)
	}
}

func TestMachine_UnsetParameterIsFalse(t *testing.T) {
	tm := newTestMachine(t)
	if tm.m.Parameter("never-set") {
		t.Error("unset parameter should read false")
	}
	for i := 0; i < 10; i++ {
		tm.m.Evaluate(1.0 / 60)
	}
	if tm.m.ActiveState() != tm.idle {
		t.Errorf("with no parameters set the machine should stay in idle, got %s", tm.m.ActiveStateName())
	}
}

func TestMachine_TransitionBlendsAndCompletes(t *testing.T) {
	tm := newTestMachine(t)
	tm.m.SetParameter("run", true)

	p := tm.m.Evaluate(0.05)
	tr, ok := tm.m.ActiveTransition()
	if !ok || tr.Name != "idle->run" {
		t.Fatalf("expected idle->run to start, got %+v ok=%v", tr, ok)
	}
	if len(p.Contributions) != 2 {
		t.Fatalf("blending pose should have 2 contributions, got %d", len(p.Contributions))
	}
	if c, _ := p.Contribution("run"); c.Weight != 0 {
		t.Errorf("destination weight on first tick = %v, want 0", c.Weight)
	}

	tm.m.Evaluate(0.05)
	if f := tm.m.BlendFactor(); !approx(f, 0.5) {
		t.Errorf("BlendFactor() = %v, want 0.5", f)
	}
	if tm.m.ActiveState() != tm.idle {
		t.Error("active state should stay on source while blending")
	}

	tm.m.Evaluate(0.06)
	if tm.m.ActiveState() != tm.run {
		t.Errorf("ActiveState() = %s, want run", tm.m.ActiveStateName())
	}
	if _, ok := tm.m.ActiveTransition(); ok {
		t.Error("transition should be finished")
	}
}

func TestMachine_BlendedPoseIsInterpolated(t *testing.T) {
	tm := newTestMachine(t)
	tm.m.SetParameter("run", true)
	tm.m.Evaluate(0)    // start transition
	tm.m.Evaluate(0.05) // halfway through a 0.1s blend

	// Sample again at the current times without advancing
	p := tm.m.Evaluate(0)
	hips, _ := tm.skel.BoneIndex("hips")
	idleC, _ := p.Contribution("idle")
	runC, _ := p.Contribution("run")
	got, _ := p.Local(hips)

	idleX := float32(0)
	runX := runC.Time * 10
	want := idleX + (runX-idleX)*runC.Weight
	if !approx(got.Position.X, want) {
		t.Errorf("blended hips.X = %v, want %v (weights idle=%v run=%v)", got.Position.X, want, idleC.Weight, runC.Weight)
	}
}

func TestMachine_PriorityOrder(t *testing.T) {
	tm := newTestMachine(t)
	// Both idle->run (priority 2) and idle->jump (priority 1) are eligible
	tm.m.SetParameter("run", true).SetParameter("jump", true)
	tm.m.Evaluate(0)

	tr, ok := tm.m.ActiveTransition()
	if !ok || tr.Name != "idle->jump" {
		t.Errorf("expected idle->jump to win on priority, got %+v", tr)
	}

	out := tm.m.Transitions(tm.idle)
	if len(out) != 2 || out[0].Name != "idle->jump" || out[1].Name != "idle->run" {
		t.Errorf("Transitions(idle) not in priority order: %+v", out)
	}
}

func TestMachine_RegistrationOrderBreaksTies(t *testing.T) {
	tm := newTestMachine(t)
	tm.m.SetParameter("run", true)
	for i := 0; i < 20; i++ {
		tm.m.Evaluate(0.1)
	}
	if tm.m.ActiveState() != tm.run {
		t.Fatalf("expected run, got %s", tm.m.ActiveStateName())
	}

	// run->idle and run->jump share priority 0; run->idle was registered first
	tm.m.SetParameter("stop", true).SetParameter("jump", true)
	tm.m.Evaluate(0)
	tr, _ := tm.m.ActiveTransition()
	if tr.Name != "run->idle" {
		t.Errorf("expected run->idle by registration order, got %q", tr.Name)
	}
}

func TestMachine_ActiveStateAlwaysDeclared(t *testing.T) {
	tm := newTestMachine(t)
	params := []string{"run", "stop", "jump", "land"}
	for i := 0; i < 500; i++ {
		// Deterministic pseudo-random parameter churn
		for j, p := range params {
			tm.m.SetParameter(p, (i*7+j*3)%5 < 2)
		}
		tm.m.Evaluate(float32(i%4) * 0.03)
		s := tm.m.ActiveState()
		if s < 0 || int(s) >= tm.m.StateCount() {
			t.Fatalf("tick %d: active state %d out of range", i, s)
		}
	}
}

func TestMachine_EvaluateZeroIsIdempotent(t *testing.T) {
	tm := newTestMachine(t)
	tm.m.Evaluate(0.3)
	tm.m.SetParameter("run", true)

	first := tm.m.Evaluate(0).Clone()
	second := tm.m.Evaluate(0).Clone()
	if !first.Equal(second) {
		t.Errorf("Evaluate(0) twice produced different poses:\n%+v\n%+v", first.Locals, second.Locals)
	}
}

func TestMachine_RewoundClipSamplesAtZero(t *testing.T) {
	tm := newTestMachine(t)
	tm.jumpCl.SetTime(0.7)

	tm.jumpCl.Rewind()
	tm.m.SetParameter("jump", true)
	p := tm.m.Evaluate(1.0 / 60)

	c, ok := p.Contribution("jump")
	if !ok {
		t.Fatal("jump clip was not sampled")
	}
	if c.Time != 0 {
		t.Errorf("jump clip sampled at %v, want 0", c.Time)
	}
}

func TestMachine_Apply(t *testing.T) {
	tm := newTestMachine(t)
	if err := tm.idleClip.SetTrackEnabled("spine", false); err != nil {
		t.Fatal(err)
	}
	spine, _ := tm.skel.BoneIndex("spine")
	marker := IdentityTransform()
	marker.Position.Z = 42
	tm.skel.SetLocal(spine, marker)

	tm.m.Apply(tm.m.Evaluate(0))

	if tm.skel.Local(spine).Position.Z != 42 {
		t.Error("disabled track overwrote the bone")
	}
	hips, _ := tm.skel.BoneIndex("hips")
	if tm.skel.Local(hips).Position.Y != 0 || tm.skel.Local(hips).Rotation.W != 1 {
		t.Errorf("hips not applied: %+v", tm.skel.Local(hips))
	}
}

func TestMachine_Reset(t *testing.T) {
	tm := newTestMachine(t)
	tm.m.SetParameter("jump", true)
	for i := 0; i < 30; i++ {
		tm.m.Evaluate(0.1)
	}
	tm.m.Reset()
	if tm.m.ActiveState() != tm.idle || tm.m.Parameter("jump") || tm.jumpCl.Time() != 0 {
		t.Error("Reset did not restore entry state, parameters and clips")
	}
}

func TestMachineBuilder_Errors(t *testing.T) {
	skel := testSkeleton(t)
	other := testSkeleton(t)
	clip := mustRetarget(t, linearClip("idle", 1, 0, true), skel)
	foreign := mustRetarget(t, linearClip("run", 1, 0, true), other)

	t.Run("no states", func(t *testing.T) {
		if _, err := NewMachineBuilder(skel).Build(0); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("bad transition", func(t *testing.T) {
		b := NewMachineBuilder(skel)
		s := b.AddState("idle", clip)
		b.AddTransition(Transition{Name: "x", From: s, To: 7, Param: "p"})
		b.AddTransition(Transition{Name: "y", From: s, To: s, Duration: -1})
		if _, err := b.Build(s); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("skeleton mismatch", func(t *testing.T) {
		b := NewMachineBuilder(skel)
		s := b.AddState("run", foreign)
		_, err := b.Build(s)
		if !errors.Is(err, ErrSkeletonMismatch) {
			t.Errorf("error = %v, want ErrSkeletonMismatch", err)
		}
	})
	t.Run("single state", func(t *testing.T) {
		b := NewMachineBuilder(skel)
		walk := b.AddState("walk", clip)
		m, err := b.Build(walk)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		m.SetParameter("anything", true)
		m.Evaluate(0.5)
		if m.ActiveStateName() != "walk" {
			t.Errorf("ActiveStateName() = %q, want walk", m.ActiveStateName())
		}
	})
}
