package viewer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/depthview/internal/engine/camera"
	"github.com/Faultbox/depthview/internal/engine/scene"
)

const refresh = 16 * time.Millisecond

type loopFixture struct {
	loop    *Loop
	refresh *fakeRefresh
	backend *fakeBackend
	modes   *ModeController
	log     []string
}

func newLoopFixture(t *testing.T) *loopFixture {
	t.Helper()
	model, modes, _ := loadAB(t)
	s := scene.New()
	s.Add(model)

	f := &loopFixture{
		refresh: &fakeRefresh{now: time.Unix(1000, 0)},
		backend: &fakeBackend{},
		modes:   modes,
	}
	display := &fakeDisplay{w: 640, h: 480, ratio: 1}
	f.loop = NewLoop(LoopConfig{
		Refresh: f.refresh,
		Backend: f.backend,
		Modes:   modes,
		Depth:   NewDepthPass(f.backend, display),
		Scene:   s,
		Camera:  camera.NewPerspective(60, 4.0/3.0, 0.1, 100),
	})
	return f
}

func TestLoopTicksBeforeDrawingInOrder(t *testing.T) {
	f := newLoopFixture(t)
	var order []string
	controls := &recordingUpdatable{name: "controls", log: &order}
	anim := &recordingUpdatable{name: "anim", log: &order}
	f.loop.RegisterUpdatable(controls)
	f.loop.RegisterUpdatable(anim)
	f.loop.OnFrame(func() { order = append(order, "frame") })

	f.loop.Start()
	f.refresh.fire(3, refresh)

	assert.Equal(t, []string{
		"tick:controls", "tick:anim", "frame",
		"tick:controls", "tick:anim", "frame",
		"tick:controls", "tick:anim", "frame",
	}, order)
	assert.Equal(t, []time.Duration{0, refresh, refresh}, controls.deltas, "first tick has zero delta")
	assert.Equal(t, uint64(3), f.loop.Frames())
}

func TestLoopSinglePassWhenDepthInactive(t *testing.T) {
	f := newLoopFixture(t)
	f.loop.Start()
	f.refresh.fire(2, refresh)

	assert.Equal(t, []string{
		"target:display", "render:scene",
		"target:display", "render:scene",
	}, f.backend.ops)
	assert.Empty(t, f.backend.allocated)
}

func TestLoopDualPassInDepthMode(t *testing.T) {
	f := newLoopFixture(t)
	require.NoError(t, f.modes.SetMode(ModeDepth))

	f.loop.Start()
	f.refresh.fire(1, refresh)

	assert.Equal(t, []string{"target:1", "render:scene", "target:display", "render:quad"}, f.backend.ops)

	require.NoError(t, f.modes.SetMode(ModeLit))
	f.backend.ops = nil
	f.refresh.fire(1, refresh)
	assert.Equal(t, []string{"target:display", "render:scene"}, f.backend.ops)
}

func TestLoopStopSilencesRefresh(t *testing.T) {
	f := newLoopFixture(t)
	var order []string
	u := &recordingUpdatable{name: "u", log: &order}
	f.loop.RegisterUpdatable(u)

	f.loop.Start()
	f.refresh.fire(2, refresh)
	callback := f.refresh.fn

	f.loop.Stop()
	f.loop.Stop()
	f.refresh.fire(50, refresh)
	// A callback captured before Stop must not tick either.
	callback(f.refresh.now.Add(refresh))

	assert.Len(t, u.deltas, 2)
	assert.False(t, f.loop.Running())
}

func TestLoopStartIsReentrant(t *testing.T) {
	f := newLoopFixture(t)
	f.loop.Start()
	f.loop.Start()
	assert.Equal(t, 1, f.refresh.installs)

	f.refresh.fire(1, refresh)
	assert.Equal(t, uint64(1), f.loop.Frames(), "no duplicated frame per refresh")
}

func TestLoopRestartResetsDelta(t *testing.T) {
	f := newLoopFixture(t)
	var order []string
	u := &recordingUpdatable{name: "u", log: &order}
	f.loop.RegisterUpdatable(u)

	f.loop.Start()
	f.refresh.fire(1, refresh)
	f.loop.Stop()
	f.refresh.now = f.refresh.now.Add(time.Minute)
	f.loop.Start()
	f.refresh.fire(1, refresh)

	assert.Equal(t, []time.Duration{0, 0}, u.deltas)
}

func TestLoopSkipsWithoutScene(t *testing.T) {
	f := newLoopFixture(t)
	var order []string
	u := &recordingUpdatable{name: "u", log: &order}
	f.loop.RegisterUpdatable(u)
	f.loop.SetScene(nil)

	f.loop.Start()
	f.refresh.fire(3, refresh)
	assert.Empty(t, u.deltas)
	assert.Empty(t, f.backend.ops)

	f.loop.SetScene(scene.New())
	f.refresh.fire(1, refresh)
	assert.Equal(t, []time.Duration{refresh}, u.deltas)
}

func TestLoopUpdatableFunc(t *testing.T) {
	f := newLoopFixture(t)
	var total time.Duration
	f.loop.RegisterUpdatable(UpdatableFunc(func(d time.Duration) { total += d }))

	f.loop.Start()
	f.refresh.fire(4, refresh)
	assert.Equal(t, 3*refresh, total)
}
