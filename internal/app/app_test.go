package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/depthview/internal/asset"
	"github.com/Faultbox/depthview/internal/config"
	"github.com/Faultbox/depthview/internal/engine/input"
	"github.com/Faultbox/depthview/internal/engine/lighting"
	"github.com/Faultbox/depthview/internal/engine/scene"
	"github.com/Faultbox/depthview/internal/viewer"
)

type countingShots struct{ n int }

func (c *countingShots) Request() { c.n++ }

func TestBindKeysDrivesModes(t *testing.T) {
	geom := &scene.Geometry{Positions: make([]float32, 9), Indices: []uint32{0, 1, 2}}
	sm := scene.NewSubmesh("Body", geom, scene.NewFlatMaterial("Wood", scene.White))
	submeshes := []*scene.Submesh{sm}
	modes := viewer.NewModeController(submeshes, viewer.NewBindingTable(submeshes))

	r := input.NewRouter()
	shots := &countingShots{}
	bindKeys(r, modes, shots)

	r.Handle(input.Event{Type: input.EventKeyDown, Key: keyDepth})
	assert.Equal(t, viewer.ModeDepth, modes.Mode())
	assert.True(t, modes.DepthActive())

	r.Handle(input.Event{Type: input.EventKeyDown, Key: keyWireframe})
	assert.Equal(t, viewer.ModeWireframe, modes.Mode())
	assert.True(t, sm.MaterialFor(0).Params().Wireframe)

	before := modes.WireframeColor()
	r.Handle(input.Event{Type: input.EventKeyDown, Key: keyCycleColor})
	assert.NotEqual(t, before, modes.WireframeColor())

	r.Handle(input.Event{Type: input.EventKeyDown, Key: keyLit})
	assert.Equal(t, "Wood", sm.MaterialFor(0).Name())

	r.Handle(input.Event{Type: input.EventKeyDown, Key: keyScreenshot})
	assert.Equal(t, 1, shots.n)
}

func TestNewSceneBackground(t *testing.T) {
	s, err := newScene(config.RenderConfig{Background: "#102030", Lights: lighting.DefaultRig()})
	require.NoError(t, err)
	assert.True(t, s.HasBackground)
	assert.Equal(t, "#102030", s.Background.String())
	assert.Len(t, s.Lights, 2)

	_, err = newScene(config.RenderConfig{Background: "teal"})
	assert.Error(t, err)

	s, err = newScene(config.RenderConfig{})
	require.NoError(t, err)
	assert.False(t, s.HasBackground)
}

func TestLoadingTitle(t *testing.T) {
	assert.Equal(t, "depthview - loading geometry 50%",
		loadingTitle("depthview", asset.Progress{Stage: asset.StageGeometry, Loaded: 5, Total: 10}))
	assert.Equal(t, "depthview - loading materials (42 bytes)",
		loadingTitle("depthview", asset.Progress{Stage: asset.StageMaterials, Loaded: 42, Total: -1}))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())
}
