package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nocturne/camera"
	"nocturne/nav"
	"nocturne/services"
	"nocturne/types"
	"nocturne/websocket"
)

// stubScans implements services.ScanService around a single settable
// snapshot
type stubScans struct {
	mu      sync.Mutex
	lib     types.Library
	pending bool
}

func (s *stubScans) publish(lib types.Library) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lib = lib
	s.pending = true
}

func (s *stubScans) Start()                               {}
func (s *stubScans) QueueScan(root string) *types.ScanJob { return &types.ScanJob{Root: root} }
func (s *stubScans) GetJob(string) (*types.ScanJob, bool) { return nil, false }
func (s *stubScans) GetAllJobs() []*types.ScanJob         { return nil }
func (s *stubScans) Scanning() bool                       { return false }
func (s *stubScans) Progress() (int, int)                 { return 0, 0 }

func (s *stubScans) TakeSnapshot() (types.Library, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending {
		return types.Library{}, false
	}
	s.pending = false
	return s.lib, true
}

// frameHub records broadcasts instead of pushing them to clients
type frameHub struct {
	mu     sync.Mutex
	scenes []types.SceneMessage
	frames []types.FrameMessage
}

func (h *frameHub) Run() {}
func (h *frameHub) BroadcastScene(msg types.SceneMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scenes = append(h.scenes, msg)
}
func (h *frameHub) BroadcastFrame(msg types.FrameMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, msg)
}
func (h *frameHub) BroadcastScanProgress(types.ScanProgressMessage) {}
func (h *frameHub) RegisterClient(*websocket.Client)                {}
func (h *frameHub) UnregisterClient(*websocket.Client)              {}

func newTestEngine(hub websocket.Hub) (*Engine, *stubScans, *camera.Rig) {
	rig := camera.NewRig()
	navigator := nav.NewNavigator(rig, services.NewSilentPlayer())
	scans := &stubScans{}
	eng := New(rig, navigator, scans, services.NewSilentPlayer(), hub)
	return eng, scans, rig
}

func engineLibrary() types.Library {
	return types.Library{
		Artists: []types.ArtistRecord{
			{
				Name:        "Boards of Canada",
				Genre:       "Electronic",
				TotalTracks: 1,
				Albums: []types.AlbumRecord{
					{
						Name: "Geogaddi",
						Year: 2002,
						Tracks: []types.TrackRecord{
							{Title: "Music Is Math", Path: "/m/mim.flac", TrackNumber: 2, DurationSeconds: 322},
						},
					},
				},
			},
		},
		TotalAlbums: 1,
		TotalTracks: 1,
	}
}

// TestStepAppliesSnapshot tests a published library becomes the current
// scene and is announced to renderers
func TestStepAppliesSnapshot(t *testing.T) {
	hub := &frameHub{}
	eng, scans, _ := newTestEngine(hub)

	assert.Nil(t, eng.CurrentScene())

	scans.publish(engineLibrary())
	eng.Step(0.033)

	s := eng.CurrentScene()
	require.NotNil(t, s)
	require.Len(t, s.Stars, 1)
	assert.Equal(t, "Boards of Canada", s.Stars[0].Name)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	require.Len(t, hub.scenes, 1)
	assert.Equal(t, 1, hub.scenes[0].TotalTracks)
	assert.Len(t, hub.frames, 1)
}

// TestStepAdvancesClock tests elapsed time accumulates per step
func TestStepAdvancesClock(t *testing.T) {
	eng, _, _ := newTestEngine(nil)

	eng.Step(0.033)
	eng.Step(0.033)

	assert.InDelta(t, 0.066, eng.Elapsed(), 1e-12)
}

// TestScrollInputChangesZoom tests a queued scroll event moves the
// camera's desired distance
func TestScrollInputChangesZoom(t *testing.T) {
	eng, _, rig := newTestEngine(nil)
	before := rig.DesiredDist

	eng.Inputs() <- types.InputMessage{Kind: "scroll", Delta: 1}
	eng.Step(0.033)

	assert.Less(t, rig.DesiredDist, before)
}

// TestDragDisablesAutoRotate tests that dragging past the click
// threshold stops the idle rotation
func TestDragDisablesAutoRotate(t *testing.T) {
	eng, _, rig := newTestEngine(nil)
	require.True(t, rig.AutoRotate)

	eng.Inputs() <- types.InputMessage{Kind: "down", X: 100, Y: 100}
	eng.Inputs() <- types.InputMessage{Kind: "move", DX: 20, DY: 0}
	eng.Step(0.033)

	assert.False(t, rig.AutoRotate)
}

// TestSmallMoveKeepsAutoRotate tests sub-threshold pointer wobble does
// not count as a drag
func TestSmallMoveKeepsAutoRotate(t *testing.T) {
	eng, _, rig := newTestEngine(nil)

	eng.Inputs() <- types.InputMessage{Kind: "down", X: 100, Y: 100}
	eng.Inputs() <- types.InputMessage{Kind: "move", DX: 2, DY: 1}
	eng.Step(0.033)

	assert.True(t, rig.AutoRotate)
}

// TestSubThresholdMoveLeavesCamera tests the wobble inside a click does
// not nudge the camera orbit either
func TestSubThresholdMoveLeavesCamera(t *testing.T) {
	eng, _, rig := newTestEngine(nil)
	rig.AutoRotate = false
	yaw, pitch := rig.Yaw, rig.Pitch

	eng.Inputs() <- types.InputMessage{Kind: "down", X: 100, Y: 100}
	eng.Inputs() <- types.InputMessage{Kind: "move", DX: 3, DY: 2}
	eng.Step(0.033)

	assert.Equal(t, yaw, rig.Yaw)
	assert.Equal(t, pitch, rig.Pitch)
}

// TestDragMovesCamera tests a real drag does orbit the camera
func TestDragMovesCamera(t *testing.T) {
	eng, _, rig := newTestEngine(nil)
	rig.AutoRotate = false
	yaw := rig.Yaw

	eng.Inputs() <- types.InputMessage{Kind: "down", X: 100, Y: 100}
	eng.Inputs() <- types.InputMessage{Kind: "move", DX: 20, DY: 0}
	eng.Step(0.033)

	assert.NotEqual(t, yaw, rig.Yaw)
}

// TestClickWithoutSceneIsHarmless tests a click lands safely before any
// library has been scanned
func TestClickWithoutSceneIsHarmless(t *testing.T) {
	eng, _, _ := newTestEngine(nil)

	eng.Inputs() <- types.InputMessage{Kind: "down", X: 640, Y: 360}
	eng.Inputs() <- types.InputMessage{Kind: "up", X: 640, Y: 360}

	assert.NotPanics(t, func() { eng.Step(0.033) })
	assert.Nil(t, eng.CurrentScene())
}

// TestViewportResizeUpdatesAspect tests width/height on an input event
// flows through to the projection
func TestViewportResizeUpdatesAspect(t *testing.T) {
	eng, _, rig := newTestEngine(nil)
	before := rig.Aspect

	eng.Inputs() <- types.InputMessage{Kind: "move", Width: 800, Height: 600}
	eng.Step(0.033)

	assert.NotEqual(t, before, rig.Aspect)
	assert.InDelta(t, 800.0/600.0, rig.Aspect, 1e-9)
}

// TestSetReactivity tests clamping and rejection of non-finite values
func TestSetReactivity(t *testing.T) {
	hub := &frameHub{}
	eng, _, _ := newTestEngine(hub)

	eng.SetReactivity(0.4)
	eng.Step(0.033)
	eng.SetReactivity(7)
	eng.Step(0.033)
	eng.SetReactivity(-3)
	eng.Step(0.033)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	require.Len(t, hub.frames, 3)
	assert.Equal(t, 0.4, hub.frames[0].Reactivity)
	assert.Equal(t, 1.0, hub.frames[1].Reactivity)
	assert.Equal(t, 0.0, hub.frames[2].Reactivity)
}

// TestReactivityInput tests the renderer can feed the reactivity scalar
// through the input channel
func TestReactivityInput(t *testing.T) {
	hub := &frameHub{}
	eng, _, _ := newTestEngine(hub)

	eng.Inputs() <- types.InputMessage{Kind: "reactivity", Delta: 0.7}
	eng.Step(0.033)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	require.Len(t, hub.frames, 1)
	assert.Equal(t, 0.7, hub.frames[0].Reactivity)
}

// TestSnapshotConsumedOnce tests the same snapshot does not rebuild the
// scene twice
func TestSnapshotConsumedOnce(t *testing.T) {
	hub := &frameHub{}
	eng, scans, _ := newTestEngine(hub)

	scans.publish(engineLibrary())
	eng.Step(0.033)
	eng.Step(0.033)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	assert.Len(t, hub.scenes, 1)
}
