package engine

import (
	"context"
	"log"
	"math"
	"sync/atomic"
	"time"

	"nocturne/camera"
	"nocturne/nav"
	"nocturne/scene"
	"nocturne/services"
	"nocturne/types"
	"nocturne/websocket"
)

// Frame cadence of the simulation loop
const (
	frameInterval = 33 * time.Millisecond
	maxFrameDt    = 0.25
)

// Engine owns the simulation: camera, navigation, pointer input and scene
// rebuilds all run on its single loop goroutine, so none of them need
// locking. Everything outside the loop talks to it through the input
// channel, the scan service's snapshot handoff, or the reactivity atomic.
type Engine struct {
	rig       *camera.Rig
	navigator *nav.Navigator
	assembler *scene.Assembler
	scans     services.ScanService
	player    services.Player
	hub       websocket.Hub

	inputs  chan types.InputMessage
	gesture nav.Gesture

	elapsed    float64
	width      int
	height     int
	reactivity atomic.Uint64
	sceneRef   atomic.Pointer[scene.Scene]
}

// New creates an engine. hub may be nil when running headless.
func New(rig *camera.Rig, navigator *nav.Navigator, scans services.ScanService, player services.Player, hub websocket.Hub) *Engine {
	return &Engine{
		rig:       rig,
		navigator: navigator,
		assembler: scene.NewAssembler(),
		scans:     scans,
		player:    player,
		hub:       hub,
		inputs:    make(chan types.InputMessage, 256),
		width:     1280,
		height:    720,
	}
}

// Inputs is the sink for decoded pointer events from renderer clients
func (e *Engine) Inputs() chan<- types.InputMessage {
	return e.inputs
}

// SetReactivity sets the audio reactivity scalar sampled into each frame
func (e *Engine) SetReactivity(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	e.reactivity.Store(math.Float64bits(clamp01(v)))
}

// Run drives the frame loop until ctx is cancelled
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Printf("Engine loop stopped: %v", ctx.Err())
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > maxFrameDt {
				dt = maxFrameDt
			}
			e.Step(dt)
		}
	}
}

// Step advances the simulation by dt seconds: drain input, apply any
// pending library snapshot, move the camera, auto-advance playback, then
// publish the frame.
func (e *Engine) Step(dt float64) {
	e.drainInputs()

	if lib, ok := e.scans.TakeSnapshot(); ok {
		e.rebuild(lib)
	}

	e.elapsed += dt
	e.rig.Update(dt)
	e.navigator.AutoAdvance(e.elapsed)

	if e.hub != nil {
		e.hub.BroadcastFrame(types.FrameMessage{
			Elapsed:    e.elapsed,
			Camera:     e.rig.State(),
			Selection:  e.navigator.Selection(),
			Playback:   e.player.State(),
			Reactivity: math.Float64frombits(e.reactivity.Load()),
		})
	}
}

// Elapsed returns the simulation clock in seconds
func (e *Engine) Elapsed() float64 {
	return e.elapsed
}

// CurrentScene returns the most recently assembled scene, or nil before
// the first library snapshot lands. Callers on other goroutines must
// treat it as read-only.
func (e *Engine) CurrentScene() *scene.Scene {
	return e.sceneRef.Load()
}

// rebuild assembles a new scene from a library snapshot and pushes it to
// connected renderers
func (e *Engine) rebuild(lib types.Library) {
	s := e.assembler.Build(lib)
	e.navigator.SetScene(s)
	e.sceneRef.Store(s)

	if e.hub != nil {
		e.hub.BroadcastScene(types.SceneMessage{
			Stars:          s.Stars,
			BoundingRadius: s.BoundingRadius,
			TotalAlbums:    s.TotalAlbums,
			TotalTracks:    s.TotalTracks,
		})
	}
}

// drainInputs applies every queued pointer event without blocking
func (e *Engine) drainInputs() {
	for {
		select {
		case msg := <-e.inputs:
			e.handleInput(msg)
		default:
			return
		}
	}
}

// handleInput applies one pointer event
func (e *Engine) handleInput(msg types.InputMessage) {
	if msg.Width > 0 && msg.Height > 0 {
		e.width = msg.Width
		e.height = msg.Height
		e.rig.SetAspect(msg.Width, msg.Height)
	}

	switch msg.Kind {
	case "down":
		e.gesture.Down()

	case "move":
		if !e.gesture.Active() {
			return
		}
		e.gesture.Move(msg.DX, msg.DY)
		// Below the click threshold the pointer may still be a click in
		// progress; the camera only follows once it is a real drag.
		if !e.gesture.Dragging() {
			return
		}
		e.rig.AutoRotate = false
		e.rig.OnDrag(msg.DX, msg.DY)

	case "up":
		if !e.gesture.Up() {
			return
		}
		ht := nav.NewHitTester(e.rig.ViewMatrix(), e.rig.ProjMatrix(), e.width, e.height)
		e.navigator.HandlePick(ht, msg.X, msg.Y, e.elapsed)

	case "scroll":
		e.rig.OnScroll(msg.Delta)

	case "reactivity":
		e.SetReactivity(msg.Delta)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
