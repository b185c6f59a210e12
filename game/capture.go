package game

import (
	"github.com/pthm-cable/portals/portal"
)

// memTarget is a headless capture target. It only remembers its size.
type memTarget struct {
	w, h int
}

func (t *memTarget) Size() (int, int) { return t.w, t.h }

// memCapturer stands in for the renderer in headless runs and counts what
// it is asked to do.
type memCapturer struct {
	live     int
	captures int
}

func (c *memCapturer) CreateTarget(w, h int) portal.Target {
	c.live++
	return &memTarget{w: w, h: h}
}

func (c *memCapturer) ReleaseTarget(portal.Target) {
	c.live--
}

func (c *memCapturer) Capture(portal.Target, portal.CaptureView) {
	c.captures++
}
