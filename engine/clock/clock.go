// Package clock provides animation clocks backed by GLFW's monotonic timer.
package clock

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwClock maps GLFW seconds onto wall-clock time anchored at creation.
type glfwClock struct {
	mu      sync.Mutex
	seconds func() float64
	anchor  time.Time
	start   float64
	last    time.Time
}

var _ animation.Clock = &glfwClock{}

// Init initializes GLFW on the calling thread, which stays locked to it.
// Call it from the main goroutine before NewGLFWClock.
//
// GLFW reference: https://www.glfw.org/docs/latest/intro_guide.html#intro_init
//
// Returns:
//   - error: error if GLFW cannot be initialized
func Init() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %v", err)
	}
	return nil
}

// Terminate releases GLFW.
func Terminate() {
	glfw.Terminate()
}

// NewGLFWClock creates a clock reading glfw.GetTime. GLFW must be initialized.
//
// Returns:
//   - animation.Clock: the clock
func NewGLFWClock() animation.Clock {
	return newClock(glfw.GetTime)
}

func newClock(seconds func() float64) *glfwClock {
	c := &glfwClock{
		seconds: seconds,
		anchor:  time.Now(),
		start:   seconds(),
	}
	c.last = c.anchor
	return c
}

// Now never goes backwards, even if the timer is reset with glfw.SetTime.
func (c *glfwClock) Now() time.Time {
	elapsed := time.Duration((c.seconds() - c.start) * float64(time.Second))
	now := c.anchor.Add(elapsed)

	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Before(c.last) {
		now = c.last
	}
	c.last = now
	return now
}
