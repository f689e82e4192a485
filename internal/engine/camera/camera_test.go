package camera

import (
	"testing"

	"github.com/Faultbox/stylistic-fog/pkg/math"
)

func TestCameraToWorldRecoversPosition(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 5, Y: 1, Z: -3}
	c.RotationY = 0.7

	m := c.CameraToWorld()
	origin := math.Vec3{X: m[12], Y: m[13], Z: m[14]}
	if d := origin.Sub(c.Position()).Length(); d > 1e-3 {
		t.Errorf("camera origin in world = %v, want %v", origin, c.Position())
	}

	// View space looks down -Z, so the third column points back from the center.
	back := math.Vec3{X: m[8], Y: m[9], Z: m[10]}
	ahead := origin.Add(back.Scale(-c.Distance))
	if d := ahead.Sub(c.Center).Length(); d > 1e-3 {
		t.Errorf("point ahead = %v, want center %v", ahead, c.Center)
	}

	id := m.Mul(c.ViewMatrix())
	for i, want := range math.Identity() {
		if d := id[i] - want; d > 1e-4 || d < -1e-4 {
			t.Fatalf("CameraToWorld * View [%d] = %f, want %f", i, id[i], want)
		}
	}
}

func TestSetViewport(t *testing.T) {
	c := NewOrbitCamera()
	c.SetViewport(800, 400)
	if c.Aspect != 2 {
		t.Errorf("aspect = %v, want 2", c.Aspect)
	}
	c.SetViewport(0, 400)
	if c.Aspect != 2 {
		t.Errorf("zero width changed aspect to %v", c.Aspect)
	}
}

func TestProjectionMatchesFields(t *testing.T) {
	c := NewOrbitCamera()
	c.SetViewport(1000, 500)
	if got, want := c.Projection(), math.Perspective(c.FOV, 2, c.Near, c.Far); got != want {
		t.Errorf("Projection() = %v, want %v", got, want)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewOrbitCamera()
	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("distance = %v, want min %v", c.Distance, c.MinDistance)
	}
	for i := 0; i < 200; i++ {
		c.HandleZoom(-1)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("distance = %v, want max %v", c.Distance, c.MaxDistance)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 10000)
	if c.RotationX != c.MaxPitch {
		t.Errorf("pitch = %v, want %v", c.RotationX, c.MaxPitch)
	}
	c.HandleDrag(0, -10000)
	if c.RotationX != c.MinPitch {
		t.Errorf("pitch = %v, want %v", c.RotationX, c.MinPitch)
	}
}
