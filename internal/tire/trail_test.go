package tire

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestTrailEvictsOldestFirst(t *testing.T) {
	tr := NewTrail(4)
	for i := 0; i < 6; i++ {
		tr.Record(rl.Vector3{X: float32(i)}, 1)
	}

	if tr.Len() != 4 {
		t.Fatalf("Expected length 4, got %d", tr.Len())
	}
	pts := tr.Points()
	for i, p := range pts {
		want := float32(i + 2)
		if p.Position.X != want {
			t.Errorf("point %d: expected x=%v, got %v", i, want, p.Position.X)
		}
	}
}

func TestTrailDefaultsAndClear(t *testing.T) {
	tr := NewTrail(0)
	if tr.Capacity() != DefaultTrailCapacity {
		t.Errorf("Expected capacity %d, got %d", DefaultTrailCapacity, tr.Capacity())
	}
	for i := 0; i < 100; i++ {
		tr.Record(rl.Vector3{}, 0)
	}
	if tr.Len() != DefaultTrailCapacity {
		t.Errorf("trail should cap at %d, got %d", DefaultTrailCapacity, tr.Len())
	}
	tr.Clear()
	if tr.Len() != 0 || len(tr.Points()) != 0 {
		t.Error("Clear should empty the trail")
	}
	tr.Record(rl.Vector3{X: 7}, 0)
	if tr.Points()[0].Position.X != 7 {
		t.Error("trail should work after Clear")
	}
}

func TestSpeedColorRamp(t *testing.T) {
	slow := SpeedColor(0)
	fast := SpeedColor(TrailHotSpeed)
	beyond := SpeedColor(TrailHotSpeed * 3)

	if slow.B <= slow.R {
		t.Errorf("slow trail should be cool, got %v", slow)
	}
	if fast.R <= fast.B {
		t.Errorf("fast trail should be hot, got %v", fast)
	}
	if beyond != fast {
		t.Errorf("speed beyond the hot point should clamp, got %v vs %v", beyond, fast)
	}
	if slow.A != 255 {
		t.Error("trail colors should be opaque")
	}
}
