package viewer

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestFillPreset(t *testing.T) {
	tests := []struct {
		key  sdl.Scancode
		want float32
		ok   bool
	}{
		{sdl.SCANCODE_1, 0.1, true},
		{sdl.SCANCODE_5, 0.5, true},
		{sdl.SCANCODE_9, 0.9, true},
		{sdl.SCANCODE_0, 1, true},
		{sdl.SCANCODE_N, 0, false},
	}
	for _, tt := range tests {
		got, ok := FillPreset(tt.key)
		if ok != tt.ok || (ok && (got < tt.want-1e-6 || got > tt.want+1e-6)) {
			t.Errorf("FillPreset(%d) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}
