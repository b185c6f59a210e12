package systems

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/surface"
)

func TestPlacePortal(t *testing.T) {
	extent := r2.Vec{X: 150, Y: 120}
	tests := []struct {
		name      string
		existing  []r2.Box
		center    r2.Vec
		half      r2.Vec
		wantErr   bool
		wantShift r2.Vec
	}{
		{
			name:   "fits as requested",
			center: r2.Vec{},
			half:   r2.Vec{X: 60, Y: 120},
		},
		{
			name:      "slides back inside",
			center:    r2.Vec{X: 120},
			half:      r2.Vec{X: 60, Y: 120},
			wantShift: r2.Vec{X: -30},
		},
		{
			name:      "pushed off a neighbour",
			existing:  []r2.Box{{Min: r2.Vec{X: -150, Y: -120}, Max: r2.Vec{X: -30, Y: 120}}},
			center:    r2.Vec{X: -40},
			half:      r2.Vec{X: 60, Y: 120},
			wantShift: r2.Vec{X: 70},
		},
		{
			name: "no room between neighbours",
			existing: []r2.Box{
				{Min: r2.Vec{X: -150, Y: -120}, Max: r2.Vec{X: -30, Y: 120}},
				{Min: r2.Vec{X: 30, Y: -120}, Max: r2.Vec{X: 150, Y: 120}},
			},
			center:  r2.Vec{},
			half:    r2.Vec{X: 60, Y: 120},
			wantErr: true,
		},
		{
			name:    "larger than the surface",
			center:  r2.Vec{},
			half:    r2.Vec{X: 200, Y: 60},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := surface.New("wall")
			for _, b := range tt.existing {
				s.AddRectangle(b.Min, b.Max, b.Center(), geom.Rotator{})
			}

			lo := r2.Sub(tt.center, tt.half)
			hi := r2.Add(tt.center, tt.half)
			got, err := PlacePortal(s, lo, hi, tt.center, geom.Rotator{}, r2.Vec{}, extent)

			if tt.wantErr {
				if !errors.Is(err, ErrPlacementRejected) {
					t.Fatalf("PlacePortal error = %v, want ErrPlacementRejected", err)
				}
				if s.Len() != len(tt.existing) {
					t.Errorf("surface holds %d rectangles, want %d", s.Len(), len(tt.existing))
				}
				return
			}
			if err != nil {
				t.Fatalf("PlacePortal error: %v", err)
			}
			if got.Displacement != tt.wantShift {
				t.Errorf("displacement = %v, want %v", got.Displacement, tt.wantShift)
			}
			if got.Center != r2.Add(tt.center, tt.wantShift) {
				t.Errorf("center = %v, want %v", got.Center, r2.Add(tt.center, tt.wantShift))
			}
			if s.Overlapping() {
				t.Error("surface has overlapping rectangles after placement")
			}
		})
	}
}

func TestPlacePortalNilSurface(t *testing.T) {
	_, err := PlacePortal(nil, r2.Vec{}, r2.Vec{X: 1, Y: 1}, r2.Vec{}, geom.Rotator{}, r2.Vec{}, r2.Vec{X: 10, Y: 10})
	if !errors.Is(err, ErrPlacementRejected) {
		t.Errorf("PlacePortal(nil) error = %v, want ErrPlacementRejected", err)
	}
}
