package framestamp

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestGeometry(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		w, h   int
		want   Geometry
	}{
		{
			name:   "wide strip",
			layout: WideStrip,
			w:      1000, h: 800,
			want: Geometry{
				Width: 1000, Height: 892,
				Band:    Band{Top: 800, Height: 92, Width: 1000},
				FontRef: 800,
			},
		},
		{
			name:   "compact dot",
			layout: CompactDot,
			w:      1000, h: 800,
			want: Geometry{
				Width: 1000, Height: 896,
				Band:    Band{Top: 800, Height: 96, Width: 1000},
				FontRef: 896,
			},
		},
		{
			name:   "square landscape",
			layout: SquareFrame,
			w:      1000, h: 800,
			want: Geometry{
				Width: 1117, Height: 1117,
				Offset:  image.Pt(59, 59),
				Band:    Band{Top: 800, Height: 317, Width: 1000},
				FontRef: 1117,
			},
		},
		{
			name:   "square 3:2",
			layout: SquareFrame,
			w:      900, h: 600,
			want: Geometry{
				Width: 1005, Height: 1005,
				Offset:  image.Pt(53, 53),
				Band:    Band{Top: 600, Height: 405, Width: 900},
				FontRef: 1005,
			},
		},
		{
			// grown from 1117 so the photo ends above the mark at y=1059
			name:   "square portrait",
			layout: SquareFrame,
			w:      800, h: 1000,
			want: Geometry{
				Width: 1376, Height: 1376,
				Offset:  image.Pt(288, 59),
				Band:    Band{Top: 1000, Height: 376, Width: 1000.0 * 1376 / 1117},
				FontRef: 1376,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.layout.Geometry(tt.w, tt.h)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("Geometry(%d, %d) mismatch (-want +got):\n%s", tt.w, tt.h, diff)
			}
			if got.Width < tt.w || got.Height < tt.h {
				t.Errorf("canvas %dx%d is smaller than the photo", got.Width, got.Height)
			}
			if tt.layout == SquareFrame && got.Offset.Y+tt.h > squareMarkTop(got.Height) {
				t.Errorf("photo ends at y=%d, below the mark at y=%d", got.Offset.Y+tt.h, squareMarkTop(got.Height))
			}
		})
	}
}

func TestLayoutByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Layout
		wantErr bool
	}{
		{name: "wide", want: WideStrip},
		{name: "Compact", want: CompactDot},
		{name: "SQUARE", want: SquareFrame},
		{name: "hasselblad", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LayoutByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LayoutByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("LayoutByName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestShotOn(t *testing.T) {
	if got := shotOn(Snapshot{Model: Some("OnePlus 7 Pro")}); got != "Shot on OnePlus 7 Pro" {
		t.Errorf("shotOn() = %q", got)
	}
	if got := shotOn(Snapshot{}); got != "" {
		t.Errorf("shotOn(no model) = %q, want empty", got)
	}
}
