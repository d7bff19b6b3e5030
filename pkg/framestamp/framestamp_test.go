package framestamp

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	c := &Config{}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	want := &Config{Layout: "wide", Place: DefaultPlace, Suffix: DefaultSuffix, Quality: 95}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}

	kept := &Config{Layout: "Square", Place: "Lisbon", Suffix: "framed", Quality: 80}
	if err := kept.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if kept.Layout != "Square" || kept.Place != "Lisbon" || kept.Suffix != "framed" || kept.Quality != 80 {
		t.Errorf("Validate() overwrote explicit settings: %+v", kept)
	}

	for _, bad := range []*Config{{Layout: "polaroid"}, {Quality: 101}, {Quality: -3}} {
		if err := bad.Validate(); err == nil {
			t.Errorf("Validate(%+v) succeeded", bad)
		}
	}
}

func TestPalette(t *testing.T) {
	light := (&Config{}).Palette()
	dark := (&Config{Dark: true}).Palette()

	if light.Background != white || light.Foreground != black {
		t.Errorf("light palette = %+v", light)
	}
	if dark.Background != black || dark.Foreground != white || dark.Secondary != white {
		t.Errorf("dark palette = %+v", dark)
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"batch", BatchOutDir("/photos/trip", "watermarked"), "/photos/trip-watermarked"},
		{"batch trailing slash", BatchOutDir("/photos/trip/", "x"), "/photos/trip-x"},
		{"single", SingleOutPath("/photos/IMG_1.jpg", "watermarked"), "/photos/IMG_1-watermarked.jpg"},
		{"single keeps extension case", SingleOutPath("a/b.c.JPEG", "s"), filepath.Join("a", "b.c-s.JPEG")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != filepath.FromSlash(tt.want) {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestIsJPEG(t *testing.T) {
	for n, want := range map[string]bool{
		"a.jpg": true, "b.JPG": true, "c.jpeg": true, "d.Jpeg": true,
		"e.png": false, "jpg": false, "f.jpg.txt": false,
	} {
		if got := isJPEG(n); got != want {
			t.Errorf("isJPEG(%q) = %v, want %v", n, got, want)
		}
	}
}
