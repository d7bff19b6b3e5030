// framestamp adds a camera information strip to a photo or a folder of photos.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"k8s.io/klog/v2"

	"github.com/tstromberg/framestamp/pkg/framestamp"
)

var (
	layout      = flag.String("layout", framestamp.WideStrip.Name(), "watermark layout: "+strings.Join(framestamp.LayoutNames(), ", "))
	dark        = flag.Bool("dark", false, "black background with white text")
	camera      = flag.String("camera", "", "camera name to show instead of the EXIF model")
	place       = flag.String("place", framestamp.DefaultPlace, "text to show when a photo has no GPS position")
	logo        = flag.String("logo", "", "path to the brand logo (PNG with transparency works best)")
	mark        = flag.String("mark", "", "path to the second logo drawn above the brand logo in the square layout")
	fontPath    = flag.String("font", "", "path to a .ttf/.otf/.ttc font for regular text (default: Go Regular)")
	boldPath    = flag.String("bold-font", "", "path to a .ttf/.otf/.ttc font for bold text (default: Go Bold)")
	quality     = flag.Int("quality", 95, "JPEG output quality (1-100)")
	suffix      = flag.String("suffix", framestamp.DefaultSuffix, "marker appended to output file and directory names")
	copySkipped = flag.Bool("copy-skipped", false, "copy photos lacking EXIF parameters to the output directory unmodified")
	watchFlag   = flag.Bool("watch", false, "keep watching the input directory and watermark new photos")
)

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <photo.jpg|directory>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	path := flag.Arg(0)
	if path == "" {
		path = prompt("Path to a .jpg photo or a folder of photos: ")
	}

	c := &framestamp.Config{
		Layout:      *layout,
		Dark:        *dark,
		CameraName:  *camera,
		Place:       *place,
		Logo:        *logo,
		Mark:        *mark,
		Quality:     *quality,
		Suffix:      *suffix,
		CopySkipped: *copySkipped,
	}
	if err := c.Validate(); err != nil {
		klog.Exitf("invalid config: %v", err)
	}

	a := framestamp.NewFS(*fontPath, *boldPath)

	sum, err := framestamp.Run(path, c, a)
	if errors.Is(err, framestamp.ErrInvalidPath) {
		klog.Exitf("invalid path %q: %v", path, err)
	}
	if err != nil {
		klog.Exitf("run failed: %v", err)
	}

	if *watchFlag {
		st, err := os.Stat(path)
		if err != nil || !st.IsDir() {
			klog.Exitf("--watch requires a directory")
		}
		if err := watch(path, c, a); err != nil {
			klog.Exitf("watch failed: %v", err)
		}
		return
	}

	if sum.Failed > 0 {
		os.Exit(1)
	}
}

// watch runs until interrupted.
func watch(dir string, c *framestamp.Config, a framestamp.Assets) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err := framestamp.Watch(ctx, dir, c, a)
	return err
}

// prompt reads a path from stdin, dropping surrounding quotes left by
// drag-and-drop.
func prompt(msg string) string {
	fmt.Print(msg)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		klog.Exitf("no path given")
	}
	return strings.Trim(strings.TrimSpace(line), `"'`)
}
