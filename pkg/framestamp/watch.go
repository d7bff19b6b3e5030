package framestamp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"
)

// WatchSettle is how long a file must go without events before it is
// processed, so photos still being copied in are not read half-written.
var WatchSettle = 750 * time.Millisecond

// Watch watermarks JPEGs as they are created or rewritten in dir, until ctx
// is done.
func Watch(ctx context.Context, dir string, c *Config, a Assets) (Summary, error) {
	sum := Summary{}
	outDir := BatchOutDir(dir, c.Suffix)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return sum, fmt.Errorf("mkdir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return sum, fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return sum, fmt.Errorf("watch %s: %w", dir, err)
	}
	klog.Infof("watching %s for new photos ...", dir)

	tick := time.NewTicker(WatchSettle / 3)
	defer tick.Stop()

	// last event time per file name
	pending := map[string]time.Time{}

	for {
		select {
		case <-ctx.Done():
			klog.Infof("watch stopped: %d written, %d skipped, %d failed", sum.Processed, sum.Skipped, sum.Failed)
			return sum, nil

		case event, ok := <-w.Events:
			if !ok {
				return sum, nil
			}
			klog.V(2).Infof("event: %v", event)
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			n := filepath.Base(event.Name)
			if strings.HasPrefix(n, ".") || !isJPEG(n) {
				continue
			}
			pending[n] = time.Now()

		case err, ok := <-w.Errors:
			if !ok {
				return sum, nil
			}
			klog.Errorf("watch error: %v", err)

		case now := <-tick.C:
			for n, t := range pending {
				if now.Sub(t) < WatchSettle {
					continue
				}
				delete(pending, n)
				in := filepath.Join(dir, n)
				out := filepath.Join(outDir, n)
				sum.record(in, out, ProcessFile(in, out, c, a), c)
			}
		}
	}
}
