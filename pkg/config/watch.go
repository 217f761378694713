package config

import (
	"context"
	"os"
	"time"
)

// Watch polls path every interval and calls fn with the reloaded config
// whenever the file's modification time or size changes. Load errors are
// passed to fn with the last good config. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, interval time.Duration, fn func(Config, error)) {
	current, _ := Load(path)
	WatchFile(ctx, path, interval, func() {
		cfg, err := Load(path)
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			fn(current, err)
			return
		}
		current = cfg
		fn(cfg, nil)
	})
}

// WatchFile polls path every interval and calls onChange when the file
// appears, disappears, or changes modification time or size. A
// non-positive interval polls once per second. WatchFile blocks until ctx
// is done.
func WatchFile(ctx context.Context, path string, interval time.Duration, onChange func()) {
	if interval <= 0 {
		interval = time.Second
	}
	last := stat(path)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		st := stat(path)
		if st.same(last) {
			continue
		}
		last = st
		onChange()
	}
}

type fileState struct {
	exists  bool
	modTime time.Time
	size    int64
}

func (s fileState) same(o fileState) bool {
	return s.exists == o.exists && s.size == o.size && s.modTime.Equal(o.modTime)
}

func stat(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, modTime: info.ModTime(), size: info.Size()}
}
