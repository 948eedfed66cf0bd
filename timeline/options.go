package timeline

import (
	"github.com/PotentialStyx/wpilog/monitoring"
)

// DefaultRunSize is the number of frames sorted in memory before a run is
// spilled to disk.
const DefaultRunSize = 1 << 16

type options struct {
	runSize int
	tempDir string
	logger  monitoring.Logger
}

// Option configures a Sorter.
type Option func(*options)

// WithRunSize sets how many frames are held in memory per run. Values
// below one are ignored.
func WithRunSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.runSize = n
		}
	}
}

// WithTempDir sets the directory spilled runs are written to. The default
// is os.TempDir.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

// WithLogger sets the logger used to report spills.
func WithLogger(l monitoring.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		runSize: DefaultRunSize,
		logger:  monitoring.Nop(),
	}
}
