package progrock

import (
	"fmt"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/packer/internal/core/ports"
)

// LogWriter is a progrock.Writer that reports every completed vertex once
// per run through a logger. A vertex that starts again is reported again. Output streams are not forwarded since the collaborators
// writing to them log on their own.
type LogWriter struct {
	logger ports.Logger

	mu       sync.Mutex
	reported map[string]struct{}
}

// NewLogWriter creates a LogWriter reporting to logger.
func NewLogWriter(logger ports.Logger) *LogWriter {
	return &LogWriter{
		logger:   logger,
		reported: make(map[string]struct{}),
	}
}

// WriteStatus implements progrock.Writer.
func (w *LogWriter) WriteStatus(update *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, v := range update.Vertexes {
		if v.Completed == nil {
			delete(w.reported, v.Id)
			continue
		}
		if _, ok := w.reported[v.Id]; ok {
			continue
		}
		w.reported[v.Id] = struct{}{}

		switch {
		case v.Error != nil:
			w.logger.Warn(fmt.Sprintf("%s failed: %s", v.Name, v.GetError()))
		case v.Cached:
			w.logger.Info(v.Name + " is up to date")
		default:
			w.logger.Info(v.Name + " packed")
		}
	}
	return nil
}

// Close implements progrock.Writer.
func (w *LogWriter) Close() error {
	return nil
}
