package worker

import "github.com/agbru/workerlab/internal/logging"

// LogObserver writes one debug line per completed step.
type LogObserver struct {
	logger logging.Logger
}

// NewLogObserver returns a StepObserver backed by logger.
func NewLogObserver(logger logging.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// StepDone implements StepObserver.
func (o *LogObserver) StepDone(workerID string, step int, value int64) {
	o.logger.Debug("step done",
		logging.String("worker", workerID),
		logging.Int("step", step),
		logging.Int64("value", value))
}

// MultiObserver fans a step notification out to several observers.
type MultiObserver []StepObserver

// StepDone implements StepObserver.
func (m MultiObserver) StepDone(workerID string, step int, value int64) {
	for _, o := range m {
		if o != nil {
			o.StepDone(workerID, step, value)
		}
	}
}
