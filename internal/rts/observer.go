package rts

import (
	"go.uber.org/zap"

	"github.com/muurk/rtsctl/internal/logging"
)

// Observer is notified as a run progresses. Busy(true) is called when a
// run starts and Busy(false) when it ends, whatever the outcome.
type Observer interface {
	Busy(busy bool)
	StageStarted(stage Stage)
	StageFinished(stage Stage, err error)
}

type nopObserver struct{}

func (nopObserver) Busy(bool)                  {}
func (nopObserver) StageStarted(Stage)         {}
func (nopObserver) StageFinished(Stage, error) {}

// LogObserver logs stage transitions through the package-global logger
type LogObserver struct{}

func (LogObserver) Busy(busy bool) {
	logging.Debug("Run busy state changed", zap.Bool("busy", busy))
}

func (LogObserver) StageStarted(stage Stage) {
	logging.Info("Stage started", zap.Stringer("stage", stage))
}

func (LogObserver) StageFinished(stage Stage, err error) {
	if err != nil {
		logging.Warn("Stage failed", zap.Stringer("stage", stage), zap.Error(err))
		return
	}
	logging.Info("Stage finished", zap.Stringer("stage", stage))
}

// MultiObserver fans notifications out to every non-nil observer in order
func MultiObserver(observers ...Observer) Observer {
	var list multiObserver
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) Busy(busy bool) {
	for _, o := range m {
		o.Busy(busy)
	}
}

func (m multiObserver) StageStarted(stage Stage) {
	for _, o := range m {
		o.StageStarted(stage)
	}
}

func (m multiObserver) StageFinished(stage Stage, err error) {
	for _, o := range m {
		o.StageFinished(stage, err)
	}
}
