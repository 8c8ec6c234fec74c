package sim

import (
	"github.com/san-kum/esqet/internal/dynamo"
	"go.uber.org/zap"
)

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m ...dynamo.Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, m...) }
}

func WithObservers(o ...dynamo.Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, o...) }
}

// ObserverFunc adapts a plain function to dynamo.Observer.
type ObserverFunc func(dynamo.Snapshot)

func (f ObserverFunc) OnSnapshot(s dynamo.Snapshot) { f(s) }
