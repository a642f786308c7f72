package provisioning

import (
	"context"
	"fmt"
	"time"
)

// step is one stage of a lifecycle workflow.
type step struct {
	name string
	run  func(ctx context.Context) error
}

// runSteps executes the steps of a workflow sequentially and records the
// outcome under kind. The first failing step ends the workflow.
func (m *Manager) runSteps(ctx context.Context, kind string, steps []step) error {
	start := m.clock.Now()
	log := m.log.WithValues("workflow", kind)
	log.V(1).Info("starting", "steps", len(steps))

	for i, s := range steps {
		stepStart := m.clock.Now()
		name := fmt.Sprintf("%s (%d/%d)", s.name, i+1, len(steps))

		log.V(2).Info("step starting", "step", name)

		if err := s.run(ctx); err != nil {
			log.V(1).Info("step failed", "step", name, "err", err)
			m.metrics.recordOperation(kind, err)
			return err
		}

		log.V(2).Info("step completed", "step", name, "elapsed", m.clock.Since(stepStart).Round(time.Millisecond))
	}

	log.V(1).Info("completed", "elapsed", m.clock.Since(start).Round(time.Millisecond))
	m.metrics.recordOperation(kind, nil)
	return nil
}
