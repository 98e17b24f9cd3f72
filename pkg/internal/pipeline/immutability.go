package pipeline

import "sync/atomic"

// Freeze marks the pipeline configuration as immutable.
func (p *Pipeline) Freeze() {
	atomic.StoreInt32(&p.frozen, 1)
}

func (p *Pipeline) requireNotFrozen(action string) {
	if atomic.LoadInt32(&p.frozen) == 1 {
		panic("pipeline: " + action + " called after Freeze")
	}
}
