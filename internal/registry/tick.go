package registry

import (
	"github.com/minicortex/core/internal/nodeclass"
	"github.com/minicortex/core/internal/scheduler"
)

// TickView is the short-lived, lock-acquired snapshot the engine needs
// to run one tick: the live instance pointers (not copies — node code
// writes directly into its own cells) plus the scheduler inputs derived
// from them. Per §4.5, the registry lock is held only to build this
// view; the tick then runs against it without holding the lock.
type TickView struct {
	Instances map[nodeclass.InstanceID]*nodeclass.Instance
	NodeInfos []scheduler.NodeInfo
}

// BuildTickView acquires a read lock just long enough to copy out the
// instance-pointer map and the scheduler's ordering inputs.
func (r *Registry) BuildTickView() TickView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	view := TickView{
		Instances: make(map[nodeclass.InstanceID]*nodeclass.Instance, len(r.instances)),
		NodeInfos: make([]scheduler.NodeInfo, 0, len(r.instances)),
	}
	for id, inst := range r.instances {
		view.Instances[id] = inst
		view.NodeInfos = append(view.NodeInfos, scheduler.NodeInfo{ID: id, CreationOrder: inst.CreationOrder})
	}
	return view
}

// SetInstanceError records (or clears, with a nil err) an instance's
// most recent Process failure, under the registry lock.
func (r *Registry) SetInstanceError(id nodeclass.InstanceID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst, ok := r.instances[id]; ok {
		inst.LastErr = err
	}
}
