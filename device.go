package stda

import (
	"sync"

	"golang.org/x/sync/semaphore"
)

// device is the in-memory representation of one remote device. Identity,
// product data and the binding set are immutable once built; only binding
// state changes afterwards.
type device struct {
	id           string
	label        string
	manufacturer string
	model        string

	gw *Gateway
	m  *sync.RWMutex

	// applySem serialises snapshot application for this device. Commands may
	// run concurrently with an apply; two applies may not overlap.
	applySem *semaphore.Weighted

	bindings []*binding
}

func (d *device) setBindings(bindings []*binding) {
	d.m.Lock()
	defer d.m.Unlock()

	d.bindings = bindings
}

func (d *device) getBindings() []*binding {
	d.m.RLock()
	defer d.m.RUnlock()

	return d.bindings
}
