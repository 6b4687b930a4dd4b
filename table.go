package stda

import (
	"sync"

	"github.com/stda-home/stda/entities"
	"github.com/stda-home/stda/st"
	"golang.org/x/sync/semaphore"
)

func (g *Gateway) createDevice(desc st.Device) (*device, bool) {
	g.deviceLock.Lock()
	defer g.deviceLock.Unlock()

	if d, found := g.devices[desc.DeviceID]; found {
		return d, false
	}

	d := &device{
		id:           desc.DeviceID,
		label:        desc.Label,
		manufacturer: desc.ManufacturerName,
		model:        desc.Model,
		gw:           g,
		m:            &sync.RWMutex{},
		applySem:     semaphore.NewWeighted(1),
	}

	g.devices[desc.DeviceID] = d
	g.sectionForDevice(desc.DeviceID)

	return d, true
}

func (g *Gateway) getDevice(deviceID string) *device {
	g.deviceLock.RLock()
	defer g.deviceLock.RUnlock()

	return g.devices[deviceID]
}

func (g *Gateway) getDevices() []*device {
	g.deviceLock.RLock()
	defer g.deviceLock.RUnlock()

	var devices []*device
	for _, d := range g.devices {
		devices = append(devices, d)
	}

	return devices
}

// RemoveDevice forgets a device, its entities and its persisted state. The
// poller drops the device on its next cycle.
func (g *Gateway) RemoveDevice(deviceID string) bool {
	g.deviceLock.Lock()
	d, found := g.devices[deviceID]
	if found {
		delete(g.devices, deviceID)
	}
	g.deviceLock.Unlock()

	if !found {
		return false
	}

	g.sectionRemoveDevice(d.id)
	g.sendEvent(entities.DeviceRemoved{DeviceID: d.id})

	return true
}
