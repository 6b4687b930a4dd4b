package stda

import (
	"encoding/json"

	"github.com/shimmeringbee/persistence"
	"github.com/stda-home/stda/st"
)

const describeKey = "Describe"

func (g *Gateway) sectionForDevice(deviceID string) persistence.Section {
	return g.section.Section("device", deviceID)
}

func (g *Gateway) sectionRemoveDevice(deviceID string) bool {
	return g.section.Section("device").SectionDelete(deviceID)
}

func (g *Gateway) sectionForBinding(deviceID string, bindingID string) persistence.Section {
	return g.sectionForDevice(deviceID).Section("entity", bindingID)
}

func (g *Gateway) deviceListFromPersistence() []string {
	return g.section.Section("device").SectionKeys()
}

// persistDescribe caches the describe result so the entity set can be
// rebuilt at startup without network traffic. The mapper is deterministic,
// so a rebuild yields identical entity identifiers.
func (g *Gateway) persistDescribe(desc st.Device) {
	if raw, err := json.Marshal(desc); err == nil {
		g.sectionForDevice(desc.DeviceID).Set(describeKey, string(raw))
	}
}

func (g *Gateway) describeFromPersistence(deviceID string) (st.Device, bool) {
	raw, ok := g.sectionForDevice(deviceID).String(describeKey)
	if !ok {
		return st.Device{}, false
	}

	var desc st.Device
	if err := json.Unmarshal([]byte(raw), &desc); err != nil {
		return st.Device{}, false
	}

	return desc, true
}
