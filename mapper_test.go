package stda

import (
	"context"
	"testing"

	"github.com/stda-home/stda/entities"
	"github.com/stda-home/stda/mocks"
	"github.com/stda-home/stda/registry"
	"github.com/stda-home/stda/st"
	"github.com/stretchr/testify/assert"
)

func bindingIDs(bindings []*binding) []string {
	var ids []string
	for _, b := range bindings {
		ids = append(ids, b.id)
	}

	return ids
}

func TestGateway_BuildBindings(t *testing.T) {
	t.Run("walks declaration order and expands multi entity capabilities", func(t *testing.T) {
		g := newTestGateway(&mocks.MockCloud{})
		desc := testDescribe("switch", "temperatureMeasurement", "audioVolume")
		d, _ := g.createDevice(desc)

		bindings := g.buildBindings(context.Background(), d, desc)

		assert.Equal(t, []string{
			"device-1-switch",
			"device-1-temperature",
			"device-1-volume",
			"device-1-volume-setter",
		}, bindingIDs(bindings))
	})

	t.Run("the same describe result always yields the same identifiers", func(t *testing.T) {
		g := newTestGateway(&mocks.MockCloud{})
		desc := testDescribe("switch", "audioVolume", "dustSensor", "contactSensor")
		d, _ := g.createDevice(desc)

		first := bindingIDs(g.buildBindings(context.Background(), d, desc))
		second := bindingIDs(g.buildBindings(context.Background(), d, desc))

		assert.Equal(t, first, second)
	})

	t.Run("disabled capabilities never produce bindings", func(t *testing.T) {
		g := newTestGateway(&mocks.MockCloud{})
		desc := testDescribe("switch", "relativeHumidityMeasurement")
		desc.Components[0].DisabledCapabilities = []string{"relativeHumidityMeasurement"}
		d, _ := g.createDevice(desc)

		bindings := g.buildBindings(context.Background(), d, desc)

		assert.Equal(t, []string{"device-1-switch"}, bindingIDs(bindings))
	})

	t.Run("ignored and unmapped capabilities are skipped", func(t *testing.T) {
		g := newTestGateway(&mocks.MockCloud{})
		desc := testDescribe("ocf", "healthCheck", "vendor.mysteryFeature", "battery")
		d, _ := g.createDevice(desc)

		bindings := g.buildBindings(context.Background(), d, desc)

		assert.Equal(t, []string{"device-1-battery"}, bindingIDs(bindings))
	})

	t.Run("a quirk rule removes capabilities the device misreports", func(t *testing.T) {
		g := newTestGateway(&mocks.MockCloud{})
		desc := testDescribe("switch", "samsungce.airConditionerLighting")
		desc.ManufacturerName = "Samsung Electronics"
		desc.Model = "SAC_SLIM1WAY"
		d, _ := g.createDevice(desc)

		bindings := g.buildBindings(context.Background(), d, desc)

		assert.Equal(t, []string{"device-1-switch"}, bindingIDs(bindings))
	})

	t.Run("a quirk rule appends capabilities after the declared ones", func(t *testing.T) {
		g := newTestGateway(&mocks.MockCloud{})
		desc := testDescribe("switch")
		desc.ManufacturerName = "Samsung Electronics"
		desc.Model = "ARTIK051_KRAC_18K"
		d, _ := g.createDevice(desc)

		bindings := g.buildBindings(context.Background(), d, desc)

		assert.Equal(t, []string{"device-1-switch", "device-1-auto-cleaning"}, bindingIDs(bindings))
		assert.Equal(t, "main", bindings[1].component)
		assert.Equal(t, "custom.autoCleaningMode", bindings[1].capability)
	})

	t.Run("colliding identifiers keep the first declared capability", func(t *testing.T) {
		r := registry.New([]registry.Definition{
			{ID: "temperatureMeasurement", Mappings: []registry.Mapping{
				{Attribute: "temperature", Key: "temperature", Name: "Temperature", Kind: entities.Sensor},
			}},
			{ID: "vendor.roomTemperature", Mappings: []registry.Mapping{
				{Attribute: "roomTemperature", Key: "temperature", Name: "Room Temperature", Kind: entities.Sensor},
			}},
		}, nil)

		g := newTestGateway(&mocks.MockCloud{}, WithRegistry(r))
		desc := testDescribe("temperatureMeasurement", "vendor.roomTemperature")
		d, _ := g.createDevice(desc)

		bindings := g.buildBindings(context.Background(), d, desc)

		assert.Equal(t, []string{"device-1-temperature"}, bindingIDs(bindings))
		assert.Equal(t, "temperatureMeasurement", bindings[0].capability)
	})

	t.Run("the same capability on two components collides deterministically", func(t *testing.T) {
		g := newTestGateway(&mocks.MockCloud{})
		desc := testDescribe("temperatureMeasurement")
		desc.Components = append(desc.Components, st.Component{
			ID:           "freezer",
			Capabilities: []st.CapabilityReference{{ID: "temperatureMeasurement"}},
		})
		d, _ := g.createDevice(desc)

		bindings := g.buildBindings(context.Background(), d, desc)

		assert.Equal(t, []string{"device-1-temperature"}, bindingIDs(bindings))
		assert.Equal(t, "main", bindings[0].component)
	})

	t.Run("entities carry their kind, name and device", func(t *testing.T) {
		g := newTestGateway(&mocks.MockCloud{})
		desc := testDescribe("audioVolume")
		d, _ := g.createDevice(desc)

		bindings := g.buildBindings(context.Background(), d, desc)
		assert.Len(t, bindings, 2)

		sensor := bindings[0].entity()
		assert.Equal(t, entities.Sensor, sensor.Kind())
		assert.Equal(t, "Volume", sensor.Name())
		assert.Equal(t, "device-1", sensor.DeviceID())
		_, writable := sensor.(entities.Writable)
		assert.False(t, writable)

		number := bindings[1].entity()
		assert.Equal(t, entities.Number, number.Kind())
		_, writable = number.(entities.Writable)
		assert.True(t, writable)
	})
}
