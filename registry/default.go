package registry

import "github.com/stda-home/stda/entities"

func f(v float64) *float64 { return &v }

// Default returns the built-in registry covering the stock SmartThings
// capabilities plus the Samsung custom capabilities appliances report.
func Default() *Registry {
	return New(defaultDefinitions, defaultIgnored)
}

var defaultIgnored = []string{
	"healthCheck",
	"ocf",
	"execute",
	"custom.disabledCapabilities",
	"custom.disabledComponents",
}

var defaultDefinitions = []Definition{
	{
		ID: "switch",
		Mappings: []Mapping{
			{
				Attribute: "switch",
				Key:       "switch",
				Name:      "Switch",
				Kind:      entities.Switch,
				Write: &Write{
					Style:      WriteOnOff,
					OnCommand:  "on",
					OffCommand: "off",
					OnValue:    "on",
					OffValue:   "off",
				},
			},
		},
	},
	{
		ID: "temperatureMeasurement",
		Mappings: []Mapping{
			{Attribute: "temperature", Key: "temperature", Name: "Temperature", Kind: entities.Sensor},
		},
	},
	{
		ID: "relativeHumidityMeasurement",
		Mappings: []Mapping{
			{Attribute: "humidity", Key: "humidity", Name: "Humidity", Kind: entities.Sensor, Unit: "%"},
		},
	},
	{
		ID: "battery",
		Mappings: []Mapping{
			{Attribute: "battery", Key: "battery", Name: "Battery", Kind: entities.Sensor, Unit: "%"},
		},
	},
	{
		// One capability, two entities: a read-only sensor and a settable
		// number over the same attribute.
		ID: "audioVolume",
		Mappings: []Mapping{
			{Attribute: "volume", Key: "volume", Name: "Volume", Kind: entities.Sensor, Unit: "%"},
			{
				Attribute:   "volume",
				Key:         "volume-setter",
				Name:        "Volume",
				Kind:        entities.Number,
				Unit:        "%",
				Constraints: Constraints{Minimum: f(0), Maximum: f(100), Step: f(1)},
				Write:       &Write{Style: WriteArgument, Command: "setVolume"},
			},
		},
	},
	{
		ID: "airQualitySensor",
		Mappings: []Mapping{
			{Attribute: "airQuality", Key: "air-quality", Name: "Air Quality", Kind: entities.Sensor, Unit: "CAQI"},
		},
	},
	{
		ID: "carbonDioxideMeasurement",
		Mappings: []Mapping{
			{Attribute: "carbonDioxide", Key: "carbon-dioxide", Name: "Carbon Dioxide", Kind: entities.Sensor, Unit: "ppm"},
		},
	},
	{
		// A single dust capability reports two granularities.
		ID: "dustSensor",
		Mappings: []Mapping{
			{Attribute: "dustLevel", Key: "dust", Name: "Dust", Kind: entities.Sensor, Unit: "µg/m³"},
			{Attribute: "fineDustLevel", Key: "fine-dust", Name: "Fine Dust", Kind: entities.Sensor, Unit: "µg/m³"},
		},
	},
	{
		ID: "contactSensor",
		Mappings: []Mapping{
			{Attribute: "contact", Key: "contact", Name: "Contact", Kind: entities.BinarySensor},
		},
	},
	{
		ID: "motionSensor",
		Mappings: []Mapping{
			{Attribute: "motion", Key: "motion", Name: "Motion", Kind: entities.BinarySensor},
		},
	},
	{
		ID: "airConditionerMode",
		Mappings: []Mapping{
			{
				Attribute:   "airConditionerMode",
				Key:         "ac-mode",
				Name:        "Air Conditioner Mode",
				Kind:        entities.ClimateMode,
				Constraints: Constraints{Enum: []string{"auto", "cool", "dry", "heat", "wind", "fanOnly"}},
				Write:       &Write{Style: WriteArgument, Command: "setAirConditionerMode"},
			},
		},
	},
	{
		ID: "fanOscillationMode",
		Mappings: []Mapping{
			{
				Attribute:   "fanOscillationMode",
				Key:         "fan-oscillation",
				Name:        "Fan Oscillation Mode",
				Kind:        entities.Select,
				Constraints: Constraints{Enum: []string{"fixed", "all", "vertical", "horizontal"}},
				Write:       &Write{Style: WriteArgument, Command: "setFanOscillationMode"},
			},
		},
	},
	{
		ID: "thermostatCoolingSetpoint",
		Mappings: []Mapping{
			{
				Attribute:   "coolingSetpoint",
				Key:         "cooling-setpoint",
				Name:        "Cooling Setpoint",
				Kind:        entities.Number,
				Constraints: Constraints{Minimum: f(16), Maximum: f(30), Step: f(1)},
				Write:       &Write{Style: WriteArgument, Command: "setCoolingSetpoint"},
			},
		},
	},
	{
		ID: "ovenMode",
		Mappings: []Mapping{
			{Attribute: "ovenMode", Key: "oven-mode", Name: "Oven Mode", Kind: entities.Sensor},
		},
	},
	{
		// The operating state capability reports several attributes, each
		// surfaced as its own sensor.
		ID: "ovenOperatingState",
		Mappings: []Mapping{
			{Attribute: "machineState", Key: "oven-machine-state", Name: "Oven Machine State", Kind: entities.Sensor},
			{Attribute: "ovenJobState", Key: "oven-job-state", Name: "Oven Job State", Kind: entities.Sensor},
			{Attribute: "operationTime", Key: "oven-operation-time", Name: "Oven Operation Time", Kind: entities.Sensor},
			{Attribute: "completionTime", Key: "oven-completion-time", Name: "Oven Completion Time", Kind: entities.Sensor},
			{Attribute: "progress", Key: "oven-progress", Name: "Oven Progress", Kind: entities.Sensor, Unit: "%"},
		},
	},
	{
		ID: "ovenSetpoint",
		Mappings: []Mapping{
			{
				Attribute:   "ovenSetpoint",
				Key:         "oven-setpoint",
				Name:        "Oven Setpoint",
				Kind:        entities.Number,
				Constraints: Constraints{Minimum: f(0), Maximum: f(300), Step: f(5)},
				Write:       &Write{Style: WriteArgument, Command: "setOvenSetpoint"},
			},
		},
	},
	{
		ID: "custom.dustFilter",
		Mappings: []Mapping{
			{Attribute: "dustFilterStatus", Key: "dust-filter", Name: "Dust Filter Status", Kind: entities.Sensor},
		},
	},
	{
		ID: "custom.autoCleaningMode",
		Mappings: []Mapping{
			{
				Attribute: "autoCleaningMode",
				Key:       "auto-cleaning",
				Name:      "Auto Cleaning Mode",
				Kind:      entities.Switch,
				Write: &Write{
					Style:    WriteSetterOnOff,
					Command:  "setAutoCleaningMode",
					OnValue:  "on",
					OffValue: "off",
				},
			},
		},
	},
	{
		ID: "custom.spiMode",
		Mappings: []Mapping{
			{
				Attribute: "spiMode",
				Key:       "spi-mode",
				Name:      "SPI Mode",
				Kind:      entities.Switch,
				Write: &Write{
					Style:    WriteSetterOnOff,
					Command:  "setSpiMode",
					OnValue:  "on",
					OffValue: "off",
				},
			},
		},
	},
	{
		ID: "samsungce.airConditionerLighting",
		Mappings: []Mapping{
			{
				Attribute: "lighting",
				Key:       "display-light",
				Name:      "Display Lighting",
				Kind:      entities.Switch,
				Write: &Write{
					Style:    WriteSetterOnOff,
					Command:  "setLightingLevel",
					OnValue:  "on",
					OffValue: "off",
				},
			},
		},
	},
}
