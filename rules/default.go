package rules

// defaultRuleSet covers the model quirks the stock integration is known to
// need. Kept as YAML so it reads the same as an operator supplied file.
const defaultRuleSet = `
name: default
rules:
  - description: Samsung slim AC units report a display light they do not have
    filter: Manufacturer == "Samsung Electronics" && Model in ["SAC_SLIM1WAY", "SAC_BIG_SLIM1WAY", "MIM-H04EN"]
    actions:
      capabilities:
        remove:
          - samsungce.airConditionerLighting
  - description: ARTIK051 ACs support auto cleaning without advertising it
    filter: Manufacturer == "Samsung Electronics" && Model == "ARTIK051_KRAC_18K"
    actions:
      capabilities:
        add:
          - custom.autoCleaningMode
`

// Default returns an engine preloaded and compiled with the built-in rule
// set. The embedded data is static, so a failure here is a programming error.
func Default() *Engine {
	e := New()

	if err := e.LoadString(defaultRuleSet); err != nil {
		panic(err)
	}

	if err := e.CompileRules(); err != nil {
		panic(err)
	}

	return e
}
