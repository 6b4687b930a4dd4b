package rules

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestEngine_LoadString(t *testing.T) {
	t.Run("loads a ruleset under its name", func(t *testing.T) {
		e := New()

		err := e.LoadString(`
name: quirks
rules:
  - description: match everything
    filter: "true"
`)
		assert.NoError(t, err)
		assert.Contains(t, e.RuleSets, "quirks")
		assert.Len(t, e.RuleSets["quirks"].Rules, 1)
	})

	t.Run("rejects a ruleset without a name", func(t *testing.T) {
		e := New()

		err := e.LoadString(`
rules:
  - description: anonymous
    filter: "true"
`)
		assert.Error(t, err)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		e := New()

		assert.Error(t, e.LoadString(`: not yaml`))
	})
}

func TestEngine_LoadFS(t *testing.T) {
	t.Run("loads every yaml file in the tree", func(t *testing.T) {
		fsys := fstest.MapFS{
			"one.yaml": &fstest.MapFile{Data: []byte("name: one\nrules: []\n")},
			"sub/two.yml": &fstest.MapFile{
				Data: []byte("name: two\nrules: []\n"),
			},
			"ignored.txt": &fstest.MapFile{Data: []byte("not a ruleset")},
		}

		e := New()
		assert.NoError(t, e.LoadFS(fsys))
		assert.Contains(t, e.RuleSets, "one")
		assert.Contains(t, e.RuleSets, "two")
		assert.Len(t, e.RuleSets, 2)
	})
}

func TestEngine_CompileRules(t *testing.T) {
	t.Run("compiles dependencies before dependents", func(t *testing.T) {
		e := New()

		assert.NoError(t, e.LoadString(`
name: extension
dependsOn: [base]
rules:
  - description: extension rule
    filter: "true"
`))
		assert.NoError(t, e.LoadString(`
name: base
rules:
  - description: base rule
    filter: "true"
`))

		assert.NoError(t, e.CompileRules())
		assert.Len(t, e.Rules, 2)
		assert.Equal(t, "base rule", e.Rules[0].Description)
		assert.Equal(t, "extension rule", e.Rules[1].Description)
	})

	t.Run("errors on a missing dependency", func(t *testing.T) {
		e := New()

		assert.NoError(t, e.LoadString(`
name: orphan
dependsOn: [nowhere]
rules: []
`))

		err := e.CompileRules()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "missing dependency")
	})

	t.Run("errors on a circular dependency", func(t *testing.T) {
		e := New()

		assert.NoError(t, e.LoadString("name: a\ndependsOn: [b]\nrules: []\n"))
		assert.NoError(t, e.LoadString("name: b\ndependsOn: [a]\nrules: []\n"))

		err := e.CompileRules()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "circular dependency")
	})

	t.Run("errors on an invalid filter expression", func(t *testing.T) {
		e := New()

		assert.NoError(t, e.LoadString(`
name: broken
rules:
  - description: bad filter
    filter: "Model >!< 3"
`))

		assert.Error(t, e.CompileRules())
	})
}

func TestEngine_Execute(t *testing.T) {
	compiled := func(t *testing.T, yaml string) *Engine {
		e := New()
		assert.NoError(t, e.LoadString(yaml))
		assert.NoError(t, e.CompileRules())
		return e
	}

	t.Run("merges add and remove actions of matching rules", func(t *testing.T) {
		e := compiled(t, `
name: quirks
rules:
  - description: match this model
    filter: Manufacturer == "Acme" && Model == "X1"
    actions:
      capabilities:
        add: [custom.autoCleaningMode]
        remove: [samsungce.airConditionerLighting]
  - description: never matches
    filter: Model == "Y2"
    actions:
      capabilities:
        add: [audioVolume]
`)

		o, err := e.Execute(Input{Manufacturer: "Acme", Model: "X1"})
		assert.NoError(t, err)
		assert.Equal(t, []string{"custom.autoCleaningMode"}, o.Add)
		assert.True(t, o.Remove["samsungce.airConditionerLighting"])
		assert.False(t, o.Remove["audioVolume"])
	})

	t.Run("only considers children of a matching parent", func(t *testing.T) {
		e := compiled(t, `
name: quirks
rules:
  - description: parent
    filter: Manufacturer == "Acme"
    children:
      - description: child
        filter: Model == "X1"
        actions:
          capabilities:
            remove: [switch]
  - description: other parent
    filter: Manufacturer == "Globex"
    children:
      - description: unreachable child
        filter: "true"
        actions:
          capabilities:
            remove: [battery]
`)

		o, err := e.Execute(Input{Manufacturer: "Acme", Model: "X1"})
		assert.NoError(t, err)
		assert.True(t, o.Remove["switch"])
		assert.False(t, o.Remove["battery"])
	})

	t.Run("matches against the capability list", func(t *testing.T) {
		e := compiled(t, `
name: quirks
rules:
  - description: devices reporting a switch
    filter: '"switch" in Capabilities'
    actions:
      capabilities:
        add: [custom.spiMode]
`)

		o, err := e.Execute(Input{Capabilities: []string{"switch", "battery"}})
		assert.NoError(t, err)
		assert.Equal(t, []string{"custom.spiMode"}, o.Add)

		o, err = e.Execute(Input{Capabilities: []string{"battery"}})
		assert.NoError(t, err)
		assert.Empty(t, o.Add)
	})

	t.Run("errors when a filter does not evaluate to a boolean", func(t *testing.T) {
		e := compiled(t, `
name: quirks
rules:
  - description: not a predicate
    filter: Model
`)

		_, err := e.Execute(Input{Model: "X1"})
		assert.Error(t, err)
	})

	t.Run("no matches yields an empty output", func(t *testing.T) {
		e := compiled(t, `
name: quirks
rules:
  - description: never
    filter: "false"
    actions:
      capabilities:
        add: [switch]
`)

		o, err := e.Execute(Input{})
		assert.NoError(t, err)
		assert.Empty(t, o.Add)
		assert.Empty(t, o.Remove)
	})
}

func TestDefault(t *testing.T) {
	t.Run("compiles", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Default()
		})
	})

	t.Run("removes the phantom display light on slim AC units", func(t *testing.T) {
		e := Default()

		for _, model := range []string{"SAC_SLIM1WAY", "SAC_BIG_SLIM1WAY", "MIM-H04EN"} {
			o, err := e.Execute(Input{Manufacturer: "Samsung Electronics", Model: model})
			assert.NoError(t, err)
			assert.True(t, o.Remove["samsungce.airConditionerLighting"], model)
		}
	})

	t.Run("adds auto cleaning on ARTIK051 AC units", func(t *testing.T) {
		e := Default()

		o, err := e.Execute(Input{Manufacturer: "Samsung Electronics", Model: "ARTIK051_KRAC_18K"})
		assert.NoError(t, err)
		assert.Contains(t, o.Add, "custom.autoCleaningMode")
	})

	t.Run("does not fire for other manufacturers", func(t *testing.T) {
		e := Default()

		o, err := e.Execute(Input{Manufacturer: "Acme", Model: "SAC_SLIM1WAY"})
		assert.NoError(t, err)
		assert.Empty(t, o.Add)
		assert.Empty(t, o.Remove)
	})
}
