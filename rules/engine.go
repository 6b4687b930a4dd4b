// Package rules is the quirk engine: data driven overrides, keyed by
// manufacturer and model, that add or remove capabilities before entity
// mapping. Filters are expr expressions compiled against Input; rule sets
// are plain YAML, so covering a new model's quirk is a data change, not code.
package rules

import (
	"fmt"
	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"gopkg.in/yaml.v3"
	"io"
	"io/fs"
	"strings"
)

type Engine struct {
	RuleSets map[string]RuleSet
	Rules    []CompiledRule
}

// Capabilities are the add/remove actions a rule applies to a device's
// capability set.
type Capabilities struct {
	Add    []string `yaml:"add"`
	Remove []string `yaml:"remove"`
}

type Actions struct {
	Capabilities Capabilities `yaml:"capabilities"`
}

type Rule struct {
	Description string  `yaml:"description"`
	Filter      string  `yaml:"filter"`
	Actions     Actions `yaml:"actions"`
	Children    []Rule  `yaml:"children"`
}

type CompiledRule struct {
	Description string
	Filter      *vm.Program
	Actions     Actions
	Children    []CompiledRule
}

type RuleSet struct {
	Name      string   `yaml:"name"`
	DependsOn []string `yaml:"dependsOn"`
	Rules     []Rule   `yaml:"rules"`
}

// Input is the match data a filter expression evaluates against.
type Input struct {
	Manufacturer string
	Model        string
	Label        string
	DeviceType   string
	Capabilities []string
}

// Output is the merged result of all matching rules.
type Output struct {
	Add    []string
	Remove map[string]bool
}

func New() *Engine {
	return &Engine{
		RuleSets: map[string]RuleSet{},
	}
}

func (e *Engine) LoadString(s string) error {
	return e.LoadReader(strings.NewReader(s))
}

func (e *Engine) LoadReader(r io.Reader) error {
	var rs RuleSet

	if err := yaml.NewDecoder(r).Decode(&rs); err != nil {
		return fmt.Errorf("ruleset decode: %w", err)
	}

	if rs.Name == "" {
		return fmt.Errorf("ruleset missing name")
	}

	e.RuleSets[rs.Name] = rs
	return nil
}

func (e *Engine) LoadFS(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || (!strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml")) {
			return nil
		}

		f, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := e.LoadReader(f); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		return nil
	})
}

func (e *Engine) CompileRules() error {
	alreadyLoaded := map[string]bool{}

	for k := range e.RuleSets {
		alreadyLoaded[k] = false
	}

	for k := range e.RuleSets {
		if !alreadyLoaded[k] {
			if err := e.compileRuleSet(alreadyLoaded, []string{}, k); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *Engine) compileRuleSet(alreadyLoaded map[string]bool, trail []string, name string) error {
	rs, ok := e.RuleSets[name]
	if !ok {
		return fmt.Errorf("ruleset missing dependency: %s->%s", strings.Join(trail, "->"), name)
	}

	trail = append(trail, rs.Name)

	for _, k := range rs.DependsOn {
		for _, t := range trail {
			if k == t {
				return fmt.Errorf("ruleset circular dependency: %s->%s", strings.Join(trail, "->"), k)
			}
		}

		if !alreadyLoaded[k] {
			if err := e.compileRuleSet(alreadyLoaded, trail, k); err != nil {
				return err
			}
		}
	}

	if cr, err := compileRules(rs.Rules); err != nil {
		return fmt.Errorf("ruleset compilation: %s: %w", strings.Join(trail, "->"), err)
	} else {
		e.Rules = append(e.Rules, cr...)
	}

	alreadyLoaded[name] = true

	return nil
}

func compileRules(rules []Rule) ([]CompiledRule, error) {
	var compiledRules []CompiledRule

	for _, rule := range rules {
		cf, err := expr.Compile(rule.Filter, expr.Env(Input{}))
		if err != nil {
			return nil, fmt.Errorf("filter compilation: %w", err)
		}

		if childCompiledRules, err := compileRules(rule.Children); err != nil {
			return nil, fmt.Errorf("%s: %w", rule.Description, err)
		} else {
			compiledRules = append(compiledRules, CompiledRule{
				Description: rule.Description,
				Filter:      cf,
				Actions:     rule.Actions,
				Children:    childCompiledRules,
			})
		}
	}

	return compiledRules, nil
}

// Execute evaluates the compiled rules against the input and merges the
// actions of every match. Children are only considered when their parent
// matched.
func (e *Engine) Execute(i Input) (Output, error) {
	o := Output{Remove: map[string]bool{}}

	if err := executeRules(e.Rules, i, &o); err != nil {
		return Output{}, err
	}

	return o, nil
}

func executeRules(rules []CompiledRule, i Input, o *Output) error {
	for _, rule := range rules {
		result, err := expr.Run(rule.Filter, i)
		if err != nil {
			return fmt.Errorf("%s: filter execution: %w", rule.Description, err)
		}

		matched, ok := result.(bool)
		if !ok {
			return fmt.Errorf("%s: filter did not evaluate to a boolean", rule.Description)
		}

		if !matched {
			continue
		}

		o.Add = append(o.Add, rule.Actions.Capabilities.Add...)

		for _, c := range rule.Actions.Capabilities.Remove {
			o.Remove[c] = true
		}

		if err := executeRules(rule.Children, i, o); err != nil {
			return err
		}
	}

	return nil
}
