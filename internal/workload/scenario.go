// Package workload loads scripted catalog scenarios, runs them against a
// fresh catalog.Company and reports the outcome of every step.
package workload

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario is returned when a scenario fails schema validation.
var ErrInvalidScenario = errors.New("invalid scenario")

//go:embed schema.json
var schemaJSON []byte

// Step operations.
const (
	OpNewMonth    = "new_month"
	OpAddCustomer = "add_customer"
	OpGetPhone    = "get_phone"
	OpMakeMember  = "make_member"
	OpIsMember    = "is_member"
	OpBuyRecord   = "buy_record"
	OpAddPrize    = "add_prize"
	OpGetExpenses = "get_expenses"
	OpPutOnTop    = "put_on_top"
	OpGetPlace    = "get_place"
)

// Scenario is a named sequence of catalog operations.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one catalog operation. Only the fields its Op uses are read.
type Step struct {
	Op     string  `yaml:"op"`
	ID     int     `yaml:"id"`
	Phone  int     `yaml:"phone"`
	Record int     `yaml:"record"`
	Onto   int     `yaml:"onto"`
	Lo     int     `yaml:"lo"`
	Hi     int     `yaml:"hi"`
	Amount float64 `yaml:"amount"`
	Stocks []int   `yaml:"stocks"`
	Expect *Expect `yaml:"expect"`
}

// Expect is the outcome a step is checked against. Nil fields are not checked;
// an empty Status means SUCCESS.
type Expect struct {
	Status string   `yaml:"status"`
	Value  *float64 `yaml:"value"`
	Member *bool    `yaml:"member"`
	Column *int     `yaml:"column"`
	Height *int     `yaml:"height"`
}

// Load reads and parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return sc, nil
}

// Parse validates data against the scenario schema and decodes it.
func Parse(data []byte) (*Scenario, error) {
	var doc any

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			msgs = append(msgs, verr.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidScenario, strings.Join(msgs, "; "))
	}

	var sc Scenario

	err = yaml.Unmarshal(data, &sc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	return &sc, nil
}
