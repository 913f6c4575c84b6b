package layout

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/plant-visualizer/backend/internal/engine"
)

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("layout.schema.json", layoutSchema)
	})
	return schema, schemaErr
}

// Load parses, schema-validates, and semantically checks a layout
// document. Semantic errors name the offending entry by index so layout
// authors can find it.
func Load(data []byte) (*Document, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("layout schema: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("layout is not valid JSON: %w", err)
	}
	if err := sch.Validate(raw); err != nil {
		return nil, fmt.Errorf("layout failed schema validation: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("layout decode: %w", err)
	}
	if err := check(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// check enforces the rules the schema cannot express.
func check(doc *Document) error {
	maxStep := doc.MaxStep()
	if len(doc.Captions) < maxStep {
		return fmt.Errorf("layout %q: %d captions for %d steps", doc.Name, len(doc.Captions), maxStep)
	}
	names := map[string]bool{}
	for i, u := range doc.Units {
		if !engine.KnownCategory(engine.Category(u.Category)) {
			return fmt.Errorf("units[%d] (%s): unknown category %q", i, u.Name, u.Category)
		}
		if names[u.Name] {
			return fmt.Errorf("units[%d]: duplicate unit name %q", i, u.Name)
		}
		names[u.Name] = true
	}
	// steps must form a contiguous 1..max range so the guided tour never
	// shows an empty step
	if maxStep > 0 {
		used := make([]bool, maxStep+1)
		for _, u := range doc.Units {
			used[u.Step] = true
		}
		for _, p := range doc.Pipes {
			used[p.Step] = true
		}
		for _, m := range doc.Markers {
			used[m.Step] = true
		}
		for s := 1; s <= maxStep; s++ {
			if !used[s] {
				return fmt.Errorf("layout %q: step %d reveals nothing", doc.Name, s)
			}
		}
	}
	return nil
}
