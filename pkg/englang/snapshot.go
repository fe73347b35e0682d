package englang

import (
	"io"

	"gopkg.in/yaml.v3"
)

// Snapshot is a point-in-time copy of interpreter state.
type Snapshot struct {
	Variables map[string]interface{}   `yaml:"variables"`
	Arrays    map[string][]interface{} `yaml:"arrays,omitempty"`
	Stack     []float64                `yaml:"stack,omitempty"`
	Memory    map[int]float64          `yaml:"memory,omitempty"`
	Functions []Function               `yaml:"functions,omitempty"`
	Stopped   bool                     `yaml:"stopped,omitempty"`
	Steps     int64                    `yaml:"steps"`
}

// yamlValue renders numbers as YAML numbers and text as YAML strings.
func yamlValue(v Value) interface{} {
	if v.IsText {
		return v.StrValue
	}
	return v.NumValue
}

// Snapshot copies the current state. Only non-zero memory cells are
// included.
func (in *Interpreter) Snapshot() Snapshot {
	s := Snapshot{
		Variables: make(map[string]interface{}, in.vars.Len()),
		Stopped:   in.stopped,
		Steps:     in.steps,
	}
	for name, v := range in.vars.values {
		s.Variables[name] = yamlValue(v)
	}
	if len(in.arrays.arrays) > 0 {
		s.Arrays = make(map[string][]interface{}, len(in.arrays.arrays))
		for name, a := range in.arrays.arrays {
			elems := make([]interface{}, len(a.elements))
			for i, v := range a.elements {
				elems[i] = yamlValue(v)
			}
			s.Arrays[name] = elems
		}
	}
	if len(in.stack.items) > 0 {
		s.Stack = append([]float64(nil), in.stack.items...)
	}
	for addr, f := range in.memory.cells {
		if f != 0 {
			if s.Memory == nil {
				s.Memory = make(map[int]float64)
			}
			s.Memory[addr] = f
		}
	}
	if len(in.funcs.funcs) > 0 {
		s.Functions = append([]Function(nil), in.funcs.funcs...)
	}
	return s
}

// WriteSnapshot encodes the current state as YAML.
func (in *Interpreter) WriteSnapshot(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(in.Snapshot()); err != nil {
		return err
	}
	return enc.Close()
}
