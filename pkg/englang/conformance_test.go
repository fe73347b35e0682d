package englang

import (
	"os"
	"testing"

	"gopkg.in/yaml.v3"
)

type conformanceCase struct {
	Name            string                 `yaml:"name"`
	Source          string                 `yaml:"source"`
	Input           string                 `yaml:"input"`
	Stdout          string                 `yaml:"stdout"`
	Stderr          string                 `yaml:"stderr"`
	Vars            map[string]interface{} `yaml:"vars"`
	LegacyForBlocks bool                   `yaml:"legacy_for_blocks"`
}

func loadConformanceCases(t *testing.T) []conformanceCase {
	t.Helper()
	f, err := os.Open("testdata/conformance.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var doc struct {
		Cases []conformanceCase `yaml:"cases"`
	}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		t.Fatalf("decode conformance.yaml: %v", err)
	}
	return doc.Cases
}

func TestConformance(t *testing.T) {
	cases := loadConformanceCases(t)
	if len(cases) == 0 {
		t.Fatal("no conformance cases")
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			r := runScript(t, tc.Source, tc.Input, Options{LegacyForBlocks: tc.LegacyForBlocks})
			if r.err != nil {
				t.Fatalf("run failed: %v", r.err)
			}
			if r.stdout != tc.Stdout {
				t.Errorf("stdout = %q, want %q", r.stdout, tc.Stdout)
			}
			if r.stderr != tc.Stderr {
				t.Errorf("stderr = %q, want %q", r.stderr, tc.Stderr)
			}
			for name, want := range tc.Vars {
				got, ok := r.in.Variable(name)
				if !ok {
					t.Errorf("variable %q not set", name)
					continue
				}
				if !valueMatches(got, want) {
					t.Errorf("%s = %#v, want %#v", name, got, want)
				}
			}
		})
	}
}

// valueMatches compares an interpreter value with a decoded YAML scalar.
func valueMatches(got Value, want interface{}) bool {
	switch w := want.(type) {
	case string:
		return got.IsText && got.StrValue == w
	case int:
		return !got.IsText && got.NumValue == float64(w)
	case float64:
		return !got.IsText && got.NumValue == w
	}
	return false
}
