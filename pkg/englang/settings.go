package englang

import "github.com/antibyte/englang/pkg/configuration"

// ConfiguredOptions reads the resource limits from the [Interpreter]
// section. Streams are left unset.
func ConfiguredOptions() Options {
	return Options{
		MaxVariables:    configuration.GetInt("Interpreter", "max_variables", DefaultMaxVariables),
		MaxArrays:       configuration.GetInt("Interpreter", "max_arrays", DefaultMaxArrays),
		MaxArraySize:    configuration.GetInt("Interpreter", "max_array_size", DefaultMaxArraySize),
		StackSize:       configuration.GetInt("Interpreter", "stack_size", DefaultStackSize),
		MemorySize:      configuration.GetInt("Interpreter", "memory_size", DefaultMemorySize),
		MaxFunctions:    configuration.GetInt("Interpreter", "max_functions", DefaultMaxFunctions),
		MaxDepth:        configuration.GetInt("Interpreter", "max_depth", DefaultMaxDepth),
		MaxSteps:        int64(configuration.GetInt("Interpreter", "max_steps", 0)),
		LegacyForBlocks: !configuration.GetBool("Interpreter", "count_for_blocks", true),
	}
}
