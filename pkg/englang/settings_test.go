package englang

import "testing"

func TestConfiguredOptionsFromEnvironment(t *testing.T) {
	t.Setenv("ENGLANG_INTERPRETER_MAX_DEPTH", "25")
	t.Setenv("ENGLANG_INTERPRETER_COUNT_FOR_BLOCKS", "false")
	t.Setenv("ENGLANG_INTERPRETER_MAX_STEPS", "900")

	opts := ConfiguredOptions()
	if opts.MaxDepth != 25 {
		t.Errorf("MaxDepth = %d, want 25", opts.MaxDepth)
	}
	if !opts.LegacyForBlocks {
		t.Error("count_for_blocks=false should select legacy for blocks")
	}
	if opts.MaxSteps != 900 {
		t.Errorf("MaxSteps = %d, want 900", opts.MaxSteps)
	}
	if opts.StackSize != DefaultStackSize {
		t.Errorf("StackSize = %d, want default", opts.StackSize)
	}
}
