package englang

import (
	"bytes"
	"context"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSnapshot(t *testing.T) {
	in := newTestInterpreter("")
	err := in.Run(context.Background(), ParseProgram("snap", `define f with a as
print a
end define
set x to 1.5
set s to "text"
push 3 onto stack
store 8 at address 2
append "v" to array list
append 4 to array list
stop
`))
	if err != nil {
		t.Fatal(err)
	}

	snap := in.Snapshot()
	if snap.Variables["x"] != 1.5 || snap.Variables["s"] != "text" {
		t.Errorf("variables = %v", snap.Variables)
	}
	if len(snap.Stack) != 1 || snap.Stack[0] != 3 {
		t.Errorf("stack = %v", snap.Stack)
	}
	if len(snap.Memory) != 1 || snap.Memory[2] != 8 {
		t.Errorf("memory = %v", snap.Memory)
	}
	if list := snap.Arrays["list"]; len(list) != 2 || list[0] != "v" || list[1] != 4.0 {
		t.Errorf("arrays = %v", snap.Arrays)
	}
	if len(snap.Functions) != 1 || snap.Functions[0].Name != "f" || snap.Functions[0].Params[0] != "a" {
		t.Errorf("functions = %+v", snap.Functions)
	}
	if !snap.Stopped {
		t.Error("snapshot does not record stop")
	}

	var buf bytes.Buffer
	if err := in.WriteSnapshot(&buf); err != nil {
		t.Fatal(err)
	}
	var decoded Snapshot
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("snapshot is not valid YAML: %v\n%s", err, buf.String())
	}
	if decoded.Variables["s"] != "text" || decoded.Memory[2] != 8 {
		t.Errorf("decoded snapshot = %+v", decoded)
	}
}
