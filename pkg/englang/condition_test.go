package englang

import "testing"

func TestEvalCondition(t *testing.T) {
	in := newTestInterpreter("")
	mustSet(t, in, "x", NumberValue(5))
	mustSet(t, in, "z", NumberValue(0))
	mustSet(t, in, "s", TextValue(""))
	mustSet(t, in, "t", TextValue("hi"))

	tests := []struct {
		cond string
		want bool
	}{
		{"x is greater than 3", true},
		{"x is not greater than 3", false},
		{"x is less than 3", false},
		{"x is greater than or equal to 5", true},
		{"x is less than or equal to 4", false},
		{"x is equal to 5", true},
		{"x is equal to 5.0", true},
		{`x is equal to "5"`, true},
		{"t is equal to hi", true},
		{`t is equal to "hi"`, true},
		{`t is not equal to "ho"`, true},
		{"s is empty", true},
		{"t is empty", false},
		{"x is empty", false},
		{"z is zero", true},
		{"t is zero", true},
		{"x is not zero", true},
		{"x is frobbed", false},
		{"x is not frobbed", true},
		{"x greater 3", false},
		{"x is", false},
		{"x is greater than", false},
		{"x is greater than or equal to", true},
		{"first name is equal to first name", true},
		{"y is less than x", true},
	}

	for _, tt := range tests {
		t.Run(tt.cond, func(t *testing.T) {
			words := Tokenize(tt.cond, DefaultMaxTokens, DefaultMaxTokenLength)
			if got := in.EvalCondition(words); got != tt.want {
				t.Errorf("EvalCondition(%q) = %v, want %v", tt.cond, got, tt.want)
			}
		})
	}
}
