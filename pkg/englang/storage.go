package englang

// Variables is the single global scalar namespace.
type Variables struct {
	values map[string]Value
	limit  int
}

func newVariables(limit int) *Variables {
	return &Variables{values: make(map[string]Value), limit: limit}
}

// Get returns a copy of the named value.
func (v *Variables) Get(name string) (Value, bool) {
	val, ok := v.values[name]
	return val, ok
}

// Set writes name, creating it if needed. Creating a name past the table
// capacity returns ErrTooManyVariables.
func (v *Variables) Set(name string, val Value) error {
	if _, ok := v.values[name]; !ok && len(v.values) >= v.limit {
		return ErrTooManyVariables
	}
	v.values[name] = val
	return nil
}

// Len returns the number of variables.
func (v *Variables) Len() int {
	return len(v.values)
}

// Array is a resizable sequence of values with a fixed element capacity.
type Array struct {
	elements []Value
	limit    int
}

// Append adds val at the end; past capacity it does nothing.
func (a *Array) Append(val Value) {
	if len(a.elements) < a.limit {
		a.elements = append(a.elements, val)
	}
}

// Get returns element i, or Number(0) when i is out of range.
func (a *Array) Get(i int) Value {
	if i < 0 || i >= len(a.elements) {
		return Value{}
	}
	return a.elements[i]
}

// Set writes element i, growing the logical size to i+1 if needed. Indices
// outside [0, capacity) are ignored.
func (a *Array) Set(i int, val Value) {
	if i < 0 || i >= a.limit {
		return
	}
	for len(a.elements) <= i {
		a.elements = append(a.elements, Value{})
	}
	a.elements[i] = val
}

// Len returns the logical size.
func (a *Array) Len() int {
	return len(a.elements)
}

// Arrays is the array namespace, separate from Variables.
type Arrays struct {
	arrays    map[string]*Array
	limit     int
	elemLimit int
}

func newArrays(limit, elemLimit int) *Arrays {
	return &Arrays{arrays: make(map[string]*Array), limit: limit, elemLimit: elemLimit}
}

// Find returns the named array if it exists.
func (as *Arrays) Find(name string) (*Array, bool) {
	a, ok := as.arrays[name]
	return a, ok
}

// GetOrCreate returns the named array, creating an empty one if needed.
func (as *Arrays) GetOrCreate(name string) (*Array, error) {
	if a, ok := as.arrays[name]; ok {
		return a, nil
	}
	if len(as.arrays) >= as.limit {
		return nil, ErrTooManyArrays
	}
	a := &Array{limit: as.elemLimit}
	as.arrays[name] = a
	return a, nil
}

// Stack is the global numeric LIFO.
type Stack struct {
	items []float64
	limit int
}

// Push adds f; at capacity it does nothing.
func (s *Stack) Push(f float64) {
	if len(s.items) < s.limit {
		s.items = append(s.items, f)
	}
}

// Pop removes the top value; an empty stack yields 0.
func (s *Stack) Pop() float64 {
	if len(s.items) == 0 {
		return 0
	}
	f := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return f
}

// Len returns the number of stacked values.
func (s *Stack) Len() int {
	return len(s.items)
}

// Memory is the flat numeric store addressed by integer.
type Memory struct {
	cells []float64
}

// Store writes f at addr; out-of-range addresses are ignored.
func (m *Memory) Store(addr int, f float64) {
	if addr >= 0 && addr < len(m.cells) {
		m.cells[addr] = f
	}
}

// Load reads addr; out-of-range addresses read as 0.
func (m *Memory) Load(addr int) float64 {
	if addr >= 0 && addr < len(m.cells) {
		return m.cells[addr]
	}
	return 0
}
