package builder

// DebugContext selects measures for verbose tracing. It is an explicit
// value passed into each build, so concurrent conversions cannot leak
// verbosity into each other.
type DebugContext struct {
	Enabled  bool
	Measures map[int]bool
}

// NewDebugContext traces the given measures, or every measure when none are
// given.
func NewDebugContext(measures []int) DebugContext {
	ctx := DebugContext{Enabled: true, Measures: make(map[int]bool)}
	for _, m := range measures {
		ctx.Measures[m] = true
	}
	return ctx
}

// ShouldTrace reports whether the measure is selected for tracing.
func (d DebugContext) ShouldTrace(measureNumber int) bool {
	if !d.Enabled {
		return false
	}
	if len(d.Measures) == 0 {
		return true
	}
	return d.Measures[measureNumber]
}
