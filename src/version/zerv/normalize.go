package zerv

// Normalize applies the emission rules: Epoch(0) drops to None,
// a pre-release number of 0 is kept distinct from "no number", and custom
// JSON values pass through verbatim. It returns a new Vars; the input is
// never mutated.
func Normalize(v Vars) Vars {
	out := v.Clone()
	if out.Epoch != nil && *out.Epoch == 0 {
		out.Epoch = nil
	}
	return out
}
