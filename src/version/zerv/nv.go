package zerv

// NV is the single normalized-version tuple: a Schema and the Vars it
// resolves against. It is the value that flows through the render
// pipeline once a Draft has been given a resolved Schema.
type NV struct {
	Schema Schema
	Vars   Vars
}

// Clone returns a deep copy, since Schema/Vars clones.
func (z NV) Clone() NV {
	return NV{Schema: z.Schema.Clone(), Vars: z.Vars.Clone()}
}
