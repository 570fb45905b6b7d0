package zerv

// Schema is the three ordered component sequences plus a precedence
// order. Schema values are immutable from the outside: every
// mutation helper validates a tentative copy and only returns it on
// success, so a failed mutation never corrupts the caller's Schema
// (validate-then-commit).
type Schema struct {
	Core      []Component
	ExtraCore []Component
	Build     []Component
	Order     PrecedenceOrder
}

// Clone returns a deep-enough copy (component slices are value types, so a
// slice copy suffices) for callers that want to mutate independently.
func (s Schema) Clone() Schema {
	return Schema{
		Core:      append([]Component(nil), s.Core...),
		ExtraCore: append([]Component(nil), s.ExtraCore...),
		Build:     append([]Component(nil), s.Build...),
		Order:     s.Order,
	}
}

// section identifies one of the three schema sections.
type section int

const (
	sectionCore section = iota
	sectionExtraCore
	sectionBuild
)

func (s Schema) slice(sec section) []Component {
	switch sec {
	case sectionCore:
		return s.Core
	case sectionExtraCore:
		return s.ExtraCore
	default:
		return s.Build
	}
}

func (s Schema) withSlice(sec section, comps []Component) Schema {
	out := s.Clone()
	switch sec {
	case sectionCore:
		out.Core = comps
	case sectionExtraCore:
		out.ExtraCore = comps
	case sectionBuild:
		out.Build = comps
	}
	return out
}

// SetCore returns a new Schema with Core replaced by comps, validated
// before being returned.
func (s Schema) SetCore(comps []Component) (Schema, error) {
	return s.trySet(sectionCore, comps)
}

// SetExtraCore returns a new Schema with ExtraCore replaced by comps,
// validated before being returned.
func (s Schema) SetExtraCore(comps []Component) (Schema, error) {
	return s.trySet(sectionExtraCore, comps)
}

// SetBuild returns a new Schema with Build replaced by comps, validated
// before being returned.
func (s Schema) SetBuild(comps []Component) (Schema, error) {
	return s.trySet(sectionBuild, comps)
}

func (s Schema) trySet(sec section, comps []Component) (Schema, error) {
	tentative := s.withSlice(sec, comps)
	if err := Validate(tentative); err != nil {
		return s, err
	}
	return tentative, nil
}

// PushCore appends c to Core, validating the result.
func (s Schema) PushCore(c Component) (Schema, error) {
	return s.SetCore(append(append([]Component(nil), s.Core...), c))
}

// PushExtraCore appends c to ExtraCore, validating the result.
func (s Schema) PushExtraCore(c Component) (Schema, error) {
	return s.SetExtraCore(append(append([]Component(nil), s.ExtraCore...), c))
}

// PushBuild appends c to Build, validating the result.
func (s Schema) PushBuild(c Component) (Schema, error) {
	return s.SetBuild(append(append([]Component(nil), s.Build...), c))
}
