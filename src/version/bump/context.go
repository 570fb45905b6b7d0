package bump

import (
	"github.com/zervdev/zerv/src/version/zerv"
	"github.com/zervdev/zerv/src/zerr"
)

// ContextOverrides carries the explicit context flags a caller may
// layer over VCS-derived Vars. Zero
// values mean "not supplied" except the three boolean flags, which are
// tri-stated against each other below.
type ContextOverrides struct {
	DirtyFlag, NoDirtyFlag, CleanFlag bool

	DistanceGiven bool
	Distance      uint64

	BumpedBranch     *string
	BumpedCommitHash *string
	BumpedTimestamp  *int64

	LastBranch     *string
	LastCommitHash *string
	LastTimestamp  *int64

	Custom map[string]any
}

// MergeContext layers ov over base (typically VCS-derived Vars).
// --clean is a macro for "distance 0, not dirty" and conflicts
// with any of --dirty/--no-dirty/--distance being given alongside it;
// --dirty and --no-dirty are mutually exclusive.
func MergeContext(base zerv.Vars, ov ContextOverrides) (zerv.Vars, error) {
	if ov.DirtyFlag && ov.NoDirtyFlag {
		return zerv.Vars{}, zerr.New(zerr.ConflictingOpts, "--dirty and --no-dirty are mutually exclusive")
	}
	if ov.CleanFlag && (ov.DirtyFlag || ov.NoDirtyFlag || ov.DistanceGiven) {
		return zerv.Vars{}, zerr.New(zerr.ConflictingOpts, "--clean conflicts with --dirty/--no-dirty/--distance")
	}

	out := base.Clone()

	switch {
	case ov.CleanFlag:
		dirty := false
		out.Dirty = &dirty
		out.Distance = u64p(0)
	case ov.DirtyFlag:
		dirty := true
		out.Dirty = &dirty
	case ov.NoDirtyFlag:
		dirty := false
		out.Dirty = &dirty
	}

	if ov.DistanceGiven {
		out.Distance = u64p(ov.Distance)
	}
	if ov.BumpedBranch != nil {
		out.BumpedBranch = ov.BumpedBranch
	}
	if ov.BumpedCommitHash != nil {
		out.BumpedCommitHash = ov.BumpedCommitHash
	}
	if ov.BumpedTimestamp != nil {
		out.BumpedTimestamp = ov.BumpedTimestamp
	}
	if ov.LastBranch != nil {
		out.LastBranch = ov.LastBranch
	}
	if ov.LastCommitHash != nil {
		out.LastCommitHash = ov.LastCommitHash
	}
	if ov.LastTimestamp != nil {
		out.LastTimestamp = ov.LastTimestamp
	}
	if ov.Custom != nil {
		if out.Custom == nil {
			out.Custom = make(map[string]any, len(ov.Custom))
		}
		for k, v := range ov.Custom {
			out.Custom[k] = v
		}
	}

	return out, nil
}
