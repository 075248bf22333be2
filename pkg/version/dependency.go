package version

// Dependency is a half-open version interval [Min, Max) on a named package.
// An empty Max means unbounded (matches any version >= Min).
type Dependency struct {
	Package string
	Min     Version
	Max     Version
	HasMax  bool
}

// Matches reports whether v falls in [Min, Max).
func (d Dependency) Matches(v Version) bool {
	if v.Less(d.Min) {
		return false
	}
	if d.HasMax && !v.Less(d.Max) {
		return false
	}
	return true
}

// Satisfied reports whether any of the installed versions satisfies d. This
// is the single implementation shared by the installed registry's
// missing-dependency check (pkg/installed) and the planner (pkg/planner), instead of each re-deriving
// its own interval check the way the teacher's MatchVersion is duplicated
// across pkg/index/package.go and pkg/model/artifact.go.
func (d Dependency) Satisfied(installed []Version) bool {
	for _, v := range installed {
		if d.Matches(v) {
			return true
		}
	}
	return false
}
