package migrator

import (
	"fmt"
	"sort"
)

// Base is the target version meaning "before the first step". Reverting to
// Base unwinds every applied step.
const Base = "base"

// Validate checks that every step has a version and name and that no two
// steps share a version token.
func Validate(steps []Step) error {
	seen := make(map[string][]string, len(steps))
	order := make([]string, 0, len(steps))
	for _, s := range steps {
		if s.Version == "" {
			return fmt.Errorf("migrator: step %q has no version", s.Name)
		}
		if s.Name == "" {
			return fmt.Errorf("migrator: step %s has no name", s.Version)
		}
		if s.Version == Base {
			return fmt.Errorf("migrator: step %s uses the reserved version %q", s.Name, Base)
		}
		if _, ok := seen[s.Version]; !ok {
			order = append(order, s.Version)
		}
		seen[s.Version] = append(seen[s.Version], s.Name)
	}
	for _, v := range order {
		if names := seen[v]; len(names) > 1 {
			return &DuplicateVersionError{Version: v, Names: names}
		}
	}
	return nil
}

// Sorted returns a copy of steps in ascending version order.
func Sorted(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	sort.SliceStable(out, func(i, j int) bool {
		return CompareVersions(out[i].Version, out[j].Version) < 0
	})
	return out
}

func sortApplied(applied []AppliedStep) []AppliedStep {
	out := make([]AppliedStep, len(applied))
	copy(out, applied)
	sort.SliceStable(out, func(i, j int) bool {
		return CompareVersions(out[i].Version, out[j].Version) < 0
	})
	return out
}

// head returns the highest applied version, or "" when nothing is applied.
func head(applied []AppliedStep) string {
	h := ""
	for _, a := range applied {
		if h == "" || CompareVersions(a.Version, h) > 0 {
			h = a.Version
		}
	}
	return h
}

// PlanForward returns every step newer than the last applied version, in
// ascending order. After a full apply the plan is empty.
func PlanForward(steps []Step, applied []AppliedStep) ([]Step, error) {
	if err := Validate(steps); err != nil {
		return nil, err
	}
	last := head(applied)
	var plan []Step
	for _, s := range Sorted(steps) {
		if last == "" || CompareVersions(s.Version, last) > 0 {
			plan = append(plan, s)
		}
	}
	return plan, nil
}

// PlanForwardTo is PlanForward truncated after target, which must name a
// step.
func PlanForwardTo(steps []Step, applied []AppliedStep, target string) ([]Step, error) {
	plan, err := PlanForward(steps, applied)
	if err != nil {
		return nil, err
	}
	if !hasVersion(steps, target) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, target)
	}
	var out []Step
	for _, s := range plan {
		if CompareVersions(s.Version, target) > 0 {
			break
		}
		out = append(out, s)
	}
	return out, nil
}

// PlanBackward returns the steps to revert, most recent first, stopping
// before target. An empty target reverts one step and Base reverts all.
// Any other target must be an applied version.
func PlanBackward(steps []Step, applied []AppliedStep, target string) ([]Step, error) {
	if err := Validate(steps); err != nil {
		return nil, err
	}
	stack := sortApplied(applied)

	var revert []AppliedStep
	switch target {
	case "":
		if len(stack) > 0 {
			revert = stack[len(stack)-1:]
		}
	case Base:
		revert = stack
	default:
		idx := -1
		for i, a := range stack {
			if a.Version == target {
				idx = i
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s is not applied", ErrUnknownTarget, target)
		}
		revert = stack[idx+1:]
	}

	byVersion := make(map[string]Step, len(steps))
	for _, s := range steps {
		byVersion[s.Version] = s
	}
	plan := make([]Step, 0, len(revert))
	for i := len(revert) - 1; i >= 0; i-- {
		s, ok := byVersion[revert[i].Version]
		if !ok {
			return nil, &MigrationRevertError{Version: revert[i].Version, Name: revert[i].Name, Err: ErrUnknownVersion}
		}
		plan = append(plan, s)
	}
	return plan, nil
}

func hasVersion(steps []Step, version string) bool {
	for _, s := range steps {
		if s.Version == version {
			return true
		}
	}
	return false
}
