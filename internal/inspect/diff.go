package inspect

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Diff lists structural differences between two snapshots, one per line,
// sorted. An empty result means the schemas are identical. Column order is
// ignored.
func Diff(before, after *Snapshot) []string {
	var out []string
	add := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	for _, name := range union(keys(before.Tables), keys(after.Tables)) {
		b, inBefore := before.Tables[name]
		a, inAfter := after.Tables[name]
		switch {
		case !inAfter:
			add("table %s removed", name)
			continue
		case !inBefore:
			add("table %s added", name)
			continue
		}

		for _, col := range union(keys(b.Columns), keys(a.Columns)) {
			bc, inB := b.Columns[col]
			ac, inA := a.Columns[col]
			switch {
			case !inA:
				add("column %s.%s removed", name, col)
			case !inB:
				add("column %s.%s added", name, col)
			case bc != ac:
				add("column %s.%s changed: %s -> %s", name, col, describeColumn(bc), describeColumn(ac))
			}
		}

		for _, con := range union(keys(b.Constraints), keys(a.Constraints)) {
			bc, inB := b.Constraints[con]
			ac, inA := a.Constraints[con]
			switch {
			case !inA:
				add("constraint %s on %s removed", con, name)
			case !inB:
				add("constraint %s on %s added", con, name)
			case bc != ac:
				add("constraint %s on %s changed: %s -> %s", con, name, bc.Definition, ac.Definition)
			}
		}

		for _, idx := range union(keys(b.Indexes), keys(a.Indexes)) {
			bd, inB := b.Indexes[idx]
			ad, inA := a.Indexes[idx]
			switch {
			case !inA:
				add("index %s removed", idx)
			case !inB:
				add("index %s added", idx)
			case bd != ad:
				add("index %s changed: %s -> %s", idx, bd, ad)
			}
		}
	}

	for _, name := range union(keys(before.Enums), keys(after.Enums)) {
		b, inB := before.Enums[name]
		a, inA := after.Enums[name]
		switch {
		case !inA:
			add("type %s removed", name)
		case !inB:
			add("type %s added", name)
		case !slices.Equal(a, b):
			add("type %s labels changed: %s -> %s", name, strings.Join(b, ","), strings.Join(a, ","))
		}
	}

	sort.Strings(out)
	return out
}

func describeColumn(c Column) string {
	s := c.Type
	if c.NotNull {
		s += " NOT NULL"
	}
	if c.Default != "" {
		s += " DEFAULT " + c.Default
	}
	return s
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(a, b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
