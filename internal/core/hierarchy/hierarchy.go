package hierarchy

import (
	"sort"
	"strings"

	"github.com/momentum-md/momentum/internal/core/model"
)

// Build produces a deterministic depth-annotated pre-order flattening of the
// project tree for pickers and tables. Every input record appears exactly once
// in the output: unresolved parents demote a record to a root, and records
// stranded by cyclic parent data are swept in at depth 0 after the traversal.
func Build(projects []model.ProjectRecord) []model.FlattenedProject {
	items := make([]model.ProjectRecord, len(projects))
	copy(items, projects)
	sort.SliceStable(items, func(i, j int) bool {
		return compareProjectOrder(items[i], items[j])
	})

	byName := make(map[string]model.ProjectRecord, len(items))
	for _, p := range items {
		byName[normalizeKey(p.Name)] = p
	}

	children := make(map[string][]model.ProjectRecord)
	var roots []model.ProjectRecord

	for _, p := range items {
		parentKey := ""
		if p.ParentName != "" {
			parentKey = normalizeKey(p.ParentName)
		}

		if parentKey != "" {
			if _, ok := byName[parentKey]; ok {
				children[parentKey] = append(children[parentKey], p)
				continue
			}
		}
		roots = append(roots, p)
	}

	for key := range children {
		group := children[key]
		sort.SliceStable(group, func(i, j int) bool {
			return compareProjectOrder(group[i], group[j])
		})
		children[key] = group
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return compareProjectOrder(roots[i], roots[j])
	})

	flattened := make([]model.FlattenedProject, 0, len(items))
	visited := make(map[string]bool, len(items))

	var visit func(p model.ProjectRecord, depth int)
	visit = func(p model.ProjectRecord, depth int) {
		if visited[p.Path] {
			return
		}
		visited[p.Path] = true
		flattened = append(flattened, model.FlattenedProject{Project: p, Depth: depth})

		for _, child := range children[normalizeKey(p.Name)] {
			visit(child, depth+1)
		}
	}

	for _, root := range roots {
		visit(root, 0)
	}

	// Cyclic parent data can leave records unreached; emit them as roots so the
	// output always covers the full input set.
	for _, p := range items {
		if !visited[p.Path] {
			visit(p, 0)
		}
	}

	return flattened
}

// compareProjectOrder sorts by due date ascending (dated before undated),
// falling back to case-insensitive name comparison.
func compareProjectOrder(a, b model.ProjectRecord) bool {
	switch {
	case a.DueDate != "" && b.DueDate != "":
		if a.DueDate != b.DueDate {
			return a.DueDate < b.DueDate
		}
	case a.DueDate != "":
		return true
	case b.DueDate != "":
		return false
	}

	return strings.ToLower(a.Name) < strings.ToLower(b.Name)
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
