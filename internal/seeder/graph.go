package seeder

import "github.com/Rana718/dbtools/internal/types"

// DependencyGraph orders seed tables so every parent is seeded before the
// tables whose relations point at it.
type DependencyGraph struct {
	names    []string
	children map[string][]string
	inDegree map[string]int
	order    []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		children: make(map[string][]string),
		inDegree: make(map[string]int),
	}
}

// AddTable registers a table. Edges are only drawn in BuildInsertionOrder,
// once every table is known, so relations may name tables added later.
func (g *DependencyGraph) AddTable(name string) {
	if _, ok := g.inDegree[name]; ok {
		return
	}
	g.names = append(g.names, name)
	g.inDegree[name] = 0
}

// AddRelation records that child holds a foreign key to parent. A parent
// that was never added contributes nothing.
func (g *DependencyGraph) AddRelation(child, parent string) {
	if _, ok := g.inDegree[parent]; !ok {
		return
	}
	if _, ok := g.inDegree[child]; !ok {
		return
	}
	g.children[parent] = append(g.children[parent], child)
	g.inDegree[child]++
}

// BuildInsertionOrder runs Kahn's algorithm. Ties are broken FIFO, starting
// from insertion order, so identical input always gives identical output.
func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	inDegree := make(map[string]int, len(g.inDegree))
	for name, d := range g.inDegree {
		inDegree[name] = d
	}

	queue := make([]string, 0, len(g.names))
	for _, name := range g.names {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	order := make([]string, 0, len(g.names))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, child := range g.children[current] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) < len(g.names) {
		var unresolved []string
		for _, name := range g.names {
			if inDegree[name] > 0 {
				unresolved = append(unresolved, name)
			}
		}
		return nil, &types.CycleError{Tables: unresolved}
	}

	g.order = order
	return order, nil
}

func (g *DependencyGraph) GetOrder() []string {
	return g.order
}

// ResolveOrder returns the seeding order for spec or a *types.CycleError.
func ResolveOrder(spec types.SeedSpec) ([]string, error) {
	g := NewDependencyGraph()
	for _, table := range spec.Tables {
		g.AddTable(table.Name)
	}
	for _, table := range spec.Tables {
		for _, rel := range table.Relations {
			g.AddRelation(table.Name, rel.Table)
		}
	}
	return g.BuildInsertionOrder()
}
