// Package depgraph builds the dependency graph between equations and the
// variables they read and write. The graph is bipartite: each equation has
// in-edges from every distinct variable referenced by its expression and one
// out-edge to its target. Variables and equations are referenced by integer
// id within a graph-owned arena, so cyclic equation systems never create
// reference cycles in memory.
//
// The graph is rebuilt per solve attempt; it is cheap and never persisted.
package depgraph

import (
	"github.com/quanta-xyz/go-quanta/equation"
	"github.com/quanta-xyz/go-quanta/variable"
)

// Graph is the dependency graph over one solve attempt's equation set.
type Graph struct {
	vars     []*variable.Variable
	eqs      []*equation.Equation
	varIndex map[*variable.Variable]int

	reads   [][]int // equation id -> variable ids read
	writes  []int   // equation id -> target variable id
	writer  map[int]int // variable id -> equation id targeting it
	selfRef []bool  // equation id -> target appears in own expression
}

// Build constructs the graph for a set of equations, interning every
// variable either side references. Two equations targeting the same
// variable are a conflict: the duplicate is reported, never silently
// overwritten.
func Build(eqs []*equation.Equation) (*Graph, error) {
	g := &Graph{
		varIndex: make(map[*variable.Variable]int),
		writer:   make(map[int]int),
	}
	for _, eq := range eqs {
		eqID := len(g.eqs)
		g.eqs = append(g.eqs, eq)

		targetID := g.intern(eq.Target)
		if firstEq, dup := g.writer[targetID]; dup {
			return nil, &DuplicateTargetError{
				Variable: eq.Target.Name(),
				First:    g.eqs[firstEq].Name,
				Second:   eq.Name,
			}
		}
		g.writer[targetID] = eqID
		g.writes = append(g.writes, targetID)

		var reads []int
		self := false
		for _, v := range eq.Vars() {
			id := g.intern(v)
			if id == targetID {
				self = true
			}
			reads = append(reads, id)
		}
		g.reads = append(g.reads, reads)
		g.selfRef = append(g.selfRef, self)
	}
	return g, nil
}

func (g *Graph) intern(v *variable.Variable) int {
	if id, ok := g.varIndex[v]; ok {
		return id
	}
	id := len(g.vars)
	g.vars = append(g.vars, v)
	g.varIndex[v] = id
	return id
}

// VarCount returns the number of distinct variables in the graph.
func (g *Graph) VarCount() int { return len(g.vars) }

// EqCount returns the number of equations.
func (g *Graph) EqCount() int { return len(g.eqs) }

// Var returns the variable with the given id.
func (g *Graph) Var(id int) *variable.Variable { return g.vars[id] }

// Eq returns the equation with the given id.
func (g *Graph) Eq(id int) *equation.Equation { return g.eqs[id] }

// Reads returns the variable ids read by an equation.
func (g *Graph) Reads(eqID int) []int { return g.reads[eqID] }

// Target returns the variable id written by an equation.
func (g *Graph) Target(eqID int) int { return g.writes[eqID] }

// Writer returns the equation id targeting a variable, if any.
func (g *Graph) Writer(varID int) (int, bool) {
	eqID, ok := g.writer[varID]
	return eqID, ok
}

// SelfReferential reports whether an equation's target appears among its own
// reads. Such equations require simultaneous solving.
func (g *Graph) SelfReferential(eqID int) bool { return g.selfRef[eqID] }

// Components groups equations into connected components, where two
// equations are connected when they share a variable for which free returns
// true. Passing a predicate that holds for still-unknown variables yields
// the coupled subsystems the solver must treat together; known variables do
// not couple anything, their values are plain inputs.
func (g *Graph) Components(free func(v *variable.Variable) bool) [][]int {
	parent := make([]int, len(g.eqs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	// Join equations through shared free variables.
	touching := make(map[int][]int) // variable id -> equation ids
	for eqID := range g.eqs {
		ids := append([]int{g.writes[eqID]}, g.reads[eqID]...)
		for _, varID := range ids {
			if !free(g.vars[varID]) {
				continue
			}
			touching[varID] = append(touching[varID], eqID)
		}
	}
	for _, eqIDs := range touching {
		for i := 1; i < len(eqIDs); i++ {
			union(eqIDs[0], eqIDs[i])
		}
	}

	grouped := make(map[int][]int)
	for eqID := range g.eqs {
		root := find(eqID)
		grouped[root] = append(grouped[root], eqID)
	}
	// Deterministic order: components sorted by their smallest equation id.
	out := make([][]int, 0, len(grouped))
	for eqID := range g.eqs {
		if comp, ok := grouped[eqID]; ok && comp[0] == eqID {
			out = append(out, comp)
		}
	}
	return out
}

// HasCycle reports whether the given component contains a dependency cycle
// among its free variables: equation -> target -> any equation reading that
// target. Acyclic components can always be solved by substitution in some
// order; cyclic ones cannot.
func (g *Graph) HasCycle(component []int, free func(v *variable.Variable) bool) bool {
	inComp := make(map[int]bool, len(component))
	for _, eqID := range component {
		if g.selfRef[eqID] {
			return true
		}
		inComp[eqID] = true
	}

	// successors: eq a -> eq b when b reads a's target and the target is free.
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[int]int, len(component))
	var visit func(int) bool
	visit = func(eqID int) bool {
		color[eqID] = gray
		targetID := g.writes[eqID]
		if free(g.vars[targetID]) {
			for _, next := range component {
				if !readsVar(g.reads[next], targetID) {
					continue
				}
				switch color[next] {
				case gray:
					return true
				case white:
					if visit(next) {
						return true
					}
				}
			}
		}
		color[eqID] = black
		return false
	}
	for _, eqID := range component {
		if color[eqID] == white && visit(eqID) {
			return true
		}
	}
	return false
}

func readsVar(reads []int, varID int) bool {
	for _, id := range reads {
		if id == varID {
			return true
		}
	}
	return false
}
