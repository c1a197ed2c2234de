package validator

import (
	"strings"

	"github.com/ButlerSebastian/adl-sub000/internal/ast"
	"github.com/ButlerSebastian/adl-sub000/internal/diagnostic"
	"github.com/ButlerSebastian/adl-sub000/internal/location"
)

// checkWorkflow validates a WorkflowDef's node/edge graph: duplicate node
// ids, dangling edge endpoints, directed cycles (checked on both the graph
// and its reversal), and the trigger/output/condition structural rules.
func (c *checker) checkWorkflow(w *ast.WorkflowDef) {
	seen := make(map[string]bool, len(w.AllNodes))
	for _, n := range w.AllNodes {
		if seen[n.ID] {
			c.diags.Add(diagnostic.New(diagnostic.CodeDuplicateNodeID, diagnostic.CategorySemantic, n.Loc(),
				"node id %q is already declared in this workflow", n.ID))
			continue
		}
		seen[n.ID] = true
	}

	incoming := make(map[string]int, len(w.Nodes))
	outgoing := make(map[string]int, len(w.Nodes))
	forward := make(map[string][]string, len(w.Nodes))
	for _, e := range w.Edges {
		_, srcOK := w.Nodes[e.Source]
		_, tgtOK := w.Nodes[e.Target]
		if !srcOK {
			c.diags.Add(diagnostic.New(diagnostic.CodeInvalidEdgeReference, diagnostic.CategorySemantic, e.Loc(),
				"edge %q references unknown source node %q", e.EdgeID, e.Source))
		}
		if !tgtOK {
			c.diags.Add(diagnostic.New(diagnostic.CodeInvalidEdgeReference, diagnostic.CategorySemantic, e.Loc(),
				"edge %q references unknown target node %q", e.EdgeID, e.Target))
		}
		if !srcOK || !tgtOK {
			continue
		}
		outgoing[e.Source]++
		incoming[e.Target]++
		forward[e.Source] = append(forward[e.Source], e.Target)
	}

	for _, id := range w.NodeOrder {
		n := w.Nodes[id]
		switch n.Type {
		case ast.NodeTrigger:
			if incoming[id] > 0 {
				c.diags.Add(diagnostic.New(diagnostic.CodeTriggerHasIncoming, diagnostic.CategorySemantic, n.Loc(),
					"trigger node %q has an incoming edge", id))
			}
		case ast.NodeOutput:
			if outgoing[id] > 0 {
				c.diags.Add(diagnostic.New(diagnostic.CodeOutputHasOutgoing, diagnostic.CategorySemantic, n.Loc(),
					"output node %q has an outgoing edge", id))
			}
		case ast.NodeCondition:
			if outgoing[id] < 2 {
				c.diags.Add(diagnostic.New(diagnostic.CodeConditionNeedsBranch, diagnostic.CategorySemantic, n.Loc(),
					"condition node %q has fewer than two outgoing edges", id))
			}
		}
	}

	c.checkCycle(forward, w.NodeOrder, w.Nodes, false)
	c.checkCycle(reverseGraph(forward, w.NodeOrder), w.NodeOrder, w.Nodes, true)
}

func reverseGraph(forward map[string][]string, order []string) map[string][]string {
	rev := make(map[string][]string, len(order))
	for _, src := range order {
		for _, tgt := range forward[src] {
			rev[tgt] = append(rev[tgt], src)
		}
	}
	return rev
}

// checkCycle runs DFS with an explicit recursion stack over graph, reporting
// CYCLE_DETECTED with the path from the cycle's first node through the
// repeating edge, on first encounter of a back-edge.
func (c *checker) checkCycle(graph map[string][]string, order []string, nodes map[string]*ast.WorkflowNode, reversed bool) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(order))
	var path []string
	var reported bool

	var visit func(id string)
	visit = func(id string) {
		if reported {
			return
		}
		color[id] = gray
		path = append(path, id)
		for _, next := range graph[id] {
			if reported {
				return
			}
			switch color[next] {
			case white:
				visit(next)
			case gray:
				start := 0
				for i, p := range path {
					if p == next {
						start = i
						break
					}
				}
				cyclePath := append(append([]string{}, path[start:]...), next)
				c.reportCycle(cyclePath, nodes, reversed)
				reported = true
				return
			}
		}
		path = path[:len(path)-1]
		color[id] = black
	}

	for _, id := range order {
		if reported {
			return
		}
		if color[id] == white {
			visit(id)
		}
	}
}

func (c *checker) reportCycle(path []string, nodes map[string]*ast.WorkflowNode, reversed bool) {
	if len(path) == 0 {
		return
	}
	suffix := ""
	if reversed {
		suffix = " (detected on the reverse-oriented graph)"
	}
	loc := location.Zero
	if n, ok := nodes[path[0]]; ok {
		loc = n.Loc()
	}
	c.diags.Add(diagnostic.New(diagnostic.CodeCycleDetected, diagnostic.CategorySemantic, loc,
		"workflow graph has a cycle: %s%s", strings.Join(path, " -> "), suffix))
}
