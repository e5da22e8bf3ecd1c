package c

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/teranos/bindgen/bindgen"
	"github.com/teranos/bindgen/internal/util"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/syntax"
)

// Finalise wraps every header with includes and guards, orders the headers
// by their type dependencies and adds the aggregate <lib>.h. It consumes the
// backend: later calls fail. A dependency cycle produces no output.
func (l *LangC) Finalise() (bindgen.Outputs, error) {
	if l.finalised {
		return nil, bindgen.NewBug(bindgen.KindConsumed, syntax.Span{}, "output was already finalised")
	}
	l.finalised = true
	log := logger.ComponentLogger("bindgen.c")

	headers := util.SortedKeys(l.outputs)
	g := l.includeGraph(headers)

	sorted, err := topo.SortStabilized(g, byID)
	if err != nil {
		if cycles, ok := err.(topo.Unorderable); ok {
			return nil, cycleError(cycles, headers)
		}
		return nil, err
	}

	outputs := make(bindgen.Outputs, len(headers)+1)
	for _, h := range headers {
		outputs[h] = wrapHeader(l.outputs[h].String(), h)
	}

	var top strings.Builder
	if l.customCode != "" {
		top.WriteString(l.customCode + "\n")
	}
	for _, n := range sorted {
		top.WriteString("#include \"" + headers[n.ID()] + "\"\n")
	}
	outputs[l.libName+".h"] = wrapGuard(top.String(), l.libName+"_root")

	log.Infow("headers assembled",
		logger.FieldCount, len(headers),
		"types", len(l.decls),
		"edges", g.Edges().Len(),
		logger.FieldHeader, l.libName+".h")
	return outputs, nil
}

// includeGraph builds the header graph. Node IDs index headers and an edge
// runs from the header declaring a type to each header using it.
func (l *LangC) includeGraph(headers []string) *simple.DirectedGraph {
	log := logger.ComponentLogger("bindgen.c")
	g := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(headers))
	for i, h := range headers {
		ids[h] = int64(i)
		g.AddNode(simple.Node(i))
	}

	for _, consumer := range headers {
		for _, name := range util.SortedSet(l.deps[consumer]) {
			producer, ok := l.decls[name]
			if !ok || producer == consumer {
				continue
			}
			from, ok := ids[producer]
			if !ok {
				continue
			}
			to := ids[consumer]
			if g.HasEdgeFromTo(from, to) {
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
			log.Debugw("include edge",
				logger.FieldFrom, producer,
				logger.FieldTo, consumer,
				logger.FieldItem, name)
		}
	}
	return g
}

// byID keeps independent headers in lexicographic order.
func byID(nodes []graph.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
}

func cycleError(cycles topo.Unorderable, headers []string) error {
	groups := make([]string, 0, len(cycles))
	for _, component := range cycles {
		names := make([]string, 0, len(component))
		for _, n := range component {
			names = append(names, headers[n.ID()])
		}
		groups = append(groups, strings.Join(names, ", "))
	}
	return bindgen.NewError(bindgen.KindCycle, syntax.Span{},
		"headers depend on each other and cannot be ordered: %s", strings.Join(groups, "; "))
}
