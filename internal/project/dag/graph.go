package dag

import (
	"fmt"
	"slices"
	"strings"

	"liveweave/internal/diag"
	"liveweave/internal/live"
	"liveweave/internal/source"
)

type Graph struct {
	Edges   [][]ModuleID // Edges[dep] = модули, импортирующие dep
	Indeg   []int        // число присутствующих зависимостей модуля
	Present []bool       // модуль зарегистрирован, а не только импортирован
}

type Import struct {
	Module live.CrateModule
	Span   source.Span
}

type ModuleNode struct {
	Module   live.CrateModule
	Imports  []Import
	Reporter diag.Reporter
}

type ModuleSlot struct {
	Node    ModuleNode
	Present bool
}

// BuildGraph строит граф "зависимость -> импортёр", так что Kahn выдаёт
// зависимости раньше модулей, которые их используют. Импорт самого себя
// репортится и в граф не попадает; импорт незарегистрированного модуля
// оставляет ребро без вклада в Indeg.
func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]ModuleSlot, nodeCount)
	for i, cm := range idx.IDToName {
		slots[i].Node.Module = cm
	}
	for _, node := range nodes {
		id, ok := idx.NameToID[node.Module]
		if !ok || slots[int(id)].Present {
			continue
		}
		slots[int(id)] = ModuleSlot{Node: node, Present: true}
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Node.Imports))
		for _, imp := range slot.Node.Imports {
			toID, ok := idx.NameToID[imp.Module]
			if !ok {
				continue
			}
			if ModuleID(from) == toID { // #nosec G115 -- from < len(IDToName)
				if slot.Node.Reporter != nil {
					slot.Node.Reporter.Report(
						diag.ProjSelfImport,
						diag.SevError,
						imp.Span,
						"module imports itself",
						nil,
					)
				}
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}
			g.Edges[int(toID)] = append(g.Edges[int(toID)], ModuleID(from)) // #nosec G115 -- from < len(IDToName)
			if g.Present[int(toID)] {
				g.Indeg[from]++
			}
		}
	}
	for i := range g.Edges {
		slices.Sort(g.Edges[i])
	}
	return g, slots
}

// ReportCycles репортит каждый модуль цикла в месте импорта следующего
// модуля того же цикла.
func ReportCycles(idx ModuleIndex, slots []ModuleSlot, cycles [][]ModuleID, format func(live.CrateModule) string) {
	for _, cycle := range cycles {
		if len(cycle) < 2 {
			continue
		}
		members := make(map[live.CrateModule]struct{}, len(cycle))
		names := make([]string, 0, len(cycle)+1)
		for _, id := range cycle {
			members[idx.IDToName[int(id)]] = struct{}{}
			names = append(names, format(idx.IDToName[int(id)]))
		}
		names = append(names, names[0])
		summary := strings.Join(names, " -> ")

		for _, id := range cycle {
			slot := slots[int(id)]
			if !slot.Present || slot.Node.Reporter == nil {
				continue
			}
			for _, imp := range slot.Node.Imports {
				if _, in := members[imp.Module]; !in || imp.Module == slot.Node.Module {
					continue
				}
				msg := fmt.Sprintf("module %s participates in an import cycle: %s", format(slot.Node.Module), summary)
				slot.Node.Reporter.Report(diag.ProjImportCycle, diag.SevError, imp.Span, msg, nil)
				break
			}
		}
	}
}
