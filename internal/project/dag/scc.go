package dag

import "slices"

// StronglyConnected возвращает компоненты сильной связности из двух и более
// присутствующих модулей (Тарьян, итеративно). Члены компоненты и сами
// компоненты упорядочены по ID.
func StronglyConnected(g Graph) [][]ModuleID {
	n := len(g.Edges)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var (
		stack []int
		out   [][]ModuleID
		next  int
	)

	type frame struct{ v, edge int }
	for root := range n {
		if !g.Present[root] || index[root] >= 0 {
			continue
		}
		work := []frame{{v: root}}
		index[root], low[root] = next, next
		next++
		stack = append(stack, root)
		onStack[root] = true

		for len(work) > 0 {
			top := &work[len(work)-1]
			v := top.v
			if top.edge < len(g.Edges[v]) {
				w := int(g.Edges[v][top.edge])
				top.edge++
				if !g.Present[w] {
					continue
				}
				if index[w] < 0 {
					index[w], low[w] = next, next
					next++
					stack = append(stack, w)
					onStack[w] = true
					work = append(work, frame{v: w})
				} else if onStack[w] {
					low[v] = min(low[v], index[w])
				}
				continue
			}
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := work[len(work)-1].v
				low[parent] = min(low[parent], low[v])
			}
			if low[v] != index[v] {
				continue
			}
			var comp []ModuleID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, toID(w))
				if w == v {
					break
				}
			}
			if len(comp) > 1 {
				slices.Sort(comp)
				out = append(out, comp)
			}
		}
	}
	slices.SortFunc(out, func(a, b []ModuleID) int { return int(a[0]) - int(b[0]) })
	return out
}
