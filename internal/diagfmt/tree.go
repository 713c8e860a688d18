package diagfmt

import (
	"fmt"
	"io"
	"strconv"

	"liveweave/internal/live"
	"liveweave/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// FormatDocument prints the node tree of doc, one node per line:
//
//	Button: class Component
//	├─ width: int 4
//	└─ label: string "ok"
func FormatDocument(w io.Writer, doc *live.Document, names *source.Interner) error {
	for i, n := range levelNodes(doc, 0) {
		root := buildTreeNode(doc, names, 0, n, i)
		if err := writeTree(w, root, "", "", ""); err != nil {
			return err
		}
	}
	return nil
}

func levelNodes(doc *live.Document, level int) []live.Node {
	if level >= len(doc.Nodes) {
		return nil
	}
	return doc.Nodes[level]
}

func buildTreeNode(doc *live.Document, names *source.Interner, level int, n live.Node, idx int) *treeNode {
	key := "[" + strconv.Itoa(idx) + "]"
	if !n.ID.IsEmpty() {
		key = n.ID.Format(names, doc.MultiIDs)
	}
	node := &treeNode{label: key + ": " + describeValue(doc, names, n.Value)}
	for i, c := range doc.Children(level, n) {
		node.children = append(node.children, buildTreeNode(doc, names, level+1, c, i))
	}
	return node
}

func describeValue(doc *live.Document, names *source.Interner, v live.Value) string {
	label := v.Kind.String()
	if text := doc.FormatValue(names, v); text != "" {
		label += " " + text
	}
	if v.Kind == live.ValFn {
		label += fmt.Sprintf(" (scopes %d)", v.ScopeCount)
	}
	return label
}

func writeTree(w io.Writer, n *treeNode, prefix, branch, childPrefix string) error {
	if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, n.label); err != nil {
		return err
	}
	for i, c := range n.children {
		b, next := "├─ ", "│  "
		if i == len(n.children)-1 {
			b, next = "└─ ", "   "
		}
		if err := writeTree(w, c, prefix+childPrefix, b, next); err != nil {
			return err
		}
	}
	return nil
}
