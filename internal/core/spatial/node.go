package spatial

import "github.com/zeusync/broadphase/internal/core/models"

// node is shared by every tree kind. A node is a leaf when it has no children;
// internal nodes own their children exclusively and hold no records.
type node struct {
	region   Region
	depth    int
	records  []models.Record
	children []*node

	// set on binary split nodes only
	axis  int
	split float64
}

func newLeaf(region Region, depth int) *node {
	return &node{region: region, depth: depth, axis: -1}
}

func (n *node) leaf() bool { return len(n.children) == 0 }

// query appends the records of every leaf whose region intersects q.
// Leaves are not refined per record; callers run the narrow phase.
func (n *node) query(q Region, d Dim, out []models.Record) []models.Record {
	if !n.region.Intersects(q, d) {
		return out
	}
	if n.leaf() {
		return append(out, n.records...)
	}
	for _, c := range n.children {
		out = c.query(q, d, out)
	}
	return out
}

// NodeInfo is a read-only snapshot of one node for debug rendering.
type NodeInfo struct {
	Region Region
	Depth  int
	Leaf   bool
	Count  int
	// Axis is -1 unless the node is an internal binary split node.
	Axis  int
	Split float64
}

func (n *node) collect(out []NodeInfo) []NodeInfo {
	out = append(out, NodeInfo{
		Region: n.region,
		Depth:  n.depth,
		Leaf:   n.leaf(),
		Count:  len(n.records),
		Axis:   n.axis,
		Split:  n.split,
	})
	for _, c := range n.children {
		out = c.collect(out)
	}
	return out
}

// Statistics summarises the current node graph.
type Statistics struct {
	Nodes    int
	Leaves   int
	Entities int
	MaxDepth int
	// Rejected counts records refused since the last Clear or BuildFrom
	// because their position lay outside the root region.
	Rejected int
}

func (n *node) accumulate(s *Statistics) {
	s.Nodes++
	if n.depth > s.MaxDepth {
		s.MaxDepth = n.depth
	}
	if n.leaf() {
		s.Leaves++
		s.Entities += len(n.records)
		return
	}
	for _, c := range n.children {
		c.accumulate(s)
	}
}

func graphStats(root *node, rejected int) Statistics {
	s := Statistics{Rejected: rejected}
	if root != nil {
		root.accumulate(&s)
	}
	return s
}

func graphNodes(root *node) []NodeInfo {
	if root == nil {
		return nil
	}
	return root.collect(nil)
}
