package dag

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrNonConsecutiveLayers is returned by [DAG.Validate] when an edge
	// connects nodes that are not in adjacent layers (From.Layer+1 !=
	// To.Layer). After dummy-node insertion every edge must span exactly
	// one layer step.
	ErrNonConsecutiveLayers = errors.New("edges must connect consecutive layers")

	// ErrGraphHasCycle is returned by [DAG.Validate] and [DAG.Acyclic] when
	// a directed cycle is detected. Cycles are detected using depth-first
	// search with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil - they are automatically initialized to empty
// maps when needed.
type Metadata map[string]any

// NodeKind distinguishes between real and synthetic nodes.
type NodeKind int

const (
	// NodeKindRegular represents a real node carrying user data.
	NodeKindRegular NodeKind = iota
	// NodeKindDummy represents a synthetic node inserted to represent one
	// segment of an edge spanning more than one layer. Dummy nodes maintain
	// a MasterID linking to the source node of the original edge and are
	// weighted differently during coordinate assignment.
	NodeKindDummy
)

// Node represents a vertex in a layered graph. The three layout fields are
// written once per pipeline stage: Layer by layer assignment, Order by
// decrossing, X by coordinate assignment. No stage reads a field that an
// earlier stage has not populated.
//
// The zero value is not usable - ID must be set before adding to a DAG.
type Node struct {
	ID    string   // Unique identifier
	Layer int      // Layer assignment (0 = top, increasing downward)
	Order int      // Left-to-right index within the layer
	X     float64  // Horizontal coordinate (center of the node)
	Meta  Metadata // Arbitrary key-value metadata (never nil after AddNode)

	// Kind indicates whether this is a real or dummy node.
	Kind NodeKind
	// MasterID links dummy chains back to the source node of the edge
	// they subdivide.
	MasterID string
}

// IsDummy reports whether the node was inserted to break a long edge.
func (n Node) IsDummy() bool { return n.Kind == NodeKindDummy }

// EffectiveID returns MasterID if set (for dummy nodes), otherwise the
// node's own ID. This allows a subdivided edge to be treated as a single
// logical entity by renderers.
func (n Node) EffectiveID() string {
	if n.MasterID != "" {
		return n.MasterID
	}
	return n.ID
}

// Edge represents a directed connection between two nodes. After dummy-node
// insertion, a valid edge always satisfies dst.Layer == src.Layer + 1; this
// constraint is enforced by Validate.
type Edge struct {
	From string   // Source node ID
	To   string   // Target node ID
	Meta Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

// DAG is a directed acyclic graph optimized for layered layouts. Nodes are
// organized into horizontal layers, and - once normalized - edges only
// connect nodes in consecutive layers.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization;
// independent layouts of distinct DAGs may run concurrently since all
// mutable layout state lives on the graph being processed.
type DAG struct {
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]string // nodeID -> children IDs
	incoming map[string][]string // nodeID -> parent IDs
	layers   map[int][]*Node     // layer -> nodes in that layer
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		layers:   make(map[int][]*Node),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
// The returned map is never nil and can be safely modified.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node to the graph and automatically indexes it by its
// Layer. Returns ErrInvalidNodeID if the node ID is empty, or
// ErrDuplicateNodeID if a node with the same ID already exists. The node's
// Meta field is automatically initialized to an empty map if nil.
//
// Node IDs must be unique across the entire graph, regardless of layer.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.layers[node.Layer] = append(d.layers[node.Layer], node)
	return nil
}

// SetLayers updates the layer assignments for nodes and rebuilds the layer
// index. Nodes not present in the map retain their current layer. This is
// how layer assignment engines publish their result.
//
// The layer index (used by NodesInLayer) is completely rebuilt, so this
// operation is O(N) where N is the total number of nodes.
func (d *DAG) SetLayers(layers map[string]int) {
	d.layers = make(map[int][]*Node)
	for _, n := range d.nodes {
		if l, ok := layers[n.ID]; ok {
			n.Layer = l
		}
		d.layers[n.Layer] = append(d.layers[n.Layer], n)
	}
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode if the From node doesn't exist, or
// ErrUnknownTargetNode if the To node doesn't exist. The edge's Meta
// field is automatically initialized to an empty map if nil.
//
// AddEdge does not validate that From.Layer+1 == To.Layer - use Validate
// to check this constraint after dummy-node insertion.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
// No error is returned if the edge does not exist. If multiple edges
// exist between the same nodes, all of them are removed.
func (d *DAG) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
}

// Nodes returns all nodes in the graph.
// The order is not guaranteed. The returned slice contains pointers to
// the actual node structs, so modifications affect the graph.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.nodes))
	for _, n := range d.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// Edges returns a copy of all edges in the graph.
// The order matches insertion order. Modifications to the returned
// slice or its edge structs do not affect the graph.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of nodes this node has outgoing edges to.
// Returns nil if the node has no children or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of nodes that have edges to this node.
// Returns nil if the node has no parents or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
// Returns 0 if the node doesn't exist.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
// Returns 0 if the node doesn't exist.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the actual node in the graph, so
// modifications affect the graph.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// NodesInLayer returns all nodes assigned to the given layer.
// Returns nil if the layer is empty or doesn't exist. The returned slice
// contains pointers to the actual nodes, so modifications affect the graph.
// The slice order is insertion order, not the decrossed order - use
// [DAG.OrderedLayers] for order-aware traversal.
func (d *DAG) NodesInLayer(layer int) []*Node { return d.layers[layer] }

// LayerCount returns the number of distinct layers in the graph.
// Returns 0 for an empty graph. Layers don't need to be consecutive -
// a graph with nodes in layers 0 and 5 has LayerCount() == 2.
func (d *DAG) LayerCount() int { return len(d.layers) }

// LayerIDs returns all layer indices in sorted ascending order.
// Returns an empty slice for an empty graph.
func (d *DAG) LayerIDs() []int {
	return slices.Sorted(maps.Keys(d.layers))
}

// MaxLayer returns the highest layer index, or 0 if the graph is empty.
func (d *DAG) MaxLayer() int {
	if len(d.layers) == 0 {
		return 0
	}
	ids := d.LayerIDs()
	return ids[len(ids)-1]
}

// OrderedLayers returns the layers of the graph, top to bottom, with the
// nodes of each layer sorted by their Order field (ties broken by ID so the
// result is deterministic before decrossing has run). The inner slices are
// fresh but share node pointers with the graph; decrossing operators permute
// them in place.
func (d *DAG) OrderedLayers() [][]*Node {
	ids := d.LayerIDs()
	layers := make([][]*Node, len(ids))
	for i, id := range ids {
		layer := slices.Clone(d.layers[id])
		slices.SortStableFunc(layer, func(a, b *Node) int {
			if a.Order != b.Order {
				return a.Order - b.Order
			}
			return strings.Compare(a.ID, b.ID)
		})
		layers[i] = layer
	}
	return layers
}

// Sources returns nodes with no incoming edges (roots).
// The order is not guaranteed. Returns nil for an empty graph.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, n := range d.nodes {
		if len(d.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges (leaves).
// The order is not guaranteed. Returns nil for an empty graph.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, n := range d.nodes {
		if len(d.outgoing[n.ID]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Validate checks graph integrity and returns nil if valid.
// It verifies two constraints:
//
//  1. All edges connect existing nodes in consecutive layers
//     (From.Layer+1 == To.Layer)
//  2. The graph is acyclic (no directed cycles exist)
//
// Returns ErrInvalidEdgeEndpoint if an edge references a missing node,
// ErrNonConsecutiveLayers if edges don't connect adjacent layers, or
// ErrGraphHasCycle if a cycle is detected. Use this after dummy-node
// insertion, before decrossing or coordinate assignment.
func (d *DAG) Validate() error {
	if err := d.validateEdgeConsistency(); err != nil {
		return err
	}
	return d.Acyclic()
}

func (d *DAG) validateEdgeConsistency() error {
	for _, e := range d.edges {
		src, okS := d.nodes[e.From]
		dst, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
		if dst.Layer != src.Layer+1 {
			return ErrNonConsecutiveLayers
		}
	}
	return nil
}

// Acyclic returns ErrGraphHasCycle if the graph contains a directed cycle,
// nil otherwise. Unlike Validate it does not require layer assignments to
// be populated, so it can run before layering.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (d *DAG) Acyclic() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for id := range d.nodes {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// PosMap creates a position lookup map from a slice of node IDs.
// The returned map maps each ID to its index in the slice.
// This is commonly used to convert layer orderings into fast position
// lookups for crossing calculations.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodePosMap creates a position lookup map from a slice of nodes.
// The returned map maps each node ID to its index in the slice.
func NodePosMap(nodes []*Node) map[string]int {
	m := make(map[string]int, len(nodes))
	for i, n := range nodes {
		m[n.ID] = i
	}
	return m
}

// NodeIDs extracts the ID from each node in a slice.
// Returns a new slice containing the IDs in the same order as the input.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
