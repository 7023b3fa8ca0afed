package types

// PackageNode is one physical install of a package in the install tree.
type PackageNode struct {
	Name             string
	Version          string
	Root             string
	Dependencies     map[string]string
	DevDependencies  map[string]string
	PeerDependencies map[string]string
}

// DependencyGraph maps a package name to every distinct physical install
// of it, in discovery order.
type DependencyGraph struct {
	Root  PackageNode
	Nodes map[string][]PackageNode
	Order []string
}

func NewDependencyGraph(root PackageNode) DependencyGraph {
	return DependencyGraph{Root: root, Nodes: map[string][]PackageNode{}}
}

// Add records node unless an install with the same root is already known.
func (g *DependencyGraph) Add(node PackageNode) bool {
	for _, existing := range g.Nodes[node.Name] {
		if existing.Root == node.Root {
			return false
		}
	}
	if _, ok := g.Nodes[node.Name]; !ok {
		g.Order = append(g.Order, node.Name)
	}
	g.Nodes[node.Name] = append(g.Nodes[node.Name], node)
	return true
}

func (g DependencyGraph) Has(name string, root string) bool {
	for _, existing := range g.Nodes[name] {
		if existing.Root == root {
			return true
		}
	}
	return false
}

// All returns every install in discovery order.
func (g DependencyGraph) All() []PackageNode {
	out := []PackageNode{}
	for _, name := range g.Order {
		out = append(out, g.Nodes[name]...)
	}
	return out
}

type PeerRequirement struct {
	Name       string
	Ranges     []string
	RequiredBy []string
}

type PlannedPeer struct {
	Name       string   `yaml:"name"`
	Version    string   `yaml:"version,omitempty"`
	Ranges     []string `yaml:"ranges"`
	RequiredBy []string `yaml:"required_by"`
	Resolvable bool     `yaml:"resolvable"`
	Reason     string   `yaml:"reason,omitempty"`
}

type InstallPlan struct {
	Peers []PlannedPeer
}

// Resolved returns the name to version pins of every resolvable peer.
func (p InstallPlan) Resolved() map[string]string {
	out := map[string]string{}
	for _, peer := range p.Peers {
		if peer.Resolvable {
			out[peer.Name] = peer.Version
		}
	}
	return out
}

func (p InstallPlan) Unresolvable() []PlannedPeer {
	out := []PlannedPeer{}
	for _, peer := range p.Peers {
		if !peer.Resolvable {
			out = append(out, peer)
		}
	}
	return out
}

func (p InstallPlan) Empty() bool {
	return len(p.Peers) == 0
}
