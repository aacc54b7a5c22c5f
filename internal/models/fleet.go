package models

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Fleet is the set of node names observed running at one point in time.
type Fleet struct {
	Names sets.Set[string]
}

func NewFleet(containers []Container) Fleet {
	names := sets.New[string]()
	for _, c := range containers {
		for _, n := range c.Names {
			names.Insert(strings.TrimPrefix(n, "/"))
		}
	}
	return Fleet{Names: names}
}

func (f Fleet) Len() int {
	return f.Names.Len()
}

func (f Fleet) IsEmpty() bool {
	return f.Names.Len() == 0
}

func (f Fleet) Has(name string) bool {
	return f.Names.Has(name)
}

// Covers reports whether every required node is part of the fleet.
func (f Fleet) Covers(required []Node) bool {
	return len(f.Missing(required)) == 0
}

// Missing returns the required node names absent from the fleet, sorted.
func (f Fleet) Missing(required []Node) []string {
	want := sets.New[string]()
	for _, n := range required {
		want.Insert(n.Name)
	}
	return sets.List(want.Difference(f.Names))
}

// List returns the node names sorted.
func (f Fleet) List() []string {
	return sets.List(f.Names)
}
