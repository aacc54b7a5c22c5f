package models

import "strings"

type Role string

const (
	RoleAgent    Role = "agent"
	RoleSplitter Role = "splitter"
	RoleTarget   Role = "target"
)

func (r Role) String() string {
	return string(r)
}

// WorkingMarker is the substring every node writes to its log once it runs as its role.
func (r Role) WorkingMarker() string {
	return "working as " + strings.ToLower(string(r))
}

// Roles lists every role that carries configuration artifacts.
var Roles = []Role{RoleAgent, RoleSplitter, RoleTarget}

// Node is one deployed instance of a pipeline role.
type Node struct {
	Name string
	Role Role
}

// RequiredNodes is the topology a successful provisioning must bring up.
var RequiredNodes = []Node{
	{Name: "agent", Role: RoleAgent},
	{Name: "splitter", Role: RoleSplitter},
	{Name: "target_1", Role: RoleTarget},
	{Name: "target_2", Role: RoleTarget},
}

// Container is a running node as reported by the container runtime.
type Container struct {
	ID    string
	Names []string
	State string
}

// HasName reports whether any of the container names equals name, ignoring case.
func (c Container) HasName(name string) bool {
	for _, n := range c.Names {
		if strings.EqualFold(strings.TrimPrefix(n, "/"), name) {
			return true
		}
	}
	return false
}
