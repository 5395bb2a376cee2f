package vkboot

import (
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// QueueRole is a capability the session needs a queue family for.
type QueueRole int

const (
	RoleGraphics QueueRole = iota
	RolePresent
	roleCount
)

func (r QueueRole) String() string {
	switch r {
	case RoleGraphics:
		return "graphics"
	case RolePresent:
		return "present"
	}
	return "unknown"
}

// QueueRoles maps each role to a queue family index of one adapter. A role
// with no family is unset.
type QueueRoles struct {
	family [roleCount]uint32
	set    [roleCount]bool
}

func (r *QueueRoles) Set(role QueueRole, family uint32) {
	r.family[role] = family
	r.set[role] = true
}

// Index returns the family assigned to role and whether one is assigned.
func (r QueueRoles) Index(role QueueRole) (uint32, bool) {
	return r.family[role], r.set[role]
}

func (r QueueRoles) Graphics() uint32 { return r.family[RoleGraphics] }

func (r QueueRoles) Present() uint32 { return r.family[RolePresent] }

// Complete reports whether every role has a family.
func (r QueueRoles) Complete() bool {
	for _, ok := range r.set {
		if !ok {
			return false
		}
	}
	return true
}

// Missing lists the unset roles.
func (r QueueRoles) Missing() []QueueRole {
	var out []QueueRole
	for role := QueueRole(0); role < roleCount; role++ {
		if !r.set[role] {
			out = append(out, role)
		}
	}
	return out
}

// Separate is true when graphics and present live in different families.
func (r QueueRoles) Separate() bool {
	return r.family[RoleGraphics] != r.family[RolePresent]
}

// UniqueFamilies returns each assigned family once, ascending.
func (r QueueRoles) UniqueFamilies() []uint32 {
	set := make(map[uint32]struct{}, roleCount)
	for role := QueueRole(0); role < roleCount; role++ {
		if r.set[role] {
			set[r.family[role]] = struct{}{}
		}
	}
	families := maps.Keys(set)
	slices.Sort(families)
	return families
}

// ResolveQueueRoles scans the adapter's queue families in order and takes
// the first family satisfying each role. The scan stops as soon as every
// role is assigned. A failing present query counts as unsupported.
func ResolveQueueRoles(adapter Adapter, surface vk.Surface) QueueRoles {
	var roles QueueRoles
	for i, family := range adapter.QueueFamilies() {
		index := uint32(i)
		if _, ok := roles.Index(RoleGraphics); !ok && family.Supports(vk.QueueFlags(vk.QueueGraphicsBit)) {
			roles.Set(RoleGraphics, index)
		}
		if _, ok := roles.Index(RolePresent); !ok {
			if supported, err := adapter.SupportsPresent(index, surface); err == nil && supported {
				roles.Set(RolePresent, index)
			}
		}
		if roles.Complete() {
			break
		}
	}
	return roles
}
