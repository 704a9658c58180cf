// File: internal/proxy/policy.go
package proxy

import (
	"servicehub_backend/internal/common"
	"servicehub_backend/internal/guard"
)

// Policy is the per-collection authorization rule set for the proxy. Only
// allow-listed collections are reachable at all; reads are open to any
// authenticated caller, while each collection names the minimum role tier
// allowed to write it. The proxy never exposes an unauthenticated or
// unrestricted command channel.
type Policy struct {
	// writeTier maps an allowed collection to the minimum role required for
	// write operations against it.
	writeTier map[string]string
}

// DefaultPolicy covers the marketplace collections. Catalog collections are
// admin-written; bookings and reviews are written by any authenticated
// customer (providers and admins included, via the capability rule).
func DefaultPolicy() *Policy {
	return &Policy{
		writeTier: map[string]string{
			"services":   common.RoleAdmin,
			"categories": common.RoleAdmin,
			"providers":  common.RoleAdmin,
			"bookings":   common.RoleCustomer,
			"reviews":    common.RoleCustomer,
			"contacts":   common.RoleCustomer,
		},
	}
}

// Allows reports whether a caller with the given role may run the operation
// against the collection.
func (p *Policy) Allows(role, collection, operation string) bool {
	tier, listed := p.writeTier[collection]
	if !listed {
		return false
	}
	if !common.ValidRole(role) {
		return false
	}

	switch operation {
	case OpFind, OpCount:
		return true
	case OpInsertMany, OpUpdateMany, OpDeleteMany:
		return guard.RoleSatisfies(role, tier)
	}
	return false
}
