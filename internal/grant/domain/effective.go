package domain

import (
	"slices"
	"sort"
	"strings"
	"time"
)

// namespaceAccess is the per-capability namespace rule: open access, or a
// set of allowed namespaces.
type namespaceAccess struct {
	unrestricted bool
	allowed      map[string]struct{}
}

// EffectivePermissions is the precomputed result of resolving grants against
// credential- and token-level restrictions. All query methods are pure reads
// over this state; nothing is re-evaluated per call.
type EffectivePermissions struct {
	capabilities map[string]struct{}
	namespaces   map[string]*namespaceAccess
	resources    []ResourceRef
	keyPatterns  []string
}

// ResolveEffectivePermissions combines an identity's grants with optional
// credential-scope and token-claim capability restrictions.
//
// Algorithm: grants are filtered to currently valid ones (not revoked, not
// expired), their capability names are unioned, and for each capability
// namespace access is open if any valid grant for it carries no namespace
// scope, otherwise the union of the scoped namespaces. Resource references
// and key patterns are collected into deduplicated allow-lists where an
// empty list means unrestricted, matching the omission-equals-openness
// convention of the model.
//
// The capability set is then intersected with credentialCapabilities and
// tokenCapabilities in turn. A nil slice means no restriction at that layer;
// a non-nil slice can only shrink the set, never grow it.
func ResolveEffectivePermissions(
	grants []*CapabilityGrant,
	credentialCapabilities []string,
	tokenCapabilities []string,
	now time.Time,
) *EffectivePermissions {
	ep := &EffectivePermissions{
		capabilities: make(map[string]struct{}),
		namespaces:   make(map[string]*namespaceAccess),
	}

	seenResources := make(map[ResourceRef]struct{})

	for _, grant := range grants {
		if !grant.IsValid(now) {
			continue
		}

		ep.capabilities[grant.Capability] = struct{}{}

		access := ep.namespaces[grant.Capability]
		if access == nil {
			access = &namespaceAccess{allowed: make(map[string]struct{})}
			ep.namespaces[grant.Capability] = access
		}
		if grant.Scope == nil || len(grant.Scope.Namespaces) == 0 {
			access.unrestricted = true
		} else {
			for _, namespace := range grant.Scope.Namespaces {
				access.allowed[namespace] = struct{}{}
			}
		}

		if grant.Scope != nil {
			for _, resource := range grant.Scope.Resources {
				if _, ok := seenResources[resource]; !ok {
					seenResources[resource] = struct{}{}
					ep.resources = append(ep.resources, resource)
				}
			}
			for _, pattern := range grant.Scope.KeyPatterns {
				if !slices.Contains(ep.keyPatterns, pattern) {
					ep.keyPatterns = append(ep.keyPatterns, pattern)
				}
			}
		}
	}

	ep.intersect(credentialCapabilities)
	ep.intersect(tokenCapabilities)

	return ep
}

// intersect drops every capability not present in allowed. A nil slice means
// no restriction at this layer.
func (ep *EffectivePermissions) intersect(allowed []string) {
	if allowed == nil {
		return
	}

	keep := make(map[string]struct{}, len(allowed))
	for _, capability := range allowed {
		keep[capability] = struct{}{}
	}

	for capability := range ep.capabilities {
		if _, ok := keep[capability]; !ok {
			delete(ep.capabilities, capability)
			delete(ep.namespaces, capability)
		}
	}
}

// HasCapability reports whether the capability survived grant resolution and
// all restriction layers.
func (ep *EffectivePermissions) HasCapability(capability string) bool {
	_, ok := ep.capabilities[capability]
	return ok
}

// Capabilities returns the effective capability names, sorted.
func (ep *EffectivePermissions) Capabilities() []string {
	capabilities := make([]string, 0, len(ep.capabilities))
	for capability := range ep.capabilities {
		capabilities = append(capabilities, capability)
	}
	sort.Strings(capabilities)
	return capabilities
}

// CanAccessNamespace reports whether the capability may be used inside the
// namespace. Access is open when any valid grant for the capability carried
// no namespace scope.
func (ep *EffectivePermissions) CanAccessNamespace(capability, namespace string) bool {
	if !ep.HasCapability(capability) {
		return false
	}

	access := ep.namespaces[capability]
	if access == nil {
		return false
	}
	if access.unrestricted {
		return true
	}
	_, ok := access.allowed[namespace]
	return ok
}

// CanAccessResource reports whether the resource is within the allow-list.
// An empty allow-list means no resource restriction.
func (ep *EffectivePermissions) CanAccessResource(resourceType, resourceID string) bool {
	if len(ep.resources) == 0 {
		return true
	}
	return slices.Contains(ep.resources, ResourceRef{Type: resourceType, ID: resourceID})
}

// Resources returns the deduplicated resource allow-list. Empty means
// unrestricted.
func (ep *EffectivePermissions) Resources() []ResourceRef {
	return slices.Clone(ep.resources)
}

// CanAccessKey reports whether the key matches the collected key patterns.
// No patterns means no key restriction.
func (ep *EffectivePermissions) CanAccessKey(key string) bool {
	if len(ep.keyPatterns) == 0 {
		return true
	}
	for _, pattern := range ep.keyPatterns {
		if matchKeyPattern(pattern, key) {
			return true
		}
	}
	return false
}

// matchKeyPattern checks if the key matches the pattern. Supports three kinds
// of wildcards:
//  1. Full wildcard: "*" matches any key
//  2. Trailing wildcard: "prefix/*" matches any key under "prefix/" (greedy)
//  3. Mid-pattern wildcard: "config/*/theme" matches keys with * as a single
//     segment
func matchKeyPattern(pattern, key string) bool {
	if pattern == "*" {
		return true
	}

	// No wildcard: exact match required
	if !strings.Contains(pattern, "*") {
		return pattern == key
	}

	// Trailing wildcard (/*): prefix match, greedy over remaining segments
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		return strings.HasPrefix(key, prefix+"/")
	}

	// Mid-pattern wildcards: segment-by-segment, each * matches exactly one
	// segment
	patternParts := strings.Split(pattern, "/")
	keyParts := strings.Split(key, "/")
	if len(patternParts) != len(keyParts) {
		return false
	}

	for i := range patternParts {
		if patternParts[i] == "*" {
			continue
		}
		if patternParts[i] != keyParts[i] {
			return false
		}
	}
	return true
}
