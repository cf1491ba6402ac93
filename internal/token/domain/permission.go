// Package domain defines the resource-token data model: permission bitmaps,
// wire-format tags, token claims, and creation parameters.
//
// Tokens produced by this model are stateless capabilities: a signed byte
// sequence whose validity is fully determined by its own contents plus the
// resource's signing secret. There is no server-side record and no revocation
// path beyond rotating the resource secret.
package domain

import (
	"strings"

	apperrors "github.com/allisson/authcore/internal/errors"
)

// Permission is a bitmap of operations a resource token authorizes.
// The bitmap is resource-generic: the same bits apply to channels, logs,
// and blobs.
type Permission uint8

const (
	// PermissionRead allows reading resource data.
	PermissionRead Permission = 0x01

	// PermissionAppend allows appending to the resource. The legacy name
	// "write" is accepted as an alias.
	PermissionAppend Permission = 0x02

	// PermissionReadDeleted allows reading soft-deleted entries.
	PermissionReadDeleted Permission = 0x04

	// PermissionDeleteOwn allows deleting entries authored by the token holder.
	PermissionDeleteOwn Permission = 0x08

	// PermissionDeleteAny allows deleting any entry.
	PermissionDeleteAny Permission = 0x10
)

// legacyPermissions is the read/write pair encodable by the V2/V3 formats.
const legacyPermissions = PermissionRead | PermissionAppend

// permissionNames maps bits to canonical names in wire-bit order.
var permissionNames = []struct {
	bit  Permission
	name string
}{
	{PermissionRead, "read"},
	{PermissionAppend, "append"},
	{PermissionReadDeleted, "read_deleted"},
	{PermissionDeleteOwn, "delete_own"},
	{PermissionDeleteAny, "delete_any"},
}

// ParsePermissions converts permission names into a bitmap.
// "write" is accepted as an alias for "append". Returns ErrInvalidInput
// for unknown names or an empty list.
func ParsePermissions(names []string) (Permission, error) {
	if len(names) == 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "permissions must not be empty")
	}

	var bitmap Permission
	for _, name := range names {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "write" {
			// Legacy alias kept for tokens minted by old gateways.
			normalized = "append"
		}

		found := false
		for _, entry := range permissionNames {
			if entry.name == normalized {
				bitmap |= entry.bit
				found = true
				break
			}
		}
		if !found {
			return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown permission %q", name)
		}
	}

	return bitmap, nil
}

// Names returns the canonical permission names present in the bitmap,
// in wire-bit order.
func (p Permission) Names() []string {
	names := make([]string, 0, len(permissionNames))
	for _, entry := range permissionNames {
		if p&entry.bit != 0 {
			names = append(names, entry.name)
		}
	}
	return names
}

// Has reports whether all bits in other are present in p.
func (p Permission) Has(other Permission) bool {
	return p&other == other
}

// LegacyEncodable reports whether the bitmap fits the legacy read/write pair
// encodable by the V2 and V3 formats.
func (p Permission) LegacyEncodable() bool {
	return p&^legacyPermissions == 0
}
