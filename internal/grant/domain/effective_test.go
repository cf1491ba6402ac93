package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validGrant(identityID, capability string, scope *GrantScope) *CapabilityGrant {
	return &CapabilityGrant{
		GrantID:    NewGrantID(),
		IdentityID: identityID,
		Capability: capability,
		GrantedAt:  time.Now().UTC().Add(-time.Hour),
		GrantedBy:  "idn_admin",
		Source:     GrantSourceDirect,
		Scope:      scope,
	}
}

func TestResolveEffectivePermissions(t *testing.T) {
	now := time.Now().UTC()

	t.Run("Success_UnionOfValidGrants", func(t *testing.T) {
		past := now.Add(-time.Minute)
		expired := validGrant("idn_a", "blob:delete_any", nil)
		expired.ExpiresAt = &past
		revoked := validGrant("idn_a", "kv:write", nil)
		revoked.RevokedAt = &past

		ep := ResolveEffectivePermissions([]*CapabilityGrant{
			validGrant("idn_a", "channel:read", nil),
			validGrant("idn_a", "channel:append", nil),
			expired,
			revoked,
		}, nil, nil, now)

		assert.Equal(t, []string{"channel:append", "channel:read"}, ep.Capabilities())
		assert.True(t, ep.HasCapability("channel:read"))
		assert.False(t, ep.HasCapability("blob:delete_any"))
		assert.False(t, ep.HasCapability("kv:write"))
	})

	t.Run("Success_NamespaceUnrestrictedWins", func(t *testing.T) {
		// One scoped grant and one unscoped grant for the same capability:
		// the unscoped one opens namespace access entirely.
		ep := ResolveEffectivePermissions([]*CapabilityGrant{
			validGrant("idn_a", "channel:read", &GrantScope{Namespaces: []string{"app_one"}}),
			validGrant("idn_a", "channel:read", nil),
		}, nil, nil, now)

		assert.True(t, ep.CanAccessNamespace("channel:read", "app_one"))
		assert.True(t, ep.CanAccessNamespace("channel:read", "anything_else"))
	})

	t.Run("Success_NamespaceUnion", func(t *testing.T) {
		ep := ResolveEffectivePermissions([]*CapabilityGrant{
			validGrant("idn_a", "channel:read", &GrantScope{Namespaces: []string{"app_one"}}),
			validGrant("idn_a", "channel:read", &GrantScope{Namespaces: []string{"app_two"}}),
		}, nil, nil, now)

		assert.True(t, ep.CanAccessNamespace("channel:read", "app_one"))
		assert.True(t, ep.CanAccessNamespace("channel:read", "app_two"))
		assert.False(t, ep.CanAccessNamespace("channel:read", "app_three"))
		// An absent capability never grants namespace access.
		assert.False(t, ep.CanAccessNamespace("channel:append", "app_one"))
	})

	t.Run("Success_ResourceAllowList", func(t *testing.T) {
		ep := ResolveEffectivePermissions([]*CapabilityGrant{
			validGrant("idn_a", "channel:read", &GrantScope{Resources: []ResourceRef{
				{Type: "channel", ID: "abc123abc123"},
			}}),
			validGrant("idn_a", "blob:read", &GrantScope{Resources: []ResourceRef{
				{Type: "channel", ID: "abc123abc123"}, // duplicate, deduplicated
				{Type: "blob", ID: "blob-1"},
			}}),
		}, nil, nil, now)

		assert.Len(t, ep.Resources(), 2)
		assert.True(t, ep.CanAccessResource("channel", "abc123abc123"))
		assert.True(t, ep.CanAccessResource("blob", "blob-1"))
		assert.False(t, ep.CanAccessResource("blob", "blob-2"))
	})

	t.Run("Success_EmptyResourceListUnrestricted", func(t *testing.T) {
		ep := ResolveEffectivePermissions([]*CapabilityGrant{
			validGrant("idn_a", "channel:read", nil),
		}, nil, nil, now)
		assert.True(t, ep.CanAccessResource("channel", "anything"))
	})

	t.Run("Success_IntersectionShrinkOnly", func(t *testing.T) {
		grants := []*CapabilityGrant{
			validGrant("idn_a", "channel:read", nil),
			validGrant("idn_a", "channel:append", nil),
			validGrant("idn_a", "blob:read", nil),
		}

		unrestricted := ResolveEffectivePermissions(grants, nil, nil, now)
		restricted := ResolveEffectivePermissions(grants,
			[]string{"channel:read", "channel:append"},
			[]string{"channel:read", "blob:read"},
			now)

		// Each restriction layer can only shrink the set.
		assert.Equal(t, []string{"channel:read"}, restricted.Capabilities())
		for _, capability := range restricted.Capabilities() {
			assert.True(t, unrestricted.HasCapability(capability))
		}

		// A capability dropped by intersection also loses namespace access.
		assert.False(t, restricted.CanAccessNamespace("channel:append", "app_one"))
	})

	t.Run("Success_EmptyRestrictionDeniesAll", func(t *testing.T) {
		grants := []*CapabilityGrant{validGrant("idn_a", "channel:read", nil)}
		ep := ResolveEffectivePermissions(grants, []string{}, nil, now)
		assert.Empty(t, ep.Capabilities())
	})

	t.Run("Success_NoGrants", func(t *testing.T) {
		ep := ResolveEffectivePermissions(nil, nil, nil, now)
		assert.Empty(t, ep.Capabilities())
		assert.False(t, ep.HasCapability("channel:read"))
		// With no grants there are no resource restrictions either; access
		// control rests entirely on the capability check.
		assert.True(t, ep.CanAccessResource("channel", "abc"))
	})
}

func TestEffectivePermissions_CanAccessKey(t *testing.T) {
	now := time.Now().UTC()

	t.Run("Success_NoPatternsUnrestricted", func(t *testing.T) {
		ep := ResolveEffectivePermissions([]*CapabilityGrant{
			validGrant("idn_a", "kv:read", nil),
		}, nil, nil, now)
		assert.True(t, ep.CanAccessKey("any/key/at/all"))
	})

	t.Run("Success_PatternMatching", func(t *testing.T) {
		ep := ResolveEffectivePermissions([]*CapabilityGrant{
			validGrant("idn_a", "kv:read", &GrantScope{KeyPatterns: []string{
				"settings/theme",
				"profile/*",
				"config/*/layout",
			}}),
		}, nil, nil, now)

		assert.True(t, ep.CanAccessKey("settings/theme"))
		assert.False(t, ep.CanAccessKey("settings/other"))

		// Trailing wildcard is greedy.
		assert.True(t, ep.CanAccessKey("profile/avatar"))
		assert.True(t, ep.CanAccessKey("profile/images/avatar"))
		assert.False(t, ep.CanAccessKey("profile"))

		// Mid-pattern wildcard matches exactly one segment.
		assert.True(t, ep.CanAccessKey("config/mobile/layout"))
		assert.False(t, ep.CanAccessKey("config/mobile/dark/layout"))
	})

	t.Run("Success_FullWildcard", func(t *testing.T) {
		ep := ResolveEffectivePermissions([]*CapabilityGrant{
			validGrant("idn_a", "kv:read", &GrantScope{KeyPatterns: []string{"*"}}),
		}, nil, nil, now)
		assert.True(t, ep.CanAccessKey("anything"))
	})
}

func TestCapabilityGrant_IsValid(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	grant := validGrant("idn_a", "channel:read", nil)
	assert.True(t, grant.IsValid(now))

	grant.ExpiresAt = &future
	assert.True(t, grant.IsValid(now))

	grant.ExpiresAt = &past
	assert.False(t, grant.IsValid(now))

	grant.ExpiresAt = &future
	grant.RevokedAt = &past
	assert.False(t, grant.IsValid(now))
}

func TestCapabilityGrant_Revoked(t *testing.T) {
	now := time.Now().UTC()
	grant := validGrant("idn_a", "channel:read", nil)

	revoked := grant.Revoked("idn_admin", "cleanup", now)
	assert.Equal(t, now, *revoked.RevokedAt)
	assert.Equal(t, "idn_admin", revoked.RevokedBy)
	assert.Nil(t, grant.RevokedAt)

	// Idempotent.
	again := revoked.Revoked("idn_other", "other", now.Add(time.Hour))
	assert.Equal(t, now, *again.RevokedAt)
	assert.Equal(t, "cleanup", again.RevocationReason)
}

func TestCreateGrantInput_Validate(t *testing.T) {
	base := CreateGrantInput{
		IdentityID: "idn_a",
		Capability: "channel:read",
		GrantedBy:  "idn_admin",
		Source:     GrantSourceDirect,
	}

	t.Run("Success", func(t *testing.T) {
		input := base
		assert.NoError(t, input.Validate())
	})

	t.Run("Error_MissingIdentity", func(t *testing.T) {
		input := base
		input.IdentityID = ""
		assert.ErrorIs(t, input.Validate(), ErrGrantIdentityRequired)
	})

	t.Run("Error_MissingGrantedBy", func(t *testing.T) {
		input := base
		input.GrantedBy = ""
		assert.ErrorIs(t, input.Validate(), ErrGrantedByRequired)
	})

	t.Run("Error_BadSource", func(t *testing.T) {
		input := base
		input.Source = GrantSource("magic")
		assert.ErrorIs(t, input.Validate(), ErrUnknownGrantSource)
	})

	t.Run("Error_BadCapability", func(t *testing.T) {
		input := base
		input.Capability = "Channel:READ"
		assert.Error(t, input.Validate())
	})
}
