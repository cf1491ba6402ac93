// Package domain contains the audit record entities.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Decision outcomes recorded for authorization checks.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// AuditRecord captures one authorization decision. Records are signed so
// after-the-fact tampering in the store is detectable.
type AuditRecord struct {
	ID           string            `json:"id"`
	CredentialID string            `json:"credentialId,omitempty"`
	IdentityID   string            `json:"identityId,omitempty"`
	Capability   string            `json:"capability"`
	Resource     string            `json:"resource,omitempty"`
	Decision     string            `json:"decision"`
	Reason       string            `json:"reason,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	Signature    []byte            `json:"signature,omitempty"`
}

// NewAuditRecordID generates an audit record identifier (aud_<uuidv7>).
func NewAuditRecordID() string {
	return "aud_" + strings.ReplaceAll(uuid.Must(uuid.NewV7()).String(), "-", "")
}
