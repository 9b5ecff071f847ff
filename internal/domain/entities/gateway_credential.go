package entities

import (
	"sort"
	"strings"
	"time"
)

// CredentialSet is the plaintext form of a tenant's gateway credentials
// (e.g. access_token, public_key).
//
// Its String, GoString and MarshalJSON methods never expose values, so logging
// or serializing a set by mistake only shows key names. Only the vault turns a
// set into bytes.

type CredentialSet map[string]string

const redacted = "[REDACTED]"

// Keys returns the credential key names in stable order.
func (c CredentialSet) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c CredentialSet) Get(key string) string {
	return c[key]
}

func (c CredentialSet) Clone() CredentialSet {
	out := make(CredentialSet, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func (c CredentialSet) String() string {
	keys := c.Keys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+redacted)
	}
	return "CredentialSet{" + strings.Join(parts, ", ") + "}"
}

func (c CredentialSet) GoString() string {
	return c.String()
}

func (c CredentialSet) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// GatewayCredential is the vault entry persisted for a (tenant, gateway) pair.
//
// Storage model (DynamoDB):
//   - PK: tenant_id
//   - SK: gateway_name
//
// Ciphertext is the vault blob; the plaintext set never reaches storage.

type GatewayCredential struct {
	ID          string
	TenantID    string
	GatewayName string
	Ciphertext  []byte
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
