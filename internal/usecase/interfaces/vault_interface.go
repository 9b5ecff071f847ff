package interfaces

import "ozpay/internal/domain/entities"

// ICredentialVault is the only component that sees credential plaintext as bytes.
type ICredentialVault interface {
	Protect(set entities.CredentialSet) ([]byte, error)
	Reveal(blob []byte) (entities.CredentialSet, error)
}
