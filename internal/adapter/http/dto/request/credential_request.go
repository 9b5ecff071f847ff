package request

// PutCredentialRequest is the payload of PUT .../credentials. Values are
// sealed by the vault before they are stored.
type PutCredentialRequest struct {
	Credentials map[string]string `json:"credentials"`
}
