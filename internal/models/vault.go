package models

// Credential is a stored login secret. The Secret field holds ciphertext;
// decryption happens at the edge and degrades to an empty string on failure.
type Credential struct {
	ID          string `json:"id"`
	ServiceName string `json:"serviceName"`
	Username    string `json:"username"`
	Secret      []byte `json:"secret"`
	CreatedAt   int64  `json:"createdAt"`
}

// VaultFile is an encrypted file stored in the vault.
type VaultFile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Data      []byte `json:"data"`
	CreatedAt int64  `json:"createdAt"`
}
