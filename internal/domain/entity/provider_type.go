// Package entity contains the core business objects of the project.
package entity

// ProviderType represents the method an account was established through.
type ProviderType string

const (
	// ProviderTypeEmail indicates a credential (email/password) account.
	ProviderTypeEmail ProviderType = "email"
	// ProviderTypeGoogle indicates an account provisioned via Google Sign-In.
	ProviderTypeGoogle ProviderType = "google"
)

// String returns the string representation of the ProviderType.
func (p ProviderType) String() string {
	return string(p)
}

// IsValid checks if the ProviderType is a valid value.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderTypeEmail, ProviderTypeGoogle:
		return true
	default:
		return false
	}
}
