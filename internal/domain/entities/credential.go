package entities

// CredentialKey names one cached value of the credential store.
type CredentialKey string

const (
	CredentialServerType    CredentialKey = "gitServerType"
	CredentialToken         CredentialKey = "token"
	CredentialOwner         CredentialKey = "owner"
	CredentialLogin         CredentialKey = "login"
	CredentialPublishTarget CredentialKey = "publishTarget"
)

// Owner kinds of the remote repository.
const (
	OwnerUser = "user"
	OwnerOrg  = "org"
)

// GitUser is the authenticated account of a hosting backend.
type GitUser struct {
	Login string
	Name  string
}

// GitOrganization is an organization the authenticated account belongs to.
type GitOrganization struct {
	Login string
}

// RemoteRepository is a repository hosted by a backend.
type RemoteRepository struct {
	Owner    string
	Name     string
	CloneURL string
	WebURL   string
}

// Choice is one option offered to the operator.
type Choice struct {
	Label string
	Value string
}
