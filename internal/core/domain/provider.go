package domain

// ProviderProfile is the business-facing data of a service provider. It is
// keyed by the owning identity id (1:1).
type ProviderProfile struct {
	IdentityID  string   `json:"identity_id"`
	Location    string   `json:"location"`
	NationalID  string   `json:"nin"`
	Phone       string   `json:"telnumber"`
	Service     string   `json:"service"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images"`
	Rating      float64  `json:"rating"`
}

// ProviderListing joins a provider identity with its profile.
type ProviderListing struct {
	Identity Identity
	Profile  ProviderProfile
}
