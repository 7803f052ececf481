package dto

type SaveCredentialsRequest struct {
	ClientID     string `json:"client_id" binding:"required"`
	ClientSecret string `json:"client_secret"`
}

type AddFilterRequest struct {
	EmailAddress string `json:"email_address" binding:"required"`
	Description  string `json:"description"`
}

type SetFilterEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type ConnectResponse struct {
	Connected    bool   `json:"connected"`
	AccountEmail string `json:"account_email,omitempty"`
	AuthURL      string `json:"auth_url,omitempty"`
}
