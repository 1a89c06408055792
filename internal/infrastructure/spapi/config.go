package spapi

import "time"

const (
	// TokenEndpoint is Amazon's fixed LWA OAuth token endpoint
	TokenEndpoint = "https://api.amazon.com/auth/o2/token"
	// DefaultSandboxEndpoint is the NA static sandbox endpoint
	DefaultSandboxEndpoint = "https://sandbox.sellingpartnerapi-na.amazon.com"
	// DefaultMarketplaceID is the US marketplace
	DefaultMarketplaceID = "ATVPDKIKX0DER"
	// DefaultCreatedAfter triggers the static sandbox's canned test orders
	DefaultCreatedAfter = "TEST_CASE_200"
)

// Config holds credentials and endpoints for the Selling Partner API client
type Config struct {
	// ClientID is the LWA application client ID
	ClientID string
	// ClientSecret is the LWA application client secret
	ClientSecret string
	// RefreshToken is the long-lived token issued after seller authorization
	RefreshToken string
	// TokenEndpoint is the LWA OAuth token endpoint
	TokenEndpoint string
	// SandboxEndpoint is the order-search sandbox base URL (region-specific)
	SandboxEndpoint string
	// MarketplaceID filters the order search
	MarketplaceID string
	// CreatedAfter is the default created-after filter value
	CreatedAfter string
	// Timeout bounds each HTTP call
	Timeout time.Duration
}

// NewConfig creates a client configuration with sandbox defaults
func NewConfig(clientID, clientSecret, refreshToken string) *Config {
	return &Config{
		ClientID:        clientID,
		ClientSecret:    clientSecret,
		RefreshToken:    refreshToken,
		TokenEndpoint:   TokenEndpoint,
		SandboxEndpoint: DefaultSandboxEndpoint,
		MarketplaceID:   DefaultMarketplaceID,
		CreatedAfter:    DefaultCreatedAfter,
		Timeout:         30 * time.Second,
	}
}

// Validate checks the credential triple, reporting every missing value
func (c *Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.RefreshToken == "" {
		missing = append(missing, "refresh_token")
	}
	if len(missing) > 0 {
		return &MissingCredentialsError{Missing: missing}
	}
	return nil
}

func (c *Config) tokenEndpoint() string {
	if c.TokenEndpoint != "" {
		return c.TokenEndpoint
	}
	return TokenEndpoint
}

func (c *Config) sandboxEndpoint() string {
	if c.SandboxEndpoint != "" {
		return c.SandboxEndpoint
	}
	return DefaultSandboxEndpoint
}

func (c *Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 30 * time.Second
}
