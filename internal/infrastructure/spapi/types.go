package spapi

import "github.com/opsdash/backend/internal/domain/order"

// tokenResponse is the LWA token endpoint's JSON response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ordersResponse is the getOrders response envelope. Orders live under the
// nested payload field; anything else is ignored.
type ordersResponse struct {
	Payload struct {
		Orders []order.RawOrder `json:"Orders"`
	} `json:"payload"`
}
