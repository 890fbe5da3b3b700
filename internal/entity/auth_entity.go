package entity

// TokenClaims is what the gateway-issued access token carries about the
// authenticated user. This service only reads claims, it never issues tokens.
type TokenClaims struct {
	UserId UserID `json:"userId"`
	Name   string `json:"name"`
}
