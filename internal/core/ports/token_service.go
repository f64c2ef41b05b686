package ports

// AccessClaims are the verified claims of an access token.
type AccessClaims struct {
	Subject string
	Role    string
}

// TokenService mints and validates the two token kinds. Access and refresh
// tokens are signed with independent secrets and carry independent
// lifetimes; validation failures collapse to domain.ErrInvalidToken without
// revealing which check failed.
type TokenService interface {
	IssueAccessToken(id, role string) (string, error)
	IssueRefreshToken(id string) (string, error)
	ValidateAccessToken(token string) (*AccessClaims, error)
	ValidateRefreshToken(token string) (string, error)
}
