package constant

// Token kinds carried in the "kind" claim.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// Fiber locals keys set by the authentication gate.
const (
	LocalsPrincipal = "principal"
	LocalsRole      = "role"
)
