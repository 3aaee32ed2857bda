package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderAuthorization       = "Authorization"
	HeaderXRequestID          = "X-Request-ID"
	HeaderCFConnectingIP      = "CF-Connecting-IP"
	HeaderContentType         = "Content-Type"
	ContentTypeJSON           = "application/json"
	AuthorizationSchemeBearer = "Bearer"

	// Context keys set by the auth middleware
	ContextKeyUserID     = "user_id"
	ContextKeyExternalID = "external_id"
	ContextKeyUserPlan   = "user_plan"
	ContextKeyAuthKey    = "auth_key"
	ContextKeyRequestID  = "request_id"

	// Database table names
	TableUsers  = "users"
	TableUsages = "usages"

	// Cache key prefixes
	CacheKeyPrefixAuth = "auth:"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
)
