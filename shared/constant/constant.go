package constant

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUserRole contextKey = "user_role"
	ContextKeyTenantID contextKey = "tenant_id"
)

const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleOperator   = "operator"
)

const (
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
)

const (
	RequestParamID       = "id"
	RequestParamTenantID = "tenant_id"
	RequestParamName     = "name"
	RequestParamFrom     = "from"
	RequestParamTo       = "to"
)

const (
	DefaultValuePage    = 1
	DefaultValueLimit   = 10
	DefaultValueSortBy  = "created_at"
	DefaultValueSortDir = "DESC"
)

const (
	FieldCreatedAt  = "created_at"
	FieldCreatedBy  = "created_by"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	OtelHandlerScopeName    = "handler"
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelAutomationScopeName = "automation"
	OtelNotifyScopeName     = "notify"
	OtelQueryAttributeKey   = "db.query"
)

const (
	RequestHeaderContentType   = "Content-Type"
	RequestHeaderAuthorization = "Authorization"
	RequestHeaderAPIKey        = "X-Api-Key"
	RequestHeaderTenantID      = "X-Tenant-Id"
	RequestHeaderUserAgent     = "User-Agent"
	RequestHeaderForwardedFor  = "X-Forwarded-For"
	RequestHeaderRealIP        = "X-Real-Ip"
	ContentTypeJSON            = "application/json"
)

const (
	HeaderRateLimit          = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitWindow    = "X-RateLimit-Window"
)

const (
	ResponseErrorRequestLimitExceeded = "Request limit exceeded, please try again later"
	ResponseErrorPrepareShutdown      = "Server is preparing to shut down"
	ResponseErrorUnhealthy            = "Server is unhealthy"
)

const (
	Empty      = ""
	DateFormat = "2006-01-02 15:04:05"
	DateOnly   = "2006-01-02"
)

const (
	PqErrorCodeUniqueViolation = "23505"
	PqErrorCodeFkViolation     = "23503"
)
