// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines general-purpose constants related to
// routing and request parameters. These constants ensure consistent API
// patterns and URL structure throughout the application.
package constants

// Base Routes define the root URL paths for different parts of the API.
const (
	// APIBasePath is the root path prefix for all API endpoints.
	APIBasePath = "/api"

	// HealthPath is the endpoint for health checks and system status.
	HealthPath = "/health"
)

// URL Parameters define path parameter names used in route definitions.
const (
	// ParamUniqueID is the URL parameter for public profile identifiers.
	ParamUniqueID = "uniqueID"

	// ParamIdeaID is the URL parameter for idea identifiers.
	ParamIdeaID = "ideaID"

	// ParamLinkID is the URL parameter for social link identifiers.
	ParamLinkID = "linkID"
)

// Query Parameters define common query string parameter names.
const (
	// QueryParamPage is the query parameter for pagination page number.
	QueryParamPage = "page"

	// QueryParamPageSize is the query parameter for pagination page size.
	QueryParamPageSize = "page_size"

	// QueryParamAccountID is the query parameter for account handle lookups.
	QueryParamAccountID = "account_id"

	// QueryParamDays is the query parameter for analytics trailing windows.
	QueryParamDays = "days"

	// QueryParamTag is the query parameter for filtering ideas by tag.
	QueryParamTag = "tag"
)
