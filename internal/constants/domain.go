// Package constants provides shared constant values used throughout the application.
//
// The domain.go file defines the domain vocabulary of the profile service:
// the recognized social link providers, the fixed set of idea tags, public
// unique id parameters, validation boundaries, and analytics windows. These
// values are contracts with stored data and public URLs; changing them is a
// data migration, not a tweak.
package constants

import "time"

// Social Link Providers define the closed set of recognized providers.
// A social link whose provider is not in this set is rejected at creation.
const (
	ProviderTwitter   = "twitter"
	ProviderInstagram = "instagram"
	ProviderFacebook  = "facebook"
	ProviderTikTok    = "tiktok"
)

// SocialLinkProviders lists all recognized providers for validation and docs.
var SocialLinkProviders = []string{
	ProviderTwitter,
	ProviderInstagram,
	ProviderFacebook,
	ProviderTikTok,
}

// Idea Tags define the closed set of categories an idea may carry.
// An empty tag is valid and means "untagged".
var IdeaTags = []string{
	"tech",
	"design",
	"business",
	"lifestyle",
	"travel",
	"food",
	"music",
	"sports",
	"education",
	"other",
}

// Public Unique ID parameters. The unique id appears in shareable profile
// URLs, so the alphabet must stay URL-safe and the length stable.
const (
	// UniqueIDLength is the length of the generated public profile identifier.
	UniqueIDLength = 10

	// UniqueIDAlphabet is the 62-symbol alphabet unique ids are drawn from.
	UniqueIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// UniqueIDMaxAttempts bounds the retry loop when a generated id collides.
	UniqueIDMaxAttempts = 5
)

// Validation Boundaries define the accepted lengths for user-supplied fields.
const (
	// MinAccountIDLength is the minimum length of a user-chosen account handle.
	MinAccountIDLength = 3

	// MaxAccountIDLength is the maximum length of a user-chosen account handle.
	MaxAccountIDLength = 20

	// MinNicknameLength is the minimum length of a display name.
	MinNicknameLength = 1

	// MaxNicknameLength is the maximum length of a display name.
	MaxNicknameLength = 50

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// MaxEmailLength is the maximum accepted email address length.
	MaxEmailLength = 255

	// MaxAvatarBytes is the maximum decoded size of an embedded avatar image.
	MaxAvatarBytes = 2 * 1024 * 1024
)

// Analytics Windows define the time-based behavior of profile view tracking.
const (
	// ViewDedupWindow suppresses repeat views from the same viewer within it.
	ViewDedupWindow = 60 * time.Minute

	// AnalyticsDailyBuckets is the number of trailing calendar days reported.
	AnalyticsDailyBuckets = 7

	// DefaultAnalyticsDays is the trailing window when the caller names none.
	DefaultAnalyticsDays = 30

	// MaxAnalyticsDays caps the trailing window a caller may request.
	MaxAnalyticsDays = 365
)

// Context Key Names used to stash authenticated request data.
const (
	UserIDContextKey    = "user_id"
	AccountIDContextKey = "account_id"
	EmailContextKey     = "email"
	RequestIDContextKey = "request_id"
)

// Auth Token Types distinguish access tokens from refresh tokens.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Cookie Names
const (
	RefreshTokenCookie = "refresh_token"
	AuthTokenCookie    = "auth_token"
)
