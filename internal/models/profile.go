package models

// Profile is the composite read model for a profile page: the user record
// together with its social links and ideas.
type Profile struct {
	User        *User        `json:"user"`
	SocialLinks []SocialLink `json:"social_links"`
	Ideas       []Idea       `json:"ideas"`
}

// PublicProfile is the composite returned for public unique-id URLs. When the
// owner has an enabled secret the page is locked: only the user summary and
// the secret question are exposed until the visitor answers correctly.
type PublicProfile struct {
	User        *User        `json:"user"`
	SocialLinks []SocialLink `json:"social_links,omitempty"`
	Ideas       []Idea       `json:"ideas,omitempty"`
	Locked      bool         `json:"locked"`
	Question    string       `json:"question,omitempty"`
}

// AccountIDAvailability reports whether a handle is free to register.
type AccountIDAvailability struct {
	AccountID string `json:"account_id"`
	Available bool   `json:"available"`
}
