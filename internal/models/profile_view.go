package models

import (
	"time"
)

// ProfileView is an append-only record of a profile page visit. The viewer
// key is the visitor's IP address or session identifier, used only for
// deduplication and distinct-viewer counts.
type ProfileView struct {
	ID        int64     `json:"id" db:"view_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ViewerKey string    `json:"-" db:"viewer_key"`
	Referrer  string    `json:"referrer" db:"referrer"`
	ViewedAt  time.Time `json:"viewed_at" db:"viewed_at"`
}

// TableName returns the database table name for the ProfileView model.
func (pv *ProfileView) TableName() string {
	return "profile_views"
}

// DailyViewCount is one bucket of the per-day view series, labeled with the
// weekday name of the bucket's calendar date.
type DailyViewCount struct {
	Date    time.Time `json:"date"`
	Weekday string    `json:"weekday"`
	Count   int       `json:"count"`
}

// ProfileAnalytics summarizes view activity for one profile over a trailing
// window of WindowDays calendar days.
type ProfileAnalytics struct {
	WindowDays      int              `json:"window_days"`
	TotalViews      int              `json:"total_views"`
	DistinctViewers int              `json:"distinct_viewers"`
	Daily           []DailyViewCount `json:"daily"`
}
