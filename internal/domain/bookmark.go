package domain

import "time"

// Bookmark records that an account saved an app.
// The (AccountID, AppID) pair is unique.
type Bookmark struct {
	ID        int64     `json:"id"`
	AccountID string    `json:"userId"`
	AppID     int64     `json:"appId"`
	CreatedAt time.Time `json:"createdAt"`

	// App is the joined app row. It is nil when the app no longer exists.
	App *App `json:"app"`
}
