// AngelaMos | 2026
// entity.go

package device

import "time"

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

// UserDevice is a push target. A push token belongs to at most one user;
// registering it again moves it.
type UserDevice struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	PushToken string    `db:"push_token"`
	Platform  Platform  `db:"platform"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
