// AngelaMos | 2026
// dto.go

package device

import "time"

type RegisterRequest struct {
	PushToken string   `json:"push_token" validate:"required,max=255"`
	Platform  Platform `json:"platform"   validate:"required,oneof=ios android web"`
}

type DeviceResponse struct {
	ID        string    `json:"id"`
	PushToken string    `json:"push_token"`
	Platform  Platform  `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToDeviceResponse(d *UserDevice) DeviceResponse {
	return DeviceResponse{
		ID:        d.ID,
		PushToken: d.PushToken,
		Platform:  d.Platform,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
