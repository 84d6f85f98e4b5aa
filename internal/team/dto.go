// AngelaMos | 2026
// dto.go

package team

import "time"

type TeamRequest struct {
	Name  string `json:"name"  validate:"required,min=1,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type MemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type TeamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	IconURL     *string   `json:"icon_url"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type TeamDetailResponse struct {
	TeamResponse
	Members []Member `json:"members"`
}

func ToTeamResponse(t *Team) TeamResponse {
	return TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Color:       t.Color,
		IconURL:     t.IconURL,
		MemberCount: t.MemberCount,
		CreatedAt:   t.CreatedAt,
	}
}

func ToTeamResponseList(teams []Team) []TeamResponse {
	out := make([]TeamResponse, 0, len(teams))
	for i := range teams {
		out = append(out, ToTeamResponse(&teams[i]))
	}
	return out
}
