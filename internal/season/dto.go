// AngelaMos | 2026
// dto.go

package season

import "time"

type SeasonRequest struct {
	Name       string `json:"name"        validate:"required,min=1,max=100"`
	StartMonth int    `json:"start_month" validate:"required,min=1,max=12"`
	StartDay   int    `json:"start_day"   validate:"required,min=1,max=31"`
	EndMonth   int    `json:"end_month"   validate:"required,min=1,max=12"`
	EndDay     int    `json:"end_day"     validate:"required,min=1,max=31"`
}

type SeasonResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartMonth int       `json:"start_month"`
	StartDay   int       `json:"start_day"`
	EndMonth   int       `json:"end_month"`
	EndDay     int       `json:"end_day"`
	Wraps      bool      `json:"wraps_year"`
	CreatedAt  time.Time `json:"created_at"`
}

type CurrentSeasonResponse struct {
	Season *SeasonResponse `json:"season"`
}

func ToSeasonResponse(s *Season) SeasonResponse {
	return SeasonResponse{
		ID:         s.ID,
		Name:       s.Name,
		StartMonth: s.StartMonth,
		StartDay:   s.StartDay,
		EndMonth:   s.EndMonth,
		EndDay:     s.EndDay,
		Wraps:      s.Wraps(),
		CreatedAt:  s.CreatedAt,
	}
}

func ToSeasonResponseList(seasons []Season) []SeasonResponse {
	out := make([]SeasonResponse, 0, len(seasons))
	for i := range seasons {
		out = append(out, ToSeasonResponse(&seasons[i]))
	}
	return out
}
