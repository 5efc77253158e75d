package dto

type SetBlockedRequest struct {
	Blocked *bool `json:"blocked"`
}

type SetBlockedResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"userId"`
	Blocked bool   `json:"blocked"`
}

type DeleteUserResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"userId"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type StatsResponse struct {
	TotalUsers            int64           `json:"totalUsers"`
	TotalPlaces           int64           `json:"totalPlaces"`
	CategoryStats         []CategoryCount `json:"categoryStats"`
	UserRegistrationStats []MonthCount    `json:"userRegistrationStats"`
}
