package handler

import "time"

// --- Request types ---

type createCaseRequest struct {
	CompanyName  string `json:"company_name"  validate:"required"`
	EmployeeName string `json:"employee_name"`
	Reason       string `json:"reason"`
	// UserID may only be set by admins creating a case on a user's behalf.
	UserID string `json:"user_id"`
	Status string `json:"status" validate:"omitempty,oneof=draft submitted hearing negotiating completed cancelled"`
}

type updateCaseRequest struct {
	CompanyName  *string `json:"company_name"`
	EmployeeName *string `json:"employee_name"`
	Reason       *string `json:"reason"`
	Status       *string `json:"status" validate:"omitempty,oneof=draft submitted hearing negotiating completed cancelled"`
}

type recordCallResultRequest struct {
	Summary string `json:"summary" validate:"required"`
	Outcome string `json:"outcome"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type caseLinks struct {
	Self    string `json:"self"`
	Call    string `json:"call"`
	Results string `json:"results"`
}

type caseResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	CompanyName  string     `json:"company_name"`
	EmployeeName string     `json:"employee_name,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	Status       string     `json:"status"`
	StatusLabel  string     `json:"status_label"`
	Progress     int        `json:"progress"`
	LastCallAt   *time.Time `json:"last_call_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Links        caseLinks  `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listCasesResponse struct {
	Data       []caseResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type callSessionResponse struct {
	RoomName    string `json:"room_name"`
	AccessToken string `json:"access_token"`
	LiveKitURL  string `json:"livekit_url"`
}

type callResultResponse struct {
	ID        string    `json:"id"`
	CaseID    string    `json:"case_id"`
	Summary   string    `json:"summary"`
	Outcome   string    `json:"outcome,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type caseStatisticsResponse struct {
	Total          int64            `json:"total"`
	ThisMonth      int64            `json:"this_month"`
	StatusCounts   map[string]int64 `json:"status_counts"`
	CompletionRate float64          `json:"completion_rate"`
}
