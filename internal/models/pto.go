package models

const (
	PTOStatusPending  = "Pending"
	PTOStatusApproved = "Approved"
	PTOStatusRejected = "Rejected"
)

type PTORequest struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	Username  string `json:"username,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
}

type PTOForm struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}
