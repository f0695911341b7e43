package models

import "time"

// Shift — рабочая смена. Времена всегда хранятся в UTC.
type Shift struct {
	ID           int       `json:"id"`
	MemberID     int       `json:"member_id"`
	Title        string    `json:"title"`
	StartTimeUTC time.Time `json:"start_time_utc"`
	EndTimeUTC   time.Time `json:"end_time_utc"`
	Notes        string    `json:"notes,omitempty"`
	CreatedBy    *int      `json:"created_by,omitempty"`
}

// LocalizedShift — смена с временем, переведённым в часовой пояс зрителя.
type LocalizedShift struct {
	Shift
	StartLocal string `json:"start_local"`
	EndLocal   string `json:"end_local"`
}

type ShiftForm struct {
	MemberID     int    `json:"member_id"`
	Title        string `json:"title"`
	StartTimeUTC string `json:"start_time_utc"`
	EndTimeUTC   string `json:"end_time_utc"`
	Notes        string `json:"notes,omitempty"`
}
