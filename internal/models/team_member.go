package models

// TeamMember — профиль пользователя с настройкой часового пояса.
type TeamMember struct {
	ID       int    `json:"id"`
	UserID   int    `json:"user_id"`
	Timezone string `json:"timezone"`
}
