package models

import "time"

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"-"`
	RoleID       int    `json:"role_id"`

	RefreshToken     *string    `json:"-"`
	RefreshExpiresAt *time.Time `json:"-"`
	RefreshRevoked   bool       `json:"-"`

	TelegramChatID int64 `json:"telegram_chat_id"`
	NotifyTelegram bool  `json:"notify_telegram"`
	NotifyEmail    bool  `json:"notify_email"`

	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type NotificationSettings struct {
	TelegramChatID *int64 `json:"telegram_chat_id"`
	NotifyTelegram *bool  `json:"notify_telegram"`
	NotifyEmail    *bool  `json:"notify_email"`
}
