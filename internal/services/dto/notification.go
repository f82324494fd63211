package dto

import "time"

// ---------------- Requests ----------------

type NotificationIDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type MarkReadByTypeRequest struct {
	Types []string `json:"types" validate:"required,min=1,dive,oneof=general message"`
}

type NotificationCriteria struct {
	Page       int  `form:"page"`
	PageSize   int  `form:"page_size"`
	UnreadOnly bool `form:"unread_only"`
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Link      string                 `json:"link,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}

type CounterResponse struct {
	Count        int64 `json:"count"`
	MessageCount int64 `json:"message_count"`
}
