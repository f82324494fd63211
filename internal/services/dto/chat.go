package dto

import "time"

// ---------------- Requests ----------------

// SendMessageRequest - отправка сообщения. Либо в существующий тред
// (thread_id), либо первый контакт по объявлению (property_id + recipient_id).
type SendMessageRequest struct {
	ThreadID    *string `json:"thread_id,omitempty"`
	PropertyID  *string `json:"property_id,omitempty"`
	RecipientID *string `json:"recipient_id,omitempty"`
	Message     string  `json:"message" validate:"required,max=5000"`
}

type CreateGroupThreadRequest struct {
	Title          string   `json:"title" validate:"required,max=100"`
	OrgID          *string  `json:"org_id,omitempty"`
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1"`
}

// BroadcastRequest - рассылка от застройщика всем партнерским брокериджам.
// DeveloperOrgID обязателен, только если пользователь состоит в нескольких
// организациях-застройщиках.
type BroadcastRequest struct {
	DeveloperOrgID *string `json:"developer_org_id,omitempty"`
	Title          *string `json:"title,omitempty" validate:"omitempty,max=100"`
	Message        string  `json:"message" validate:"required,max=5000"`
}

type ThreadMessagesCriteria struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// MessagesQuery - выборка ленты: либо по thread_id, либо по property_id
// (с необязательным recipient_id, если у пользователя несколько переписок
// по объявлению).
type MessagesQuery struct {
	ThreadID    *string `form:"thread_id"`
	PropertyID  *string `form:"property_id"`
	RecipientID *string `form:"recipient_id"`
	Page        int     `form:"page"`
	PageSize    int     `form:"page_size"`
}

// ---------------- Responses ----------------

type MessageResponse struct {
	ID          string    `json:"id"`
	ThreadID    string    `json:"thread_id"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name,omitempty"`
	RecipientID *string   `json:"recipient_id,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

type ParticipantResponse struct {
	UserID   string    `json:"user_id"`
	UserName string    `json:"user_name,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

type ThreadResponse struct {
	ID             string                 `json:"id"`
	Type           string                 `json:"type"`
	Title          *string                `json:"title,omitempty"`
	PropertyID     *string                `json:"property_id,omitempty"`
	OrgID          *string                `json:"org_id,omitempty"`
	DeveloperOrgID *string                `json:"developer_org_id,omitempty"`
	BrokerageOrgID *string                `json:"brokerage_org_id,omitempty"`
	Participants   []*ParticipantResponse `json:"participants"`
	LastMessage    *MessageResponse       `json:"last_message,omitempty"`
	LastMessageAt  time.Time              `json:"last_message_at"`
	CreatedAt      time.Time              `json:"created_at"`
}

type ThreadListResponse struct {
	Threads    []*ThreadResponse `json:"threads"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

type MessageListResponse struct {
	Messages   []*MessageResponse `json:"messages"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
	HasMore    bool               `json:"has_more"`
}

// BroadcastResponse: delivered - число получателей, threads - число
// каналов, созданных этой рассылкой (существующие не считаются).
type BroadcastResponse struct {
	Delivered int `json:"delivered"`
	Threads   int `json:"threads"`
}
