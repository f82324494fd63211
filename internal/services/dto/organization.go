package dto

import "time"

// ---------------- Requests ----------------

type RequestPartnershipRequest struct {
	BrokerOrgID    string `json:"broker_org_id" validate:"required"`
	DeveloperOrgID string `json:"developer_org_id" validate:"required"`
}

type ReviewPartnershipRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type PartnershipCriteria struct {
	OrgID  string `form:"org_id" validate:"required"`
	Status string `form:"status" validate:"omitempty,oneof=pending approved rejected"`
}

// ---------------- Responses ----------------

type PartnershipResponse struct {
	ID             string    `json:"id"`
	BrokerOrgID    string    `json:"broker_org_id"`
	DeveloperOrgID string    `json:"developer_org_id"`
	Status         string    `json:"status"`
	RequestedBy    string    `json:"requested_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PartnershipListResponse struct {
	Partnerships []*PartnershipResponse `json:"partnerships"`
	Total        int64                  `json:"total"`
}
