package models

import "time"

// ============================================
// Common
// ============================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Relogin bool   `json:"relogin,omitempty"`
}

// ============================================
// Session DTOs
// ============================================

type IdentityResponse struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Department  string `json:"department,omitempty"`
	JobRole     string `json:"jobRole,omitempty"`
	Company     string `json:"company,omitempty"`
	CompanyCode string `json:"companyCode,omitempty"`
}

type ScopeResponse struct {
	IsSuperAdmin bool   `json:"isSuperAdmin"`
	Filter       string `json:"filter"`
	Company      string `json:"company,omitempty"`
	CompanyCode  string `json:"companyCode,omitempty"`
}

type SessionResponse struct {
	Identity IdentityResponse `json:"identity"`
	Scope    ScopeResponse    `json:"scope"`
}

// ============================================
// Screen DTOs
// ============================================

type ScopeRequest struct {
	ShowAll *bool `json:"showAll" binding:"required"`
}

// Row is one list entry with its control state.
type Row[T any] struct {
	Record    T    `json:"record"`
	CanRemove bool `json:"canRemove"`
}

type ListResponse[T any] struct {
	Kind    string         `json:"kind"`
	Items   []Row[T]       `json:"items"`
	Count   int            `json:"count"`
	ShowAll bool           `json:"showAll"`
	Scope   ScopeResponse  `json:"scope"`
	State   string         `json:"state"`
	Error   string         `json:"error,omitempty"`
	Summary map[string]any `json:"summary,omitempty"`
}

// ============================================
// Audit DTOs
// ============================================

type AuditEntryResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entityId,omitempty"`
	Outcome   string    `json:"outcome"`
	Message   string    `json:"message,omitempty"`
	ActorName string    `json:"actorName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
