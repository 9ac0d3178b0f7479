package dto

import (
	"skill-hire/internal/session"
)

func NewSessionResponse(s session.Session) SessionResponse {
	out := SessionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Email:     s.Email,
		Phone:     s.Phone,
		Role:      s.Role,
		IssuedAt:  s.IssuedAt,
		HasRecord: s.HasRecord(),
	}
	if s.HasRecord() {
		id := s.RecordID
		out.RecordID = &id
	}
	return out
}
