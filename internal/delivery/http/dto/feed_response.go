package dto

import "skill-hire/internal/domain/notification"

type WorkerFeedResponse struct {
	Notifications []notification.WorkerFeedItem `json:"notifications"`
	Unread        int                           `json:"unread"`
	EmptyMessage  string                        `json:"empty_message,omitempty"`
}

type AdminFeedResponse struct {
	Notifications []notification.AdminNotification `json:"notifications"`
	Counts        map[notification.AdminStatus]int `json:"counts"`
}
