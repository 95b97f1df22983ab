package dto

import "time"

// MarkReadRequest is the JSON body for marking a notification as read.
type MarkReadRequest struct {
	UserID         string `json:"userid" validate:"required"`
	NotificationID string `json:"notificationid" validate:"required"`
}

// DeleteRequest is the JSON body for deleting a notification.
type DeleteRequest struct {
	UserID         string `json:"userid" validate:"required"`
	NotificationID string `json:"notificationid" validate:"required"`
}

// NotificationItem is the representation of a notification in list responses.
type NotificationItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	WasRead     bool      `json:"wasRead"`
}

// ListResponse is the envelope for the list endpoint. The endpoint never
// fails hard: internal failures are reported with Success=false and an empty
// list.
type ListResponse struct {
	Success       bool               `json:"success"`
	Message       string             `json:"message"`
	Notifications []NotificationItem `json:"notifications"`
}

// ActionResponse is the envelope for mark-read and delete responses.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UnreadCountResponse is the envelope for the unread counter endpoint.
type UnreadCountResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}
