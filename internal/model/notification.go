package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType tags what event produced a notification
type NotificationType string

const (
	NotifyCampApproval      NotificationType = "CAMP_APPROVAL"
	NotifyCampRejection     NotificationType = "CAMP_REJECTION"
	NotifyHospitalApproval  NotificationType = "HOSPITAL_APPROVAL"
	NotifyHospitalRejection NotificationType = "HOSPITAL_REJECTION"
	NotifyEmergencyAlert    NotificationType = "EMERGENCY_ALERT"
	NotifyDisasterAlert     NotificationType = "DISASTER_ALERT"
	NotifyAttendanceMarked  NotificationType = "ATTENDANCE_MARKED"
	NotifyBloodRequest      NotificationType = "BLOOD_REQUEST"
)

// Notification is a fire-and-forget message row addressed to one user
type Notification struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	RecipientID uuid.UUID        `json:"recipient_id" db:"recipient_id"`
	Title       string           `json:"title" db:"title"`
	Message     string           `json:"message" db:"message"`
	Type        NotificationType `json:"notification_type" db:"notification_type"`
	IsRead      bool             `json:"is_read" db:"is_read"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

type MarkReadRequest struct {
	NotificationID uuid.UUID `json:"notification_id" binding:"required"`
}
