package model

import (
	"time"
)

// NotificationType is the event kind behind a notification.
type NotificationType string

const (
	NotificationIdeaSubmitted    NotificationType = "idea_submitted"
	NotificationIdeaImplementing NotificationType = "idea_implementing"
	NotificationIdeaApproved     NotificationType = "idea_approved"
	NotificationIdeaImplemented  NotificationType = "idea_implemented"
	NotificationReviewAssigned   NotificationType = "review_assigned"
)

// Notification is an in-app message for one principal. Recipients poll for
// them; they are never deleted.
type Notification struct {
	ID                      string           `json:"id" bson:"_id" db:"id"`
	Recipient               string           `json:"recipient" bson:"recipient" db:"recipient_id"`
	RecipientEmployeeNumber string           `json:"recipientEmployeeNumber" bson:"recipientEmployeeNumber" db:"recipient_employee_number"`
	Type                    NotificationType `json:"type" bson:"type" db:"type"`
	Title                   string           `json:"title" bson:"title" db:"title"`
	Message                 string           `json:"message" bson:"message" db:"message"`
	RelatedIdea             string           `json:"relatedIdea,omitempty" bson:"relatedIdea,omitempty" db:"related_idea_id"`
	IsRead                  bool             `json:"isRead" bson:"isRead" db:"is_read"`
	ReadAt                  *time.Time       `json:"readAt,omitempty" bson:"readAt,omitempty" db:"read_at"`
	Priority                Priority         `json:"priority" bson:"priority" db:"priority"`
	CreatedAt               time.Time        `json:"createdAt" bson:"createdAt" db:"created_at"`
}
