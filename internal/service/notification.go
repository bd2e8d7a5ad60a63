package service

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTripStarted NotificationType = "TRIP_STARTED"
	NotificationTripEnded   NotificationType = "TRIP_ENDED"
	NotificationIdlePrompt  NotificationType = "IDLE_PROMPT"
)

// PromptActionContinue and PromptActionStop are the two named actions
// carried on the idle prompt. Opening the notification body counts as
// the default action, equivalent to "continue".
const (
	PromptActionContinue = "continue"
	PromptActionStop     = "stop"
	PromptDefaultAction  = PromptActionContinue
)

// Notification represents a notification to be sent.
type Notification struct {
	ID        string
	Type      NotificationType
	DeviceID  string
	Title     string
	Message   string
	Actions   []string
	Data      map[string]interface{}
	CreatedAt time.Time
}

// NotificationService is the prompt/notification channel collaborator.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - WebSocket connections for real-time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// PromptIdle emits the idle watchdog's continue/stop prompt.
func (s *NotificationService) PromptIdle(deviceID, tripID string, idleFor, timeout time.Duration) {
	notification := Notification{
		ID:       uuid.New().String(),
		Type:     NotificationIdlePrompt,
		DeviceID: deviceID,
		Title:    "Still in the taxi?",
		Message:  "The meter has been idle. Keep running or stop the trip?",
		Actions:  []string{PromptActionContinue, PromptActionStop},
		Data: map[string]interface{}{
			"trip_id":         tripID,
			"idle_seconds":    int64(idleFor.Seconds()),
			"timeout_seconds": int64(timeout.Seconds()),
			"default_action":  PromptDefaultAction,
		},
		CreatedAt: time.Now(),
	}
	s.send(notification)
}

// NotifyTripStarted announces a new running trip.
func (s *NotificationService) NotifyTripStarted(deviceID, tripID string) {
	s.send(Notification{
		ID:        uuid.New().String(),
		Type:      NotificationTripStarted,
		DeviceID:  deviceID,
		Title:     "Meter running",
		Message:   "Trip started.",
		Data:      map[string]interface{}{"trip_id": tripID},
		CreatedAt: time.Now(),
	})
}

// NotifyTripEnded announces a completed trip with its final fare.
func (s *NotificationService) NotifyTripEnded(trip *domain.Trip) {
	s.send(Notification{
		ID:       uuid.New().String(),
		Type:     NotificationTripEnded,
		DeviceID: trip.DeviceID,
		Title:    "Trip completed",
		Message:  "Your estimated fare is ready.",
		Data: map[string]interface{}{
			"trip_id":    trip.ID,
			"total_fare": trip.Fare.TotalFare,
			"ended_by":   string(trip.EndedBy),
		},
		CreatedAt: time.Now(),
	})
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(notification Notification) {
	// In a real implementation, this would push via FCM/APNS and
	// broadcast over WebSocket for in-app banners.

	log.Printf("[NOTIFICATION] Type=%s, Device=%s, Title=%s, Actions=%v",
		notification.Type, notification.DeviceID, notification.Title, notification.Actions)
}
