// Package worker hosts background wiring done once at boot.
package worker

import (
	"github.com/spec-kit/helpdesk-portal/internal/service"
)

// StartNotificationWorker hooks the notification service into the event
// stream: ticket created, ticket status changed, and directory synced
// all fan out to the log and the optional webhook from here on.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
