package worker

import (
	"go.uber.org/zap"

	"github.com/parentchild/account-service/internal/service"
)

// StartNotificationWorker registers notification handlers. Delivery itself runs
// on the scheduler executor owned by the notification service.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if logger != nil {
		logger.Info("notification worker started")
	}
}
