package worker

import (
	"github.com/spec-kit/ticketbot/internal/service"
)

// StartMessageWorker registers the inbound message subscribers.
func StartMessageWorker(messageService *service.MessageService) {
	if messageService == nil {
		return
	}
	messageService.RegisterHandlers()
}
