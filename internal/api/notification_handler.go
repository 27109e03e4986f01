package api

import (
	"net/http"

	"github.com/mealio/ordering-api/internal/api/shared"
	"github.com/mealio/ordering-api/internal/service/notification"
)

// NotificationHandler handles notification feed requests.
type NotificationHandler struct {
	notifications *notification.Service
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications *notification.Service) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /notifications, returning the caller's notifications
// most recent first. Unlike the catalog and cart, an empty feed is a normal
// 200 with an empty list.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	list, err := h.notifications.ListForUser(r.Context(), userID)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NotificationListResponse{
		Status:        true,
		Notifications: list,
	})
}
