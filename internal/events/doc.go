// Package events provides the notification fan-out primitives.
//
// After a notification has been stored durably, the notification service
// emits a NotificationEvent to the registered handlers. Handlers deliver the
// event over side channels such as Redis pub/sub; delivery is best effort and
// a handler failure never affects the stored notification.
package events
