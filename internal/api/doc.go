// Package api contains the HTTP handlers for the ordering service. Handlers
// decode and validate requests, call services and stores, and render every
// reply in the response envelope the browser and CLI clients consume.
package api
