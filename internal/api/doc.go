// Package api exposes the planner over HTTP. Handlers decode and validate
// requests, resolve the authenticated user from the request context and pass
// that user's ID explicitly to the services. Errors are logged in redacted
// form and answered with a fixed, user-safe message.
package api
