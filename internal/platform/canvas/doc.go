// Package canvas is a client for the course-management service's REST API.
// It lists a user's favourite courses and their assignments, following the
// Link header page chain up to a configured page cap.
package canvas
