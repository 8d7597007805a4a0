// Package api implements the HTTP surface of the card generation
// service: accepting generation requests, reporting their progress,
// listing templates and history, and serving exported files.
//
// Handlers stay thin. They decode and validate payloads, delegate to the
// generation, history, and settings packages, and translate the errors
// those packages return into HTTP status codes via MapErrorToStatusCode.
// Raw error strings never reach clients; RespondWithErrorAndLog logs the
// redacted error and sends a sanitized message instead.
package api
