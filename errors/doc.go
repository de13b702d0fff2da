// Package errors provides the structured error type shared by the API client
// packages. Every failure surfaced to callers is an *AppError carrying a
// machine-readable code, so callers can branch with IsConfiguration,
// IsMissingCredentials, IsPluginAttachment or errors.As.
package errors
