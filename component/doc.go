// Package component defines the lifecycle interface shared by the
// long-lived parts of an application, such as the API client, and a
// registry that starts them in order and stops them in reverse.
//
// # Interfaces
//
//   - Component: Name/Start/Stop/Health
//   - Describable: one-line startup summaries
package component
