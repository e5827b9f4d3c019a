// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// LookupService resolves terms through the query cache, Controller owns
// the retrieval state of the interactive screen, and SettingsService
// maps AppSettings onto the flat configuration keys.
package services
