// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The ingestion, retrieval, routing and composition stages live here.
// Providers are injected through constructors; services never build clients.
package services
