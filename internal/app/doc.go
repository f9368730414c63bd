// Package app composes the platform's domain services into a running
// application.
//
// # Package Structure
//
//	internal/app/
//	├── application.go      # Application struct, wiring, and lifecycle
//	├── domain/             # Domain models (pure data structures)
//	│   ├── user/           # Accounts and sessions
//	│   ├── wallet/         # IXP wallets, ledger entries, tiers
//	│   ├── onboarding/     # Questionnaire profiles and answer catalogs
//	│   ├── automation/     # Service catalog and interactions
//	│   └── ...             # payment, insight, admin
//	├── storage/            # Storage interfaces and implementations
//	│   ├── interfaces.go   # Store interfaces (UserStore, WalletStore, ...)
//	│   ├── memory/         # In-memory implementation
//	│   └── postgres/       # PostgreSQL implementation for production
//	├── services/           # Business logic (accounts, wallet, automation, ...)
//	├── httpapi/            # HTTP API handlers and routing
//	├── system/             # Lifecycle management for background services
//	└── metrics/            # Prometheus collectors
//
// The app package wires services from internal/app/services/ with their
// storage dependencies, defaults missing stores to the in-memory
// implementation, and registers background services (such as the monthly
// allowance scheduler) with the lifecycle manager. Business logic belongs in
// the service packages, HTTP concerns in httpapi, and persistence behind the
// storage interfaces.
//
// # Adding a New Domain
//
//  1. Create domain models in internal/app/domain/<name>/
//  2. Add a store interface to internal/app/storage/interfaces.go
//  3. Implement it in internal/app/storage/postgres/ and memory/
//  4. Create the service in internal/app/services/<name>/service.go
//  5. Wire the service in internal/app/application.go
//  6. Add HTTP handlers in internal/app/httpapi/
package app
