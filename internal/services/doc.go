// Package services implements the business logic layer the CLI drives.
//
// # Service Dependency Graph
//
//	CLI commands
//	    │
//	    ▼
//	Services Layer
//	    ├── VerificationService ──► verify.Runner, HistoryService (optional)
//	    └── HistoryService ───────► Store
//
// # VerificationService
//
// Verify performs one full pass through verify.Runner. When a HistoryService is
// attached the finished run is saved; a failure to save is reported as an
// InternalError but the run is still returned so the caller can print it.
//
// # HistoryService
//
// Thin layer over store.RunStore. List translates HistoryListParams into store
// ListOptions and returns the total number of matching runs next to the current page.
package services
