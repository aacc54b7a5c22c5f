// Package store keeps the history of verification runs in DuckDB.
//
// # Architecture Overview
//
//	┌──────────────────────────────────────┐
//	│            Store (facade)            │
//	├──────────────────────────────────────┤
//	│               RunStore               │
//	│                  ▼                   │
//	│         runs, check_results          │
//	└──────────────────────────────────────┘
//
// Tables are created by the embedded migrations in internal/store/migrations/sql/:
//
//	┌────────────────────┬───────────────────────────────────────────┐
//	│  Table             │  Purpose                                  │
//	├────────────────────┼───────────────────────────────────────────┤
//	│  runs              │  One row per verification run             │
//	│  check_results     │  Outcome of each check, keyed by position │
//	│  schema_migrations │  Migration version tracking               │
//	└────────────────────┴───────────────────────────────────────────┘
//
// # Initialization Flow
//
//	db, _ := NewDB(path)
//	migrations.Run(ctx, db)
//	s := NewStore(db)
//
// # RunStore
//
// Methods:
//   - Save(ctx, run) → writes the run and its results in one transaction
//   - Get(ctx, id) → *models.Run, or ResourceNotFoundError
//   - List(ctx, opts...) → runs newest first
//   - Results(ctx, runID) → results in recorded order
//
// List accepts ListOption values that modify the squirrel.SelectBuilder (Count takes the same options):
// WithLimit, WithOffset and OnlyFailed.
//
// Durations are stored in microseconds. Timestamps are stored in UTC.
package store
