// Package core defines the shared language of sqlscript.
//
// This package contains:
//   - Result entities (ScriptResult, QueryResult, Field)
//   - The ordered Record container used for rows
//   - Service interfaces (Adapter)
//   - Configuration types (AdapterConfig, TargetConfig, ProjectConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
