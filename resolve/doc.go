// Package resolve orchestrates cross-system terminology resolution. A
// resolution is an interactive two-step workflow: candidates for one side
// are fetched and one is confirmed, then candidates for the other side are
// fetched and one is confirmed, producing an appended mapping and an
// immutable dual-coded condition record. Cancellation at either step is a
// first-class outcome and leaves no partial mapping state.
//
// The workflow is modeled as a small state machine driven through a
// two-phase API (Begin, then Select per step), so non-interactive callers
// can hold a Session across requests. Run wraps the same machine behind a
// blocking Selector for CLI use.
package resolve
