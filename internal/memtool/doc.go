// Package memtool implements the memory tool command handler.
//
// Includes:
//   - Handler: one sandboxed memory root, seven commands (view, create,
//     str_replace, insert, delete, rename, plus host-only clear_all).
//   - Input/Result: the request/response boundary; a Result carries exactly
//     one of a success or an error message, and no error ever unwinds past
//     Execute.
//   - Invariants: every path argument passes safety.Resolve before the store
//     is touched; a rejected command leaves the memory root unchanged.
//
// Each Execute call is an independent synchronous unit of work. Concurrent
// views are safe; mutations of one root must be serialised by the host (one
// handler per active session).
package memtool
