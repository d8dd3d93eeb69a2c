// Package memory persists session transcripts so the agent can resume a
// conversation across runs.
//
// Persistence model:
//   - Only text messages are stored (role + text). Tool blocks are transient;
//     the durable facts the agent wants to keep belong in its /memories files,
//     not the transcript.
//   - The transcript lives next to the memory root so one base directory
//     carries a complete session.
package memory
