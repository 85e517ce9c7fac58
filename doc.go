// Package pages declares and provisions content records idempotently.
//
// A host hands the registrar two storage collaborators, a ContentStore for
// the records themselves and a SettingsStore for the registrar's own
// bookkeeping, then declares pages under stable string keys and calls
// Install during startup or upgrade. Install reconciles declarations against
// live records: a key whose stored record ID still resolves is left alone,
// everything else is created, and the key→record-ID mapping is persisted so
// later passes create nothing. A version gate skips the pass entirely once
// it has completed for the configured version.
//
// The registrar is not safe for concurrent use. Drive it from a single
// startup or admin code path; the last writer wins on shared storage.
package pages
