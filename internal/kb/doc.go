// Package kb implements collection management for the knowledge-base
// service.
//
// # Overview
//
// The manager owns the collection list, the currently selected collection
// and its two derived views: the document list and the access key.
// Selecting a collection fires both fetches; selecting a different one
// invalidates them via a per-selection token, so a late response for a
// collection that is no longer selected is discarded instead of being
// applied to the wrong view.
//
// # Uploads
//
// Files are uploaded as one multipart batch. Batches over twenty files
// are rejected before any network activity. A busy flag is exposed while
// a batch is in flight, but a second batch is not prevented from
// starting; upload batches are not mutually exclusive.
//
// # Access keys
//
// A collection holds at most one key. Issuance is only offered while no
// key is present; there is no revocation or rotation.
package kb
