// Package attributes resolves DQF enumerations ("basic attributes") such as
// languages, severities, error categories and content types into the remote
// ids the API expects.
//
// The Resolver keeps the authoritative list in memory. It must be
// initialized explicitly from a Source before any resolution; nothing is
// loaded implicitly on first access. A refresh replaces the list wholesale
// and a failed refresh leaves the previous list in place.
//
// Sources:
//   - RemoteSource fetches the aggregate from the API.
//   - FileSnapshot reads and writes a JSON snapshot on an afero filesystem.
//   - s3snapshot.Store reads and writes the same snapshot in an S3 bucket.
//   - Mirror fetches from one source and persists into a snapshot store.
package attributes
