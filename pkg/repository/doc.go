// Package repository synchronizes the dqf domain graph with the remote DQF
// service.
//
// Each repository issues its remote calls strictly in dependency order
// (project, files, target languages, review settings, segments,
// translations, reviews) and writes the identifiers assigned by the service
// back onto the local objects. Nothing is rolled back when a step fails: the
// graph is left partially hydrated and the caller re-drives the operation.
// Steps skip entities that already carry a remote id, so re-driving resumes
// where the previous attempt stopped.
//
// Status policy, applied to every call:
//   - the status an operation expects: success, the payload is decoded;
//   - 404 on a fetch, or a fetch without a model: not found, reported as a
//     nil result and a nil error;
//   - anything else: an error wrapping dqf.ErrRemoteRejected.
package repository
