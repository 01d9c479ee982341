// Package dqf is the in-memory domain graph of a DQF (Dynamic Quality
// Framework) workflow: master and child projects, their files, target
// language associations, source segments, translations and review revisions.
//
// Objects are built locally, annotated with remote enumeration ids by the
// attributes package and then synchronized with the remote service by the
// repository package, which writes the remote-assigned identifiers back onto
// them ("hydration").
//
// Mutation rules enforced here:
//   - AddFile is a no-op when a file with the same name is already present.
//   - AssocTargetLanguageToFile never deduplicates.
//   - AddSourceSegment is a no-op for an equal segment (file, index, text).
//     Index uniqueness per file is not validated; the remote service is the
//     judge of that.
//   - A review child project can never be a dummy and must carry review
//     settings before it can be persisted.
package dqf
