// Package dqfid provides the identity envelope carried by every entity that is
// synchronized with the remote DQF service.
//
// # Core Concepts
//
//  1. LocalID: client-generated UUID used as the correlation key ("clientId")
//     for an entity. It is assigned when the entity is constructed and stays
//     stable for the entity's lifetime.
//
//  2. Remote ID: the integer identifier assigned by the remote service once it
//     accepts the entity. Zero means the entity is still pending.
//
//  3. Remote key: the per-project secret ("projectKey" / "dqfUUID") issued at
//     project creation. Only projects carry one.
//
// # Usage
//
//	env := dqfid.NewEnvelope()
//	env.IsPersisted()     // false
//	env.SetRemoteID(4242) // after the service accepted the entity
//	env.IsPersisted()     // true
package dqfid
