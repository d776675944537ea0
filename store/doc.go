// Package store provides BlobStore implementations for the published
// assignment set.
//
// NATSKV is the production store: a NATS JetStream KeyValue bucket, which
// gives the protocol its required atomic whole-object read and
// replace-or-create semantics. Memory is an in-process store for tests.
package store
