// Package kvstore provides the key-value persistence used for session state.
//
// Store is the error-free facade callers use. FallbackStore implements it on
// top of a durable Backend (sqlite or redis) and permanently switches to an
// in-memory map the first time the backend fails, logging the switch once.
package kvstore
