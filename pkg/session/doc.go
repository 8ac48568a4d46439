/*
Package session implements the in-memory session lifecycle.

A Store owns every live domain.Session. It hands out copies for the duration of one turn,
merges the turn's result back, evicts idle sessions and, on the first turn from a returning
address, rehydrates an incomplete application from the external record store.

Turns for one address must not interleave. Store.WithLock serializes them within the process
and, when a DistributedLocker is configured, across replicas.
*/
package session
