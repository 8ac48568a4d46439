/*
Package ports defines the driven ports (interfaces) of the intake service.

These interfaces decouple the conversation core from external implementations, allowing
the service to work with various record stores, messaging channels and lock backends.

# Key Interfaces

  - RecordStore: Durable, flat application rows (create-or-update, lookup by session or address).
  - DistributedLocker: Provides distributed locking so that replicas serialize turns per address.
  - Sender: Delivers one outbound text message to a channel address.
*/
package ports
