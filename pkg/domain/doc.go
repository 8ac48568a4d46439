/*
Package domain contains the core domain models of the intake assistant.

It defines the entities the conversation state machine operates on: the applicant's
Session, the partially-filled ApplicationData and its sections, the closed set of
StepIDs, and the value types exchanged with the record store. This package is kept
pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Session: the live, addressed, resumable state of one applicant's conversation.
  - ApplicationData: six independently optional sections plus consent and status flags.
  - StepID: one node of the conversation graph. Section groups steps in canonical order.
  - Selection: an ordered, de-duplicated set of chosen option labels (multi-select answers).
  - Fields: the flat mapping exchanged with the external record store.
*/
package domain
