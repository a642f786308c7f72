// Package poll drives asynchronous remote work to a terminal status.
//
// The [Until] function repeatedly fetches a status snapshot until it equals
// the desired value or a wall-clock timeout elapses. It is used both for
// Compute Engine operations (waiting for DONE, then inspecting the error
// list) and for resources whose own status must settle (RUNNING, READY).
package poll
