// Package scheduler drives fiber work cooperatively within host-granted idle slices.
//
// A Scheduler owns the cursor: the next fiber of the in-flight render.
// Render seeds a fresh fiber tree and registers the scheduler with its
// IdleHost; it performs no work itself. Each time the host grants an idle
// slice it calls WorkLoop with a Deadline, and the scheduler performs units
// of work while the remaining time stays at or above its threshold. When the
// slice is exhausted it re-registers; when the cursor is cleared it goes
// dormant until the next Render.
//
// Suspending is returning with the cursor saved; resuming is the next
// WorkLoop call. No unit of work is ever interrupted.
//
// # Multiple Renders
//
// Only one render is in flight at a time. Policy decides what a Render call
// does while another is in flight:
//
//   - PolicySupersede: the in-flight render is abandoned and its Task fails
//     with E010. Host nodes it already attached stay in place.
//   - PolicyReject: the new render fails with E011.
//   - PolicyQueue: the new render waits and starts when the current one ends.
//
// # Idle Hosts
//
// ManualIdle hands slices out on demand (tests, synchronous CLI rendering).
// LoopIdle runs slices on a goroutine with wall-clock deadlines.
package scheduler
