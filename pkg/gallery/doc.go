// Package gallery implements navigation for a paginated media viewer.
//
// A [Controller] owns the current index over an ordered list of
// [MediaItem] values. Four independent input channels reduce to one
// arithmetic primitive, [Controller.Step], which wraps around in both
// directions:
//
//	wheel  dy > 0 -> Step(+1), dy < 0 -> Step(-1)   (open, more than one item)
//	swipe  |start - x| > threshold -> Step(sign)     (once per touch)
//	keys   left -> Step(-1), right -> Step(+1), escape -> Close
//	jump   JumpTo(index)
//
// There is no input lock: events from different channels may interleave in
// any order and each is applied to the current index immediately.
//
// # Notifications
//
// When [Callbacks.OnIndexChange] is set it receives every new index. When
// it is not, the controller falls back to OnPrevious and OnNext, and
// [Controller.JumpTo] can only move one step toward its target.
//
// # Scoped listeners
//
// Front ends deliver raw input through a [Dispatcher]. [Controller.Bind]
// registers the controller's listeners plus a one-shot usage [Hint] and
// returns a [Binding]; releasing the binding removes every listener and
// cancels the hint, after which nothing the binding registered can fire.
package gallery
