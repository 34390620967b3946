/*
Package desktop implements the floating-window core of termdesk.

A Registry owns every live Window on a single host surface. It arbitrates
focus and z-order, runs minimize/maximize/restore transitions and publishes
lifecycle events to listeners (the dock, the focus coordinator, gesture
tracking and the host surface itself) in registration order.

All Registry and Window methods assume they are called from one goroutine.
Loop provides that goroutine: front ends submit work with Loop.Do and timers
re-enter with Loop.Post.

Example usage:

	loop := desktop.NewLoop(64)
	go loop.Run(ctx)

	reg := desktop.NewRegistry(desktop.Options{
		Host: desktop.Rect{Width: 1280, Height: 800},
	})
	_ = loop.Do(ctx, func() {
		reg.CreateWindow("Notes", 600, 400, 100, 100, "#3b82f6")
	})
*/
package desktop
