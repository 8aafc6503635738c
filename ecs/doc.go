// Package ecs provides ECS adapters for sketch's pointer events.
//
// The primary adapter is [NewDonburiStore], which bridges sketch interaction
// events (enter, leave, press, release, click, drag) for elements with a
// non-zero EntityID into a [Donburi] world as typed events. Subscribe to
// [InteractionEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	root.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
