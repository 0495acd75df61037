// Package owner holds the capability to change a body's parent. Being
// internal to physics, only the physics packages can construct a Key.
package owner

// Key authorises a parent change.
type Key struct{}
