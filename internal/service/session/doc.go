// Package session issues and validates signed session tokens. A token
// carries the session id that keys a visitor's study queues; it is stored
// in a cookie by the HTTP layer.
package session
