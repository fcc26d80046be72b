// Package study implements the study-session queue engine.
//
// For every (session, deck) pair the engine keeps an ordered pool of the
// flashcard IDs that are still to be shown in the current pass. Cards are
// drawn from the end of the pool, repeated cards are put back at the front,
// and a reset discards the pool so the next draw starts a fresh shuffled
// pass. State is persisted between requests through a StateStore.
//
// Per deck and session the queue moves through three states:
//
//	Absent    --initialize(cards)-->  Active
//	Absent    --initialize(none)--->  Exhausted
//	Active    --draw last card----->  Exhausted
//	Active    --repeat------------->  Active
//	any       --reset-------------->  Absent
//
// An exhausted queue is kept as an empty record so that further draws keep
// reporting "no card" instead of silently starting a new pass.
//
// The engine works purely on identifiers. An unknown deck simply has no
// cards and yields an exhausted queue; existence checks belong to callers.
// State stores accept an empty queue for a deck they do not know.
package study
