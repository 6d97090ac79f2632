package main

import (
	"sync"

	"piggy/internal/amqp"
)

// tally counts change-feed events by kind.
type tally struct {
	mu        sync.Mutex
	byKind    map[string]int
	unsaved   int
	total     int
	lastEvent string
}

type tallySnapshot struct {
	byKind  map[string]int
	unsaved int
	total   int
	last    string
}

func newTally() *tally {
	return &tally{byKind: make(map[string]int)}
}

func (t *tally) record(ev *amqp.LedgerEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byKind[ev.Kind]++
	t.total++
	if !ev.Persisted {
		t.unsaved++
	}
	t.lastEvent = ev.Kind + ":" + ev.ID
}

func (t *tally) snapshot() tallySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	byKind := make(map[string]int, len(t.byKind))
	for k, v := range t.byKind {
		byKind[k] = v
	}
	return tallySnapshot{byKind: byKind, unsaved: t.unsaved, total: t.total, last: t.lastEvent}
}

func (s tallySnapshot) attrs() []any {
	return []any{
		"total", s.total,
		"added", s.byKind["added"],
		"removed", s.byKind["removed"],
		"cleared", s.byKind["cleared"],
		"unsaved", s.unsaved,
		"last", s.last,
	}
}
