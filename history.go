package main

import "sync"

// historyCap bounds how many pre-edit snapshots are kept per path.
const historyCap = 10

// HistoryStore keeps bounded per-path undo stacks of full file snapshots.
// It lives for the process lifetime, is never persisted, and is injected
// into the mutating handlers so tests can substitute an isolated instance.
type HistoryStore struct {
	mu     sync.Mutex
	stacks map[string][]string
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{stacks: make(map[string][]string)}
}

// Snapshot pushes content onto the stack for path, evicting the oldest
// entry once the stack holds historyCap snapshots.
func (h *HistoryStore) Snapshot(path, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	stack := append(h.stacks[path], content)
	if len(stack) > historyCap {
		stack = stack[len(stack)-historyCap:]
	}
	h.stacks[path] = stack
}

// Pop removes and returns the most recent snapshot for path.
func (h *HistoryStore) Pop(path string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	stack := h.stacks[path]
	if len(stack) == 0 {
		return "", newOpError("undo", path, ErrNoHistory)
	}
	top := stack[len(stack)-1]
	h.stacks[path] = stack[:len(stack)-1]
	return top, nil
}

// Depth reports how many snapshots are recoverable for path.
func (h *HistoryStore) Depth(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stacks[path])
}
