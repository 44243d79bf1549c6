package state

import "github.com/turnagent/core/internal/logger"

// ContextStore is an append-only, first-write-wins mapping of id to
// content: a later addContext with a seen id is
// rejected rather than overwriting.
type ContextStore struct {
	entries map[string]string
	logger  logger.ExtendedLogger
}

func NewContextStore(log logger.ExtendedLogger) *ContextStore {
	if log == nil {
		log = logger.Noop()
	}
	return &ContextStore{entries: make(map[string]string), logger: log}
}

// Add returns false without overwriting if id is already present.
func (c *ContextStore) Add(id, content string) bool {
	if _, exists := c.entries[id]; exists {
		return false
	}
	c.entries[id] = content
	return true
}

// Get returns a ref -> content mapping for present refs; missing refs
// are logged and simply omitted.
func (c *ContextStore) Get(refs []string) map[string]string {
	out := make(map[string]string, len(refs))
	for _, r := range refs {
		if v, ok := c.entries[r]; ok {
			out[r] = v
		} else {
			c.logger.Warnf("context ref not found: %s", r)
		}
	}
	return out
}

func (c *ContextStore) Has(id string) bool {
	_, ok := c.entries[id]
	return ok
}

// View renders every stored context id, for inclusion in the
// orchestrator's per-turn state summary.
func (c *ContextStore) View() string {
	if len(c.entries) == 0 {
		return "No stored contexts."
	}
	out := "Stored contexts: "
	first := true
	for id := range c.entries {
		if !first {
			out += ", "
		}
		out += id
		first = false
	}
	return out
}
