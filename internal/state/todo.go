// Package state holds the orchestrator's in-memory state: todos,
// scratchpad notes, and the task/context hub. None of it needs
// locking — the turn loop is single-threaded.
package state

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/turnagent/core/internal/action"
)

type Todo struct {
	ID      int
	Content string
	Done    bool
}

// TodoManager assigns monotonically increasing integer ids and
// supports O(1) lookup by id.
type TodoManager struct {
	items  map[int]*Todo
	nextID int
}

func NewTodoManager() *TodoManager {
	return &TodoManager{items: make(map[int]*Todo)}
}

// Apply runs a batch of add/complete/delete ops in order, returning a
// human-readable summary and whether any op failed.
func (t *TodoManager) Apply(ops []action.TodoOp) (string, bool) {
	var results []string
	anyError := false
	for _, op := range ops {
		switch op.Action {
		case "add":
			id := t.add(op.Content)
			results = append(results, fmt.Sprintf("Added todo #%d: %s", id, op.Content))
		case "complete":
			id, perr := strconv.Atoi(op.TaskID)
			if perr != nil || !t.complete(id) {
				results = append(results, fmt.Sprintf("Todo %s not found", op.TaskID))
				anyError = true
			} else {
				results = append(results, fmt.Sprintf("Completed todo #%d", id))
			}
		case "delete":
			id, perr := strconv.Atoi(op.TaskID)
			if perr != nil || !t.delete(id) {
				results = append(results, fmt.Sprintf("Todo %s not found", op.TaskID))
				anyError = true
			} else {
				results = append(results, fmt.Sprintf("Deleted todo #%d", id))
			}
		default:
			results = append(results, fmt.Sprintf("Unknown todo op: %s", op.Action))
			anyError = true
		}
	}
	return strings.Join(results, "\n"), anyError
}

func (t *TodoManager) add(content string) int {
	t.nextID++
	id := t.nextID
	t.items[id] = &Todo{ID: id, Content: content}
	return id
}

func (t *TodoManager) complete(id int) bool {
	todo, ok := t.items[id]
	if !ok {
		return false
	}
	todo.Done = true
	return true
}

func (t *TodoManager) delete(id int) bool {
	if _, ok := t.items[id]; !ok {
		return false
	}
	delete(t.items, id)
	return true
}

// Reset wipes all todo state.
func (t *TodoManager) Reset() {
	t.items = make(map[int]*Todo)
	t.nextID = 0
}

// View renders todos in ascending id order with [✓]/[ ] markers.
func (t *TodoManager) View() string {
	if len(t.items) == 0 {
		return "No todos."
	}
	ids := make([]int, 0, len(t.items))
	for id := range t.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var b strings.Builder
	for _, id := range ids {
		todo := t.items[id]
		mark := "[ ]"
		if todo.Done {
			mark = "[✓]"
		}
		fmt.Fprintf(&b, "%s #%d %s\n", mark, todo.ID, todo.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}
