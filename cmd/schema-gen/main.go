// Command schema-gen dumps the action schema as JSON Schema, for
// embedding in a system prompt or validating external tooling against.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/turnagent/core/internal/action"
)

func main() {
	schema := action.Schema()
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
