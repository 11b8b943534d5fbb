package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nhle/jiractl/internal/ops"
	"github.com/nhle/jiractl/internal/theme"
)

// writeResult prints a successful result in the selected format. Structured
// formats emit a single-key object: the result's state key (or the
// operation name when it has none) mapped to the record.
func (a *app) writeResult(w io.Writer, res *ops.Result) error {
	key := res.StateKey
	if key == "" {
		key = string(res.Operation)
	}

	switch a.format {
	case formatJSON:
		data, err := json.MarshalIndent(map[string]ops.Record{key: res.Record}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		writeLine(w, string(data))

	case formatYAML:
		data, err := yaml.Marshal(map[string]ops.Record{key: res.Record})
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Fprint(w, string(data))

	default:
		if res.Output != "" {
			writeLine(w, res.Output)
		}
	}
	return nil
}

// writeLine writes s followed by a newline unless s already ends in one.
func writeLine(w io.Writer, s string) {
	if strings.HasSuffix(s, "\n") {
		fmt.Fprint(w, s)
		return
	}
	fmt.Fprintln(w, s)
}

func errorText(msg string) string {
	return theme.ErrorStyle.Render(msg)
}
