package ops

import (
	"errors"
	"fmt"
	"strings"
)

// Caller errors. They are returned before any request is issued.
var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrInvalidParam     = errors.New("invalid parameter")
	ErrTemplateNotFound = errors.New("template not found")
	ErrUnknownOperation = errors.New("unknown operation")
)

// ParamSpec declares one named parameter. Short, Long and Help are only
// used by the command-line layer.
type ParamSpec struct {
	Name     string
	Required bool
	Short    string
	Long     string
	Help     string
}

// Contract is the static parameter declaration of one operation.
type Contract struct {
	Name        Name
	Description string
	Required    []ParamSpec
	Optional    []ParamSpec
}

// Params returns the required parameters followed by the optional ones.
func (c Contract) Params() []ParamSpec {
	all := make([]ParamSpec, 0, len(c.Required)+len(c.Optional))
	all = append(all, c.Required...)
	return append(all, c.Optional...)
}

// Check reports a contract that declares the same name twice, including a
// name that is both required and optional.
func (c Contract) Check() error {
	seen := make(map[string]bool)
	for _, p := range c.Params() {
		if seen[p.Name] {
			return fmt.Errorf("operation %s declares parameter %q twice", c.Name, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Validate reports every required parameter missing from values.
func (c Contract) Validate(values map[string]string) error {
	var missing []string
	for _, p := range c.Required {
		if values[p.Name] == "" {
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w for %s: %s", ErrMissingParam, c.Name, strings.Join(missing, ", "))
	}
	return nil
}

// Shared parameter declarations.
var (
	paramUsername = ParamSpec{Name: "username", Short: "u", Long: "user", Help: "User name"}
	paramPassword = ParamSpec{Name: "password", Short: "P", Long: "password", Help: "Password"}
	paramProject  = ParamSpec{Name: "project", Short: "c", Long: "project", Help: "Project name (category)"}
	paramLimit    = ParamSpec{Name: "limit", Short: "l", Long: "limit", Help: "Limit result set size to this number"}
	paramKey      = ParamSpec{Name: "key", Short: "k", Long: "issuekey", Help: "Issue key"}
	paramDays     = ParamSpec{Name: "days", Short: "d", Long: "days", Help: "Only issues created in the last this many days"}
	paramTemplate = ParamSpec{Name: "template", Short: "t", Long: "template", Help: "JSON file with the issue to create"}
)

func required(specs ...ParamSpec) []ParamSpec {
	out := make([]ParamSpec, len(specs))
	for i, s := range specs {
		s.Required = true
		out[i] = s
	}
	return out
}

// registry lists every operation in presentation order.
var registry = []Contract{
	{
		Name:        ServerInfo,
		Description: "Retrieve server info (useful to test the connection; no authentication)",
	},
	{
		Name:        NotWatching,
		Description: "List issues in a project which I am not watching",
		Required:    required(paramUsername, paramPassword, paramProject),
		Optional:    []ParamSpec{paramLimit},
	},
	{
		Name:        Mine,
		Description: "List open or in-progress issues assigned to me",
		Required:    required(paramUsername, paramPassword),
		Optional:    []ParamSpec{paramLimit, paramProject},
	},
	{
		Name:        Recent,
		Description: "List issues recently created in a project",
		Required:    required(paramUsername, paramPassword, paramProject),
		Optional:    []ParamSpec{paramLimit, paramDays},
	},
	{
		Name:        GetIssue,
		Description: "Show the main fields of one issue",
		Required:    required(paramUsername, paramPassword, paramKey),
	},
	{
		Name:        AddMyWatch,
		Description: "Add myself as a watcher to one issue",
		Required:    required(paramUsername, paramPassword, paramKey),
		Optional:    []ParamSpec{paramProject},
	},
	{
		Name:        WatchCategory,
		Description: "Add myself as a watcher to all unwatched issues in a project",
		Required:    required(paramUsername, paramPassword, paramProject),
		Optional:    []ParamSpec{paramLimit},
	},
	{
		Name:        CreateMeta,
		Description: "List the issue types each project accepts",
		Required:    required(paramUsername, paramPassword),
		Optional:    []ParamSpec{paramProject},
	},
	{
		Name:        CreateIssue,
		Description: "Create an issue from a JSON template file",
		Required:    required(paramUsername, paramPassword, paramTemplate),
	},
}

// Contracts returns every operation contract in presentation order.
func Contracts() []Contract {
	return append([]Contract(nil), registry...)
}

// Lookup returns the contract of the named operation.
func Lookup(name string) (Contract, error) {
	for _, c := range registry {
		if string(c.Name) == name {
			return c, nil
		}
	}
	available := make([]string, 0, len(registry))
	for _, c := range registry {
		available = append(available, string(c.Name))
	}
	return Contract{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownOperation, name, strings.Join(available, ", "))
}
