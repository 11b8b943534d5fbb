package ops

import (
	"context"
	"fmt"
	"strconv"
)

// Run validates values against the named operation's contract, converts them
// into the operation's parameters and runs it. This is the entry point for
// callers that hold parameters as strings, such as the command line.
func (c *Client) Run(ctx context.Context, name string, values map[string]string) (*Result, error) {
	contract, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if err := contract.Validate(values); err != nil {
		return nil, err
	}

	cred := Credentials{Username: values["username"], Password: values["password"]}

	switch contract.Name {
	case ServerInfo:
		return c.ServerInfo(ctx)

	case NotWatching:
		limit, err := positiveInt(values, "limit")
		if err != nil {
			return nil, err
		}
		return c.NotWatching(ctx, NotWatchingParams{Credentials: cred, Project: values["project"], Limit: limit})

	case Mine:
		limit, err := positiveInt(values, "limit")
		if err != nil {
			return nil, err
		}
		return c.Mine(ctx, MineParams{Credentials: cred, Project: values["project"], Limit: limit})

	case Recent:
		limit, err := positiveInt(values, "limit")
		if err != nil {
			return nil, err
		}
		days, err := positiveInt(values, "days")
		if err != nil {
			return nil, err
		}
		return c.Recent(ctx, RecentParams{Credentials: cred, Project: values["project"], Limit: limit, Days: days})

	case GetIssue:
		return c.GetIssue(ctx, GetIssueParams{Credentials: cred, Key: values["key"]})

	case AddMyWatch:
		return c.AddMyWatch(ctx, AddMyWatchParams{Credentials: cred, Key: values["key"], Project: values["project"]})

	case WatchCategory:
		limit, err := positiveInt(values, "limit")
		if err != nil {
			return nil, err
		}
		return c.WatchCategory(ctx, WatchCategoryParams{Credentials: cred, Project: values["project"], Limit: limit})

	case CreateMeta:
		return c.CreateMeta(ctx, CreateMetaParams{Credentials: cred, Project: values["project"]})

	case CreateIssue:
		return c.CreateIssue(ctx, CreateIssueParams{Credentials: cred, Template: values["template"]})
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownOperation, name)
}

// positiveInt parses an optional integer parameter. Absent yields 0, which
// operations resolve to their default.
func positiveInt(values map[string]string, name string) (int, error) {
	raw := values[name]
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidParam, name, raw)
	}
	return n, nil
}
