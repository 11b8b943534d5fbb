package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nhle/jiractl/internal/ops"
	"github.com/nhle/jiractl/internal/ui/browse"
)

// runBrowser is replaced in tests.
var runBrowser = browse.Run

func (a *app) newBrowseCmd() *cobra.Command {
	var username, password, project string
	var days int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse my open issues, or recent issues of a project, interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := a.browseSource(username, password, project, days)
			if err != nil {
				return err
			}
			if err := runBrowser(src); err != nil {
				return exitError(exitFailure, "%v", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "User name")
	cmd.Flags().StringVarP(&password, "password", "P", "", "Password")
	cmd.Flags().StringVarP(&project, "project", "c", "", "List recent issues of this project instead of mine")
	cmd.Flags().IntVarP(&days, "days", "d", ops.DefaultDays, "With --project: issues created in the last this many days")

	return cmd
}

// browseSource wires the browser to mine, or to recent when a project is
// given, with get_issue and add_my_watch behind it.
func (a *app) browseSource(username, password, project string, days int) (browse.Source, error) {
	if username == "" {
		username = a.cfg.Username
	}
	if username == "" {
		return browse.Source{}, exitError(exitUsage, "%v for browse: username", ops.ErrMissingParam)
	}
	if password == "" {
		pw, err := a.resolvePassword(username)
		if err != nil {
			return browse.Source{}, err
		}
		password = pw
	}
	if password == "" {
		return browse.Source{}, exitError(exitUsage, "%v for browse: password", ops.ErrMissingParam)
	}

	client, err := a.client()
	if err != nil {
		return browse.Source{}, err
	}
	cred := ops.Credentials{Username: username, Password: password}

	src := browse.Source{
		Title: "My open issues",
		List: func(ctx context.Context) (*ops.Result, error) {
			return client.Mine(ctx, ops.MineParams{Credentials: cred, Limit: a.cfg.Limit})
		},
		Issue: func(ctx context.Context, key string) (*ops.Result, error) {
			return client.GetIssue(ctx, ops.GetIssueParams{Credentials: cred, Key: key})
		},
		Watch: func(ctx context.Context, key string) (*ops.Result, error) {
			return client.AddMyWatch(ctx, ops.AddMyWatchParams{Credentials: cred, Key: key, Project: project})
		},
	}
	if project != "" {
		src.Title = "Recent issues in " + project
		src.List = func(ctx context.Context) (*ops.Result, error) {
			return client.Recent(ctx, ops.RecentParams{Credentials: cred, Project: project, Days: days, Limit: a.cfg.Limit})
		}
	}
	return src, nil
}
