package cli

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nhle/jiractl/internal/model"
	"github.com/nhle/jiractl/internal/ops"
	"github.com/nhle/jiractl/internal/telemetry"
)

// newOperationCmd builds the subcommand for one operation, with one flag
// per declared parameter.
func (a *app) newOperationCmd(c ops.Contract) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(c.Name),
		Short: c.Description,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runOperation(cmd, c)
		},
	}

	for _, p := range c.Params() {
		help := p.Help
		if p.Required {
			help += " (required)"
		}
		cmd.Flags().StringP(p.Long, p.Short, "", help)
	}

	return cmd
}

// collectParams reads the operation's flags, falling back to configured
// defaults and, for the password, to the credential chain.
func (a *app) collectParams(cmd *cobra.Command, c ops.Contract) (map[string]string, error) {
	values := make(map[string]string)
	for _, p := range c.Params() {
		if v, _ := cmd.Flags().GetString(p.Long); v != "" {
			values[p.Name] = v
		}
	}

	if values["username"] == "" && a.cfg.Username != "" && declares(c, "username") {
		values["username"] = a.cfg.Username
	}
	if values["project"] == "" && a.cfg.Project != "" && declares(c, "project") {
		values["project"] = a.cfg.Project
	}
	if values["limit"] == "" && a.cfg.Limit > 0 && declares(c, "limit") {
		values["limit"] = strconv.Itoa(a.cfg.Limit)
	}

	if declares(c, "password") && values["password"] == "" && values["username"] != "" {
		pw, err := a.resolvePassword(values["username"])
		if err != nil {
			return nil, err
		}
		values["password"] = pw
	}

	return values, nil
}

func declares(c ops.Contract, name string) bool {
	for _, p := range c.Params() {
		if p.Name == name {
			return true
		}
	}
	return false
}

// runOperation runs one operation and writes its result. Remote failures
// print their annotations to stderr and exit with exitFailure.
func (a *app) runOperation(cmd *cobra.Command, c ops.Contract) error {
	values, err := a.collectParams(cmd, c)
	if err != nil {
		return err
	}
	if err := c.Validate(values); err != nil {
		return classify(err)
	}

	client, err := a.client()
	if err != nil {
		return err
	}

	ctx, span := telemetry.Tracer("").Start(cmd.Context(), "jiractl "+string(c.Name),
		trace.WithAttributes(attribute.String("jiractl.operation", string(c.Name))))
	defer span.End()

	ctx = ops.WithInteractive(ctx, a.format == formatText)
	start := time.Now()
	res, runErr := client.Run(ctx, string(c.Name), values)
	a.recordHistory(ctx, c.Name, values, res, runErr, time.Since(start))

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		return classify(runErr)
	}
	span.SetAttributes(attribute.Bool("jiractl.success", res.Success))

	if !res.Success {
		errOut := cmd.ErrOrStderr()
		for _, msg := range res.Response.Errors {
			writeLine(errOut, errorText(msg))
		}
		return exitError(exitFailure, "%s failed", c.Name)
	}

	return a.writeResult(cmd.OutOrStdout(), res)
}

// recordHistory stores one history row. Failures to record are logged and
// never fail the command.
func (a *app) recordHistory(
	ctx context.Context,
	name ops.Name,
	values map[string]string,
	res *ops.Result,
	runErr error,
	elapsed time.Duration,
) {
	if a.noHistory || !a.cfg.History.Enabled {
		return
	}

	s, release, err := a.openStore()
	if err != nil {
		a.logger.Warn("history unavailable", "error", err)
		return
	}
	defer release()

	params := make(map[string]string, len(values))
	for k, v := range values {
		if k == "password" || k == "username" {
			continue
		}
		params[k] = v
	}
	encoded, _ := json.Marshal(params)

	inv := model.Invocation{
		Operation:  string(name),
		Host:       a.cfg.Server.Host,
		Username:   values["username"],
		Params:     string(encoded),
		DurationMS: elapsed.Milliseconds(),
	}
	switch {
	case runErr != nil:
		inv.Errors = runErr.Error()
	case res != nil:
		inv.Success = res.Success
		if res.Response != nil {
			inv.Status = res.Response.Status
			inv.Errors = strings.Join(res.Response.Errors, "\n")
		}
	}

	if _, err := s.RecordInvocation(ctx, inv); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Warn("recording history", "operation", name, "error", err)
	}
}
