package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/jiractl/internal/credential"
)

// passwordEnv is checked after --password and before the keyring.
const passwordEnv = "JIRACTL_PASSWORD"

func promptPassword(title string) (string, error) {
	var pw string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&pw).
		Run()
	if err != nil {
		return "", err
	}
	return pw, nil
}

// resolvePassword finds the password for username on the configured server:
// JIRACTL_PASSWORD, then the keyring, then a prompt when stdin is a
// terminal. It returns "" when none applies so validation reports the
// missing parameter.
func (a *app) resolvePassword(username string) (string, error) {
	if pw := a.deps.getenv(passwordEnv); pw != "" {
		return pw, nil
	}

	key := credential.Key(username, a.cfg.Server.Host)
	pw, err := a.deps.keyring.Get(key)
	if err == nil && pw != "" {
		a.logger.Debug("password from keyring", "key", key)
		return pw, nil
	}
	if err != nil && !errors.Is(err, credential.ErrNotFound) {
		a.logger.Debug("keyring lookup failed", "key", key, "error", err)
	}

	if !a.deps.isTerminal() {
		return "", nil
	}
	pw, err = a.deps.prompt(fmt.Sprintf("Password for %s", key))
	if err != nil {
		return "", exitError(exitUsage, "reading password: %v", err)
	}
	return pw, nil
}

func (a *app) newLoginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a Jira password in the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" {
				username = a.cfg.Username
			}
			if username == "" {
				return exitError(exitUsage, "no user: pass --user or set username in the config")
			}
			if a.cfg.Server.Host == "" {
				return exitError(exitUsage, "no Jira server configured: pass --server or set server.host")
			}
			key := credential.Key(username, a.cfg.Server.Host)

			pw, err := a.readPassword(cmd, key)
			if err != nil {
				return err
			}
			if pw == "" {
				return exitError(exitUsage, "empty password")
			}

			if err := a.deps.keyring.Set(key, pw); err != nil {
				return exitError(exitFailure, "%v", err)
			}
			writeLine(cmd.OutOrStdout(), "Stored password for "+key)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "User name")

	return cmd
}

// readPassword prompts on a terminal and otherwise reads one line from
// the command's input.
func (a *app) readPassword(cmd *cobra.Command, key string) (string, error) {
	if a.deps.isTerminal() {
		pw, err := a.deps.prompt("Password for " + key)
		if err != nil {
			return "", exitError(exitUsage, "reading password: %v", err)
		}
		return pw, nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", exitError(exitUsage, "reading password from stdin: %v", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) newLogoutCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove a stored Jira password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" {
				username = a.cfg.Username
			}
			if username == "" {
				return exitError(exitUsage, "no user: pass --user or set username in the config")
			}
			key := credential.Key(username, a.cfg.Server.Host)

			if err := a.deps.keyring.Delete(key); err != nil {
				return exitError(exitFailure, "%v", err)
			}
			writeLine(cmd.OutOrStdout(), "Removed password for "+key)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "User name")

	return cmd
}
