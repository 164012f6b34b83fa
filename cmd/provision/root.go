package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	app "github.com/mohammadpnp/user-provisioning/internal/application/user"
	"github.com/mohammadpnp/user-provisioning/internal/config"
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCodeOf maps a command error to a process exit status.
func exitCodeOf(err error) int {
	if err == nil {
		return app.ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return app.ExitFailure
}

// errorMessage is the text printed for err, empty when the exit status alone
// tells the story.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var ee *exitError
	if errors.As(err, &ee) && ee.err == nil {
		return ""
	}
	return err.Error()
}

type rootOptions struct {
	configPath string
	envFiles   []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "provision",
		Short:         "Provision users from a CSV file into a user-management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file applied on top of the environment")
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files loaded before reading the environment")

	cmd.AddCommand(newImportCmd(opts), newValidateCmd(opts), newServeCmd(opts))
	return cmd
}

// loadConfig reads .env files, the environment and the optional YAML file.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(o.envFiles...); err != nil {
		return nil, withCode(app.ExitFailure, err)
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, withCode(app.ExitFailure, err)
	}
	return cfg, nil
}
