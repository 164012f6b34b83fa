package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	app "github.com/mohammadpnp/user-provisioning/internal/application/user"
	"github.com/mohammadpnp/user-provisioning/internal/infrastructure/userapi"
	"github.com/mohammadpnp/user-provisioning/internal/logging"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [csv-file]",
		Short: "Check every CSV row without calling the API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			logger, closeLog, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, "", cmd.OutOrStdout())
			if err != nil {
				return withCode(app.ExitFailure, err)
			}
			defer closeLog()
			logger = logger.With("run_id", uuid.NewString())

			// A dry-run submitter never touches its poster.
			submitter := userapi.NewSubmitter(nil, userapi.SubmitterConfig{
				Endpoint: cfg.Import.Endpoint,
				DryRun:   true,
			}, logger)

			return process(cmd.Context(), logger, submitter, 0, csvPath(cfg, args), "Validating user file")
		},
	}
}
