package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wecare/healthtracker/pkg/client"
	"github.com/wecare/healthtracker/pkg/mutation"
	"github.com/wecare/healthtracker/pkg/querycache"
	"github.com/wecare/healthtracker/pkg/session"
)

// app holds what the subcommands share. It is built once the flags are parsed.
type app struct {
	api         *client.Client
	store       *querycache.Store
	coordinator *mutation.Coordinator
	session     *session.Session
	out         io.Writer
}

func (a *app) close() {
	if a.coordinator != nil {
		a.coordinator.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}

func (a *app) requireUser() error {
	if a.session.UserID() == 0 {
		return fmt.Errorf("--user required (or set HEALTHCTL_USER_ID)")
	}
	return nil
}

func (a *app) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

func newRootCmd(a *app) *cobra.Command {
	var (
		apiFlag  string
		userFlag int64
	)

	rootCmd := &cobra.Command{
		Use:           "healthctl",
		Short:         "CLI client for the health tracker API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("api") {
				cfg.APIURL = apiFlag
			}
			if cmd.Flags().Changed("user") {
				cfg.UserID = userFlag
			}
			return a.init(cfg)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Health API base URL")
	rootCmd.PersistentFlags().Int64VarP(&userFlag, "user", "u", 0, "User ID")

	rootCmd.AddCommand(
		newVitalsCmd(a),
		newMedsCmd(a),
		newConsultCmd(a),
		newDashboardCmd(a),
		newUsersCmd(a),
	)
	return rootCmd
}

func (a *app) init(cfg Config) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	api, err := client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout), client.WithLogger(logger))
	if err != nil {
		return err
	}

	a.api = api
	a.store = querycache.New(querycache.Options{Logger: logger})
	a.coordinator = mutation.NewCoordinator(a.store, logger)
	a.session = session.New(api, a.store, a.coordinator, cfg.UserID)
	return nil
}

func main() {
	a := &app{out: os.Stdout}
	err := newRootCmd(a).ExecuteContext(context.Background())
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
