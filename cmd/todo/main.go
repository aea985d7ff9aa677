package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/pkg/client"
	"github.com/fastygo/tasklist/pkg/logger"
)

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "todo",
		Short:         "Manage your tasks on a tasklist server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("server", "http://localhost:3000", "server base URL")
	root.PersistentFlags().String("credentials", defaultCredentialsPath(), "file holding the session token")
	root.PersistentFlags().Bool("verbose", false, "log client state changes")

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	_ = v.BindPFlag("credentials", root.PersistentFlags().Lookup("credentials"))
	_ = v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))

	env := &environment{v: v}
	root.AddCommand(
		registerCmd(env),
		loginCmd(env),
		logoutCmd(env),
		whoamiCmd(env),
		listCmd(env),
		addCmd(env),
		toggleCmd(env),
		editCmd(env),
		rmCmd(env),
		clearCompletedCmd(env),
	)
	return root
}

func defaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "tasklist", "credentials.json")
}

// environment builds the agent from the resolved settings.
type environment struct {
	v *viper.Viper
}

func (e *environment) agent() (*client.Agent, error) {
	log := zap.NewNop()
	if e.v.GetBool("verbose") {
		l, err := logger.New(logger.Config{Level: "debug", Encoding: "console"})
		if err != nil {
			return nil, err
		}
		log = l
	}

	api := client.New(e.v.GetString("server"))
	creds := client.NewFileCredentialStore(e.v.GetString("credentials"))
	agent := client.NewAgent(api, creds, log)
	if err := agent.Start(); err != nil {
		return nil, err
	}
	return agent, nil
}
