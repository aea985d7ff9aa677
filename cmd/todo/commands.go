package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/pkg/client"
)

var errLoggedOut = errors.New("session expired or missing, run `todo login`")

func registerCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := env.agent()
			if err != nil {
				return err
			}
			if err := agent.Register(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", agent.View().User.Username)
			return nil
		},
	}
}

func loginCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := env.agent()
			if err != nil {
				return err
			}
			if err := agent.Login(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", agent.View().User.Username)
			return nil
		},
	}
}

func logoutCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := env.agent()
			if err != nil {
				return err
			}
			if err := agent.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account the stored session belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := env.agent()
			if err != nil {
				return err
			}
			info, err := agent.WhoAmI(cmd.Context())
			if err != nil {
				return explain(agent, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", info.Username, info.ID)
			return nil
		},
	}
}

func listCmd(env *environment) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show your tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := client.ParseFilter(filter)
			if err != nil {
				return err
			}
			agent, err := env.agent()
			if err != nil {
				return err
			}
			agent.SetFilter(f)
			// Read failures other than auth are shown in place of the list.
			if err := agent.Refresh(cmd.Context()); err != nil && agent.View().Err == nil {
				return explain(agent, err)
			}
			printView(cmd.OutOrStdout(), agent.View())
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "all, active or completed")
	return cmd
}

func addCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := env.agent()
			if err != nil {
				return err
			}
			task, err := agent.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return explain(agent, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n", shortID(task.ID), task.Text)
			return nil
		},
	}
}

func toggleCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id|#>",
		Short: "Flip a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := loadedAgent(cmd.Context(), env)
			if err != nil {
				return err
			}
			id, err := resolveID(agent, args[0])
			if err != nil {
				return err
			}
			if err := agent.Toggle(cmd.Context(), id); err != nil {
				return explain(agent, err)
			}
			printView(cmd.OutOrStdout(), agent.View())
			return nil
		},
	}
}

func editCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id|#> <text>...",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := loadedAgent(cmd.Context(), env)
			if err != nil {
				return err
			}
			id, err := resolveID(agent, args[0])
			if err != nil {
				return err
			}
			if err := agent.Edit(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
				return explain(agent, err)
			}
			printView(cmd.OutOrStdout(), agent.View())
			return nil
		},
	}
}

func rmCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id|#>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := loadedAgent(cmd.Context(), env)
			if err != nil {
				return err
			}
			id, err := resolveID(agent, args[0])
			if err != nil {
				return err
			}
			if err := agent.Delete(cmd.Context(), id); err != nil {
				return explain(agent, err)
			}
			printView(cmd.OutOrStdout(), agent.View())
			return nil
		},
	}
}

func clearCompletedCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete all completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := env.agent()
			if err != nil {
				return err
			}
			n, err := agent.ClearCompleted(cmd.Context())
			if err != nil {
				return explain(agent, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d completed tasks\n", n)
			return nil
		},
	}
}

// loadedAgent returns an agent holding the server's current list.
func loadedAgent(ctx context.Context, env *environment) (*client.Agent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	agent, err := env.agent()
	if err != nil {
		return nil, err
	}
	if err := agent.Refresh(ctx); err != nil {
		return nil, explain(agent, err)
	}
	return agent, nil
}

func explain(agent *client.Agent, err error) error {
	if errors.Is(err, client.ErrNotAuthenticated) || agent.State() == client.Unauthenticated {
		return errLoggedOut
	}
	return err
}

// resolveID accepts a 1-based position from `todo list` or a unique id prefix.
func resolveID(agent *client.Agent, ref string) (string, error) {
	view := agent.View()
	all := view.Tasks
	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		if n < 1 || n > len(all) {
			return "", fmt.Errorf("no task #%d", n)
		}
		return all[n-1].ID, nil
	}

	var match string
	for _, t := range all {
		if strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", ref)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", domain.ErrTaskNotFound
	}
	return match, nil
}

func printView(w io.Writer, v client.View) {
	if v.Err != nil {
		fmt.Fprintf(w, "Could not load tasks: %v\n", v.Err)
		return
	}
	if len(v.Tasks) == 0 {
		if v.Filter == client.FilterAll {
			fmt.Fprintln(w, "No tasks")
		} else {
			fmt.Fprintf(w, "No %s tasks\n", v.Filter)
		}
		return
	}
	for i, t := range v.Tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "%2d. [%s] %s  %s\n", i+1, mark, shortID(t.ID), t.Text)
	}
	fmt.Fprintf(w, "%d active\n", v.ActiveCount)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
