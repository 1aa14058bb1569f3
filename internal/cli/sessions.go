package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/franzenjb/fourcolor/pkg/errors"
	"github.com/franzenjb/fourcolor/pkg/session"
)

// sessionsCommand creates the sessions management command.
func (c *CLI) sessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage saved coloring sessions",
	}

	cmd.AddCommand(c.sessionsListCommand())
	cmd.AddCommand(c.sessionsShowCommand())
	cmd.AddCommand(c.sessionsDeleteCommand())
	cmd.AddCommand(c.sessionsCleanupCommand())

	return cmd
}

// sessionsListCommand creates the "sessions list" subcommand.
func (c *CLI) sessionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved sessions, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			infos, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No saved sessions")
				return nil
			}
			printSessionTable(infos)
			return nil
		},
	}
}

// sessionsShowCommand creates the "sessions show" subcommand.
func (c *CLI) sessionsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved session's coloring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSessionShow(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runSessionShow(ctx context.Context, id string) error {
	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := loadSession(ctx, store, id)
	if err != nil {
		return err
	}
	e := sess.Engine(c.engineOptions()...)

	printSuccess("Session %s", StyleHighlight.Render(sess.ID))
	if sess.Name != "" {
		printKeyValue("Name", sess.Name)
	}
	printKeyValue("Updated", sess.UpdatedAt.Format("2006-01-02 15:04"))
	printKeyValue("Expires", sess.ExpiresAt.Format("2006-01-02 15:04"))
	if !e.Loaded() {
		printInfo("No graph loaded")
		return nil
	}
	a := e.Current()
	printStats(len(a.Colors), a.Chromatic, false)
	printColoringTable(graphOf(e), a)
	printNewline()
	printNextStep("Continue editing", "fourcolor interactive --session "+sess.ID)
	return nil
}

// sessionsDeleteCommand creates the "sessions delete" subcommand.
func (c *CLI) sessionsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateSessionID(args[0]); err != nil {
				return err
			}
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted session %s", args[0])
			return nil
		},
	}
}

// sessionsCleanupCommand creates the "sessions cleanup" subcommand.
func (c *CLI) sessionsCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			n, err := store.Cleanup(ctx)
			if err != nil {
				return err
			}
			printSuccess("Removed %d expired sessions", n)
			return nil
		},
	}
}

// loadSession fetches id from store, treating a missing or expired session
// as SESSION_NOT_FOUND.
func loadSession(ctx context.Context, store session.Store, id string) (*session.Session, error) {
	if err := errors.ValidateSessionID(id); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionNotFound, err, "session %s not found", id)
	}
	sess, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return sess, nil
}
