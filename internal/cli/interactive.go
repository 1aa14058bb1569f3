package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/franzenjb/fourcolor/pkg/engine"
	"github.com/franzenjb/fourcolor/pkg/errors"
	"github.com/franzenjb/fourcolor/pkg/session"
)

// interactiveCommand creates the interactive command for hand-editing a
// coloring in the terminal.
func (c *CLI) interactiveCommand() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:     "interactive [graph.json|sample:name]",
		Aliases: []string{"edit"},
		Short:   "Edit a coloring interactively with undo and redo",
		Long: `Open a terminal editor over a graph. Move with the arrow keys, press a
digit to color the selected node, "a" to run the next algorithm, "u"/"r" to
undo and redo, "x" to reset and "s" to save the session.

Resume a saved session with --session instead of a graph argument.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			if (input == "") == (sessionID == "") {
				return errors.New(errors.ErrCodeInvalidInput, "pass either a graph or --session")
			}
			return c.runInteractive(cmd.Context(), input, sessionID)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "resume a saved session by ID")

	return cmd
}

func (c *CLI) runInteractive(ctx context.Context, input, sessionID string) error {
	if _, err := c.config(); err != nil {
		return err
	}

	var (
		store session.Store
		sess  *session.Session
		e     *engine.Engine
	)
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	if sessionID != "" {
		var err error
		if store, err = c.newStore(ctx); err != nil {
			return err
		}
		if sess, err = loadSession(ctx, store, sessionID); err != nil {
			return err
		}
		e = sess.Engine(c.engineOptions()...)
		if !e.Loaded() {
			return errors.NoGraph("interactive")
		}
	} else {
		g, err := c.loadGraph(ctx, input)
		if err != nil {
			return err
		}
		e = engine.New(c.engineOptions()...)
		e.LoadGraph(g.Adjacency())
	}

	save := func(e *engine.Engine) (string, error) {
		if store == nil {
			s, err := c.newStore(ctx)
			if err != nil {
				return "", err
			}
			store = s
		}
		if sess == nil {
			sess = session.New(baseName(input), e.State(), c.cfg.Session.TTL)
		} else {
			sess.Capture(e)
		}
		if err := store.Set(ctx, sess); err != nil {
			return "", err
		}
		return sess.ID, nil
	}

	final, err := tea.NewProgram(NewColoringModel(e, save), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	m := final.(ColoringModel)
	a := m.Engine.Current()
	printStats(len(a.Colors), a.Chromatic, false)
	if m.SavedID != "" {
		printSuccess("Session saved")
		printNextStep("Resume", "fourcolor interactive --session "+m.SavedID)
	}
	return nil
}

// engineOptions returns the engine options implied by the loaded config.
func (c *CLI) engineOptions() []engine.Option {
	opts := []engine.Option{engine.WithLogger(c.Logger)}
	if c.cfg != nil {
		opts = append(opts,
			engine.WithDefaults(c.cfg.ColoringDefaults()),
			engine.WithHistorySize(c.cfg.HistorySize))
	}
	return opts
}
