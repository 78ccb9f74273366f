package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func askCmd(root *rootOptions) *cobra.Command {
	var (
		view    viewFlags
		session string
		html    bool
	)

	cmd := &cobra.Command{
		Use:     "ask <question>",
		Short:   "Ask the assistant about the current view",
		Example: `  techtree ask --focus stellarator "What limits stellarator confinement?"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, cleanup, err := root.loadContainer(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if enabled, _ := container.Chat.Status(); !enabled {
				return errors.New("chat is disabled: set GEMINI_API_KEY")
			}

			turn, err := container.Chat.Submit(ctx, session, strings.Join(args, " "), view.state())
			if turn == nil {
				return err
			}

			_, model := container.Chat.Status()
			info.Fprintf(cmd.ErrOrStderr(), "  %s\n\n", model)
			if html {
				fmt.Fprintln(cmd.OutOrStdout(), turn.Assistant.HTML)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), turn.Assistant.Content)
			}
			return err
		},
	}

	view.register(cmd)
	cmd.Flags().StringVar(&session, "session", "cli", "Chat session id for the transcript")
	cmd.Flags().BoolVar(&html, "html", false, "Print the sanitized HTML instead of the raw reply")
	return cmd
}
