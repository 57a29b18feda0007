package cli

import (
	"fmt"

	"funlabs/internal/utils"

	"github.com/spf13/cobra"
)

func newBaseURLCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "base-url",
		Short: "Print the resolved API base URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), opts.client(cmd).BaseURL())
			return err
		},
	}
}

func newTopicsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List topics with their lessons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			topics, err := opts.client(cmd).Topics.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, topics)
		},
	}
}

func newQuestionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "questions <lessonId>",
		Short: "List the questions of a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lessonID, err := utils.ParseID("lessonId", args[0])
			if err != nil {
				return err
			}

			questions, err := opts.client(cmd).Lessons.Questions(cmd.Context(), lessonID)
			if err != nil {
				return err
			}
			return writeJSON(cmd, questions)
		},
	}
}
