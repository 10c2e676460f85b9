package cli

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tasklist/internal/controller"
	"tasklist/internal/models"
	"tasklist/internal/repository"
	"tasklist/internal/store"
	"tasklist/internal/view"
)

func newAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRepository(func(repo *repository.Repository) error {
				task, err := repo.AddTask(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					if errors.Is(err, models.ErrEmptyInput) {
						return errors.New("task text cannot be empty")
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Task added: %d\n", task.ID)
				return nil
			})
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRepository(func(repo *repository.Repository) error {
				st := controller.State{Filter: models.ParseFilter(filter)}
				return view.WriteText(cmd.OutOrStdout(), view.Render(repo.List(cmd.Context()), st))
			})
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Which tasks to show: all, pending or completed")
	return cmd
}

// newDoneCmd builds "done" (completed=true) or "undo" (completed=false).
func newDoneCmd(opts *options, completed bool) *cobra.Command {
	use, short := "done <id>...", "Mark tasks as completed"
	if !completed {
		use, short = "undo <id>...", "Mark tasks as pending"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return opts.withRepository(func(repo *repository.Repository) error {
				for _, id := range ids {
					if !exists(cmd, repo, id) {
						continue
					}
					if err := repo.ToggleComplete(cmd.Context(), id, completed); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newEditCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>...",
		Short: "Replace the text of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[:1])
			if err != nil {
				return err
			}
			return opts.withRepository(func(repo *repository.Repository) error {
				if !exists(cmd, repo, ids[0]) {
					return nil
				}
				err := repo.EditTask(cmd.Context(), ids[0], strings.Join(args[1:], " "))
				if errors.Is(err, models.ErrEmptyInput) {
					return errors.New("task text cannot be empty")
				}
				return err
			})
		},
	}
}

func newRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return opts.withRepository(func(repo *repository.Repository) error {
				for _, id := range ids {
					if !exists(cmd, repo, id) {
						continue
					}
					if err := repo.DeleteTask(cmd.Context(), id); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newClearCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRepository(func(repo *repository.Repository) error {
				n, err := repo.ClearCompleted(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d completed task(s)\n", n)
				return nil
			})
		},
	}
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts and completion percentage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRepository(func(repo *repository.Repository) error {
				stats := view.ComputeStats(repo.List(cmd.Context()))
				fmt.Fprintln(cmd.OutOrStdout(), view.StatsLine(stats))
				return nil
			})
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write all tasks as JSON, YAML or TOML",
		Long: `Write all tasks to a file, or to stdout when no file is given.

The format defaults to the file extension (.json, .yaml, .yml, .toml), or JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "" && !slices.Contains(store.Formats, format) {
				return fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(store.Formats, ", "))
			}
			return opts.withRepository(func(repo *repository.Repository) error {
				tasks := repo.List(cmd.Context())

				if len(args) == 0 {
					if format == "" {
						format = store.FormatJSON
					}
					data, err := store.MarshalCollection(tasks, format)
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}

				if format == "" {
					format = store.FormatFromPath(args[0])
				}
				if err := store.ExportFile(args[0], tasks, format); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d task(s) to %s\n", len(tasks), args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json, yaml or toml")
	return cmd
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid task id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// exists reports whether id names a task, printing a notice when it does not.
// Unknown ids are not an error.
func exists(cmd *cobra.Command, repo *repository.Repository, id int64) bool {
	if _, ok := repo.Get(cmd.Context(), id); ok {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "No task with id %d\n", id)
	return false
}
