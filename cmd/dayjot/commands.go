package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/vinayprograms/dayjot/internal/day"
	"github.com/vinayprograms/dayjot/internal/index"
	"github.com/vinayprograms/dayjot/internal/journal"
	"github.com/vinayprograms/dayjot/internal/markup"
	"github.com/vinayprograms/dayjot/internal/mcpserver"
	"github.com/vinayprograms/dayjot/internal/search"
	"github.com/vinayprograms/dayjot/internal/task"
	"github.com/vinayprograms/dayjot/internal/tui"
)

var (
	dateColor      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lineColor      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	openColor      = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	completedColor = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cancelledColor = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Strikethrough(true)
)

const dateHelp = "Days are YYYY-MM-DD, today, yesterday or -N for N days ago."

// dayArg parses the optional day argument, today when absent.
func dayArg(args []string, at int) (day.ID, error) {
	if len(args) <= at {
		return day.Today(), nil
	}
	return day.Parse(args[at], day.Today())
}

// rangeFlags are the --from/--to bounds shared by the scanning commands.
type rangeFlags struct {
	from, to string
}

func (r *rangeFlags) add(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.from, "from", "", "earliest day to include")
	cmd.Flags().StringVar(&r.to, "to", "", "latest day to include")
}

func (r *rangeFlags) parse() (search.Range, error) {
	var out search.Range
	var err error
	today := day.Today()
	if r.from != "" {
		if out.From, err = day.Parse(r.from, today); err != nil {
			return out, err
		}
	}
	if r.to != "" {
		if out.To, err = day.Parse(r.to, today); err != nil {
			return out, err
		}
	}
	return out, nil
}

func addShow(topLevel *cobra.Command, a *app) {
	var plain bool
	var width int

	cmd := &cobra.Command{
		Use:   "show [day]",
		Short: "Print a day",
		Long:  "Print a day rendered for the terminal.\n\n" + dateHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := dayArg(args, 0)
			if err != nil {
				return err
			}
			text, err := a.store.Load(id)
			if err != nil {
				if errors.Is(err, journal.ErrNotFound) {
					return fmt.Errorf("no entry for %s", id)
				}
				return err
			}

			if plain {
				var h markup.Highlighter
				out := markup.Render(h.Layout(text, width), tui.ThemeFromConfig(a.cfg.Colors).Markup)
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}

			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return err
			}
			out, err := r.Render(toMarkdown(text))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "use the editor's highlighting instead of markdown rendering")
	cmd.Flags().IntVar(&width, "width", 80, "wrap width")
	topLevel.AddCommand(cmd)
}

func addPath(topLevel *cobra.Command, a *app) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "path [day]",
		Short: "Print the file path of a day",
		Long:  "Print the file path of a day, whether or not it exists yet.\n\n" + dateHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := dayArg(args, 0)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.store.PathFor(id))
			return nil
		},
	})
}

func addList(topLevel *cobra.Command, a *app) {
	var tree bool
	var r rangeFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the days that have an entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := r.parse()
			if err != nil {
				return err
			}
			days := search.Days(cmd.Context(), a.store, rng)
			out := cmd.OutOrStdout()

			if !tree {
				for _, id := range days {
					fmt.Fprintln(out, id)
				}
				return nil
			}
			for _, y := range index.Group(index.Of(days...)) {
				fmt.Fprintln(out, y.Year)
				for _, m := range y.Months {
					parts := make([]string, len(m.Days))
					for i, d := range m.Days {
						parts[i] = strconv.Itoa(d.Day)
					}
					fmt.Fprintf(out, "  %s  %s\n", m.Label(), strings.Join(parts, " "))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&tree, "tree", false, "group days by year and month")
	r.add(cmd)
	topLevel.AddCommand(cmd)
}

func addTasks(topLevel *cobra.Command, a *app) {
	var open bool
	var r rangeFlags

	cmd := &cobra.Command{
		Use:   "tasks [day]",
		Short: "List task lines",
		Long:  "List task lines of one day, or of every day in --from/--to.\n\n" + dateHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := r.parse()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				id, err := dayArg(args, 0)
				if err != nil {
					return err
				}
				rng = search.Range{From: id, To: id}
			}

			var markers []task.Marker
			if open {
				markers = append(markers, task.Open)
			}
			hits, err := search.Tasks(cmd.Context(), a.store, rng, markers...)
			if err != nil {
				fmt.Fprintln(os.Stderr, "warning:", err)
			}
			printTasks(cmd, hits)
			return nil
		},
	}
	cmd.Flags().BoolVar(&open, "open", false, "only open tasks")
	r.add(cmd)
	topLevel.AddCommand(cmd)
}

func printTasks(cmd *cobra.Command, hits []search.TaskHit) {
	if len(hits) == 0 {
		return
	}
	tbl := uitable.New()
	tbl.Separator = " "
	for _, h := range hits {
		var marker string
		switch h.Marker {
		case task.Open:
			marker = openColor.Render(h.Marker.Symbol())
		case task.Completed:
			marker = completedColor.Render(h.Marker.Symbol())
		case task.Cancelled:
			marker = cancelledColor.Render(h.Marker.Symbol())
		}
		tbl.AddRow(dateColor.Render(h.Day.String()), lineColor.Render(strconv.Itoa(h.Line)), marker, h.Text)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl)
}

func addToggle(topLevel *cobra.Command, a *app) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "toggle <day> <line>",
		Short: "Cycle the task marker on a line",
		Long: `Cycle the task marker on a 1-based line of a day: open becomes completed,
completed and cancelled swap. A line without a marker becomes an open task.

` + dateHelp,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := dayArg(args, 0)
			if err != nil {
				return err
			}
			line, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid line %q", args[1])
			}

			text, err := a.store.Load(id)
			if err != nil {
				return err
			}
			out, _, err := task.CycleLine(text, line)
			if err != nil {
				return err
			}
			if err := a.store.Save(id, out); err != nil {
				return err
			}
			if c := a.committer(); c != nil {
				if err := c.CommitFile(a.store.PathFor(id), fmt.Sprintf("Cycle task on %s line %d", id, line)); err != nil {
					fmt.Fprintln(os.Stderr, "warning: commit failed:", err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), strings.Split(out, "\n")[line-1])
			return nil
		},
	})
}

func addSearch(topLevel *cobra.Command, a *app) {
	var r rangeFlags

	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Find lines containing a phrase",
		Long:  "Find lines containing a phrase in every day, ignoring case.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := r.parse()
			if err != nil {
				return err
			}
			hits, err := search.Text(cmd.Context(), a.store, rng, strings.Join(args, " "))
			if err != nil {
				fmt.Fprintln(os.Stderr, "warning:", err)
			}
			if len(hits) == 0 {
				return nil
			}
			tbl := uitable.New()
			tbl.Separator = " "
			for _, h := range hits {
				tbl.AddRow(dateColor.Render(h.Day.String()), lineColor.Render(strconv.Itoa(h.Line)), h.Text)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
	r.add(cmd)
	topLevel.AddCommand(cmd)
}

func addMCP(topLevel *cobra.Command, a *app) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server (stdio) for AI agent integration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.NewMCPServer(a.store, a.committer(), version).Run(cmd.Context())
		},
	})
}

func addVersion(topLevel *cobra.Command) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
}
