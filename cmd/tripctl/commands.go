package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"trip_planner/internal/app"
	"trip_planner/internal/domain"
)

func newImportCmd(c *cli) *cobra.Command {
	var day int
	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Bulk import reviews (day,member,rating,comment per line); reads stdin without files",
		RunE: func(cmd *cobra.Command, args []string) error {
			workers := c.cfg.Workers
			if workers <= 0 {
				workers = 1
			}
			return runImport(cmd.Context(), c.planner, args, cmd.InOrStdin(), cmd.OutOrStdout(), workers, day)
		},
	}
	cmd.Flags().IntVar(&day, "day", 1, "day view to print after importing")
	return cmd
}

type fileReport struct {
	name string
	rep  app.ImportReport
}

// runImport parses every source concurrently, then appends all accepted
// records in argument order with a single store write.
func runImport(ctx context.Context, p *app.Planner, files []string, stdin io.Reader, out io.Writer, workers, day int) error {
	now := time.Now().UTC()
	if len(files) == 0 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		reports := []fileReport{{name: "stdin", rep: app.ParseText(string(b), now)}}
		return finishImport(ctx, p, reports, out, day)
	}

	reports := make([]fileReport, len(files))
	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			b, err := os.ReadFile(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", f, err)
			}
			reports[i] = fileReport{name: f, rep: app.ParseText(string(b), now)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return finishImport(ctx, p, reports, out, day)
}

func finishImport(ctx context.Context, p *app.Planner, reports []fileReport, out io.Writer, day int) error {
	var accepted []domain.Review
	for _, fr := range reports {
		accepted = append(accepted, fr.rep.Accepted...)
		fmt.Fprintf(out, "%s: %s\n", fr.name, formatCounts(fr.rep.Counts))
	}
	all, err := p.Reviews.Append(ctx, accepted)
	if err != nil {
		return err
	}
	log.Info().Int("imported", len(accepted)).Int("sources", len(reports)).Msg("reviews imported")
	fmt.Fprintf(out, "imported %d review(s)\n", len(accepted))
	printDay(out, app.Aggregate(all, day))
	return nil
}

func formatCounts(counts map[app.Outcome]int) string {
	keys := make([]string, 0, len(counts))
	for o, n := range counts {
		keys = append(keys, string(o)+"="+strconv.Itoa(n))
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return "no lines"
	}
	return strings.Join(keys, " ")
}

func newExportCmd(c *cli) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every review as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			csv, err := c.planner.Reviews.ExportCSV(cmd.Context())
			if err != nil {
				return err
			}
			if path == "-" {
				_, err = cmd.OutOrStdout().Write(append(csv, '\n'))
				return err
			}
			if err := os.WriteFile(path, csv, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "output", "o", app.ExportFilename, `output file ("-" for stdout)`)
	return cmd
}

func newSummaryCmd(c *cli, cb domain.Clipboard) *cobra.Command {
	var copyOut bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a one-line-per-review summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if copyOut {
				n, err := c.planner.Reviews.CopySummary(cmd.Context(), cb)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "copied %d review(s) to the clipboard\n", n)
				return nil
			}
			text, err := c.planner.Reviews.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyOut, "copy", false, "copy to the clipboard instead of printing")
	return cmd
}

func newDayCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "day <n>",
		Short: "Show reviews and the average rating for one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := strconv.Atoi(args[0])
			if err != nil || d <= 0 {
				return errors.New("day must be a positive integer")
			}
			printDay(cmd.OutOrStdout(), c.planner.Reviews.ForDay(cmd.Context(), d))
			return nil
		},
	}
}

func printDay(out io.Writer, v domain.DayView) {
	fmt.Fprintf(out, "Day %02d: %s\n", v.Day, v.Summary)
	for _, r := range v.Records {
		fmt.Fprintf(out, "  %s  %s  %s", r.Stars, r.Member, app.FormatTimestamp(r.Timestamp))
		if r.Comment != "" {
			fmt.Fprintf(out, "  %s", r.Comment)
		}
		fmt.Fprintln(out)
	}
}
