package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kilianp07/classgrid/app"
	"github.com/kilianp07/classgrid/core/browser"
	"github.com/kilianp07/classgrid/core/model"
	"github.com/kilianp07/classgrid/infra/logger"
	"github.com/kilianp07/classgrid/pkg/export"
	"github.com/kilianp07/classgrid/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse SUBJ:CODE...",
	Short: "Browse generated schedules in the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// parseCourses reads SUBJ:CODE arguments, e.g. "CS:210".
func parseCourses(args []string) ([]model.CourseRef, error) {
	out := make([]model.CourseRef, 0, len(args))
	for _, a := range args {
		subj, code, ok := strings.Cut(a, ":")
		if !ok {
			return nil, fmt.Errorf("course %q: expected SUBJ:CODE", a)
		}
		out = append(out, model.NewCourseRef(subj, code))
	}
	return out, nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	courses, err := parseCourses(args)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The UI owns stdout.
	cfg.Logging.Level = "warn"
	logger.SetOutput(cmd.ErrOrStderr())
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	refreshCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	svc.StartCatalog(refreshCtx)

	sess := svc.Manager.Create()
	for _, c := range courses {
		if _, err := sess.AddCourse(c.Subj, c.Code); err != nil {
			return err
		}
	}
	_, err = tea.NewProgram(tui.New(ctx, sess), tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout())).Run()
	return err
}

var (
	layoutIndex  int
	layoutFormat string
)

var layoutCmd = &cobra.Command{
	Use:   "layout FILE",
	Short: "Print the grid of one schedule from a saved generation response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		return printLayout(cmd.OutOrStdout(), f, layoutIndex, layoutFormat)
	},
}

func init() {
	layoutCmd.Flags().IntVarP(&layoutIndex, "index", "i", 0, "zero-based schedule index")
	layoutCmd.Flags().StringVarP(&layoutFormat, "format", "f", "grid", "output format: grid, csv or json")
	rootCmd.AddCommand(layoutCmd)
}

func printLayout(w io.Writer, r io.Reader, index int, format string) error {
	var resp model.GenerateResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.Infeasible() {
		msg := resp.Message
		if msg == "" {
			msg = browser.DefaultConflictMessage
		}
		_, err := fmt.Fprintf(w, "%s\n", msg)
		return err
	}
	if index < 0 || index >= len(resp.Schedules) {
		return fmt.Errorf("index %d out of range: %d schedules", index, len(resp.Schedules))
	}
	sess := browser.NewSession("layout", nil, nil, nil, logger.NewWithWriter("layout", os.Stderr))
	sess.SetSchedules(resp.Schedules)
	sess.Navigate(index)
	v := sess.View()
	if format != "grid" {
		return export.Write(w, format, v.Sections)
	}
	if _, err := io.WriteString(w, tui.RenderView(v)); err != nil {
		return err
	}
	if v.LayoutError != "" {
		return fmt.Errorf("layout: %s", v.LayoutError)
	}
	return nil
}
