package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"daywheel/internal/config"
	"daywheel/internal/db"
	"daywheel/internal/derive"
	"daywheel/internal/engine"
	"daywheel/internal/events"
	"daywheel/internal/migrate"
	"daywheel/internal/repo"
	"daywheel/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "dw",
	Short: "Daywheel CLI",
	Long: `Daywheel is a single-user task and calendar manager with a week dial.
Tasks live on calendar days; completing them day after day builds a streak,
and streaks and totals unlock achievements. State is held in memory and
mirrored to local storage (.daywheel/) after every change.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("DAYWHEEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(weekCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
}

// withEngine opens the workspace, builds the configured persistence
// backend and hands a loaded engine to fn.
func withEngine(ctx context.Context, fn func(context.Context, *engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	dataDir, err := db.EnsureWorkspace(workspace)
	if err != nil {
		return err
	}
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return err
	}
	var r repo.Repo
	switch cfg.Storage {
	case config.StorageFile:
		r, err = repo.NewFile(dataDir)
		if err != nil {
			return err
		}
	default:
		conn, err := db.Open(db.Config{Workspace: workspace})
		if err != nil {
			return err
		}
		if err := migrate.Migrate(conn); err != nil {
			conn.Close()
			return err
		}
		r = repo.NewSQLite(conn)
	}
	defer r.Close()
	e := engine.New(r, cfg)
	e.Events = events.Writer{Path: filepath.Join(dataDir, "events.jsonl")}
	if err := e.Load(ctx); err != nil {
		return err
	}
	if warn := e.LoadWarning(); warn != nil {
		fmt.Fprintln(os.Stderr, "warning: starting from an empty store:", warn)
	}
	if err := fn(ctx, e); err != nil {
		return err
	}
	if warn := e.LastFlushError(); warn != nil {
		fmt.Fprintln(os.Stderr, "warning: changes not persisted:", warn)
	}
	return nil
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Manage configuration"}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default daywheel.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSON(cfg)
		},
	})
	return cmd
}

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "task", Short: "Manage tasks"}
	cmd.AddCommand(taskAddCmd())
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskShowCmd())
	cmd.AddCommand(taskUpdateCmd())
	cmd.AddCommand(taskDoneCmd())
	cmd.AddCommand(taskDeleteCmd())
	return cmd
}

func taskAddCmd() *cobra.Command {
	var opts engine.TaskCreateOptions
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				t, err := e.CreateTask(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOr(t, func() {
					fmt.Printf("created %s (%s, %s)\n", t.ID, t.Title, t.Date)
				})
			})
		},
	}
	cmd.Flags().StringVar(&opts.Title, "title", "", "task title")
	cmd.Flags().StringVar(&opts.Description, "description", "", "task description")
	cmd.Flags().StringVar(&opts.Date, "date", "", "scheduled day YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "low|medium|high")
	cmd.Flags().StringVar(&opts.Category, "category", "", "personal|work|health|shopping|other")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func taskListCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				tasks := e.ListTasks()
				if date != "" {
					var err error
					tasks, err = e.TasksForDate(date)
					if err != nil {
						return err
					}
				}
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Date", "Done", "Priority", "Category"})
				for _, t := range tasks {
					done := ""
					if t.Completed {
						done = "x"
					}
					tw.AppendRow(table.Row{shortID(t.ID), t.Title, t.Date, done, t.Priority, t.Category})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "only tasks on this YYYY-MM-DD day")
	return cmd
}

func taskShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				t, err := e.GetTask(args[0])
				if err != nil {
					return err
				}
				return printJSON(t)
			})
		},
	}
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var title, description, date, priority, category string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				var opts engine.TaskUpdateOptions
				if cmd.Flags().Changed("title") {
					opts.Title = &title
				}
				if cmd.Flags().Changed("description") {
					opts.Description = &description
				}
				if cmd.Flags().Changed("date") {
					opts.Date = &date
				}
				if cmd.Flags().Changed("priority") {
					opts.Priority = &priority
				}
				if cmd.Flags().Changed("category") {
					opts.Category = &category
				}
				t, err := e.UpdateTask(ctx, args[0], opts)
				if err != nil {
					return err
				}
				return printJSONOr(t, func() {
					fmt.Printf("updated %s\n", t.ID)
				})
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&date, "date", "", "new day YYYY-MM-DD")
	cmd.Flags().StringVar(&priority, "priority", "", "low|medium|high")
	cmd.Flags().StringVar(&category, "category", "", "personal|work|health|shopping|other")
	return cmd
}

func taskDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle task completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				t, err := e.ToggleCompleted(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOr(t, func() {
					state := "reopened"
					if t.Completed {
						state = "completed"
					}
					fmt.Printf("%s %s\n", state, t.ID)
				})
			})
		},
	}
	return cmd
}

func taskDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				if err := e.DeleteTask(ctx, args[0]); err != nil {
					return err
				}
				fmt.Println("deleted", args[0])
				return nil
			})
		},
	}
	return cmd
}

func weekCmd() *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the week grouping",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				groups, err := e.WeekView(start)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(groups)
				}
				renderWeek(groups)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day YYYY-MM-DD (default current week)")
	return cmd
}

func renderWeek(groups []derive.DayGroup) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	header := table.Row{}
	rows := 0
	for _, g := range groups {
		header = append(header, g.Day.Weekday().String()[:3]+" "+g.Day.String()[5:])
		if n := len(g.Tasks); n > rows {
			rows = n
		}
	}
	tw.AppendHeader(header)
	for i := 0; i < rows; i++ {
		row := table.Row{}
		for _, g := range groups {
			cell := ""
			if i < len(g.Tasks) {
				t := g.Tasks[i]
				mark := "[ ] "
				if t.Completed {
					mark = "[x] "
				}
				cell = mark + t.Title
			}
			row = append(row, cell)
		}
		tw.AppendRow(row)
	}
	footer := table.Row{}
	overflow := false
	for _, g := range groups {
		cell := ""
		if g.Overflow > 0 {
			cell = fmt.Sprintf("+%d more", g.Overflow)
			overflow = true
		}
		footer = append(footer, cell)
	}
	if overflow {
		tw.AppendFooter(footer)
	}
	tw.Render()
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streak, totals and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s := e.StatsSnapshot()
				if viper.GetBool("json") {
					return printJSON(s)
				}
				fmt.Printf("streak: %d day(s)\n", s.Streak)
				fmt.Printf("tasks: %d total, %d completed, %d pending (%.0f%%)\n",
					s.TotalTasks, s.TotalCompleted, s.TotalPending, s.CompletionPercent)
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Achievement", "Description", "Unlocked"})
				for _, a := range s.Achievements {
					state := ""
					if a.Unlocked {
						state = a.UnlockedAt
					}
					tw.AppendRow(table.Row{a.Title, a.Description, state})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func logCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "log", Short: "Inspect the change diary"}
	var n int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Show the latest events",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			dataDir, err := db.EnsureWorkspace(workspace)
			if err != nil {
				return err
			}
			evts, err := events.Tail(filepath.Join(dataDir, "events.jsonl"), n)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(evts)
			}
			for _, e := range evts {
				fmt.Printf("%s  %-22s %s\n", e.TS, e.Type, e.TaskID)
			}
			return nil
		},
	}
	tail.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.AddCommand(tail)
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser UI and API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				if addr == "" {
					addr = e.Config.Server.Addr
				}
				handler, err := server.New(server.Config{Engine: e, BasePath: basePath})
				if err != nil {
					return err
				}
				srv := &http.Server{Addr: addr, Handler: handler}
				go func() {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
				fmt.Printf("Serving Daywheel on http://%s (API at %s, OpenAPI at /openapi.json)\n", addr, basePath)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printJSONOr(v any, plain func()) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	plain()
	return nil
}
