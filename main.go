package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"crossgrid/internal/app"
	"crossgrid/internal/clue"
	"crossgrid/internal/config"
	"crossgrid/internal/editor"
	"crossgrid/internal/grid"
	"crossgrid/internal/storage"
)

type flags struct {
	configPath  string
	projectsDir string
	sessionDB   string
	rows, cols  int
	noSplash    bool
}

func main() {
	var f flags

	rootCmd := &cobra.Command{
		Use:   "crossgrid",
		Short: "Edit crossword grids and clues in the terminal",
		Long: `crossgrid is a terminal crossword editor. Fill the grid, place black
squares, and write clues; numbering follows the grid automatically.

Projects are saved as JSON files and the working puzzle is kept between runs.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return runEditor(cmd.Context(), cfg)
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&f.projectsDir, "projects", "", "directory holding saved projects")
	pf.StringVar(&f.sessionDB, "session", "", "SQLite file holding the working puzzle")
	rootCmd.Flags().IntVar(&f.rows, "rows", 0, "initial rows when no session exists")
	rootCmd.Flags().IntVar(&f.cols, "cols", 0, "initial columns when no session exists")
	rootCmd.Flags().BoolVar(&f.noSplash, "no-splash", false, "skip the splash screen")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, f)
			if err != nil {
				return err
			}
			return runList(cmd.Context(), cmd.OutOrStdout(), store)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show ID|NAME",
		Short: "Print a project's grid and clues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, f)
			if err != nil {
				return err
			}
			return runShow(cmd.Context(), cmd.OutOrStdout(), store, args[0])
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export ID|NAME",
		Short: "Write a project's grid to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("csv")
			if out == "" {
				return fmt.Errorf("--csv is required")
			}
			store, err := openStore(cmd, f)
			if err != nil {
				return err
			}
			p, err := store.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, g, _, err := p.Data.Document()
			if err != nil {
				return err
			}
			if err := storage.SaveCSV(g, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	exportCmd.Flags().String("csv", "", "output CSV file")

	deleteCmd := &cobra.Command{
		Use:   "delete ID|NAME",
		Short: "Delete a saved project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, f)
			if err != nil {
				return err
			}
			p, err := store.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	rootCmd.AddCommand(listCmd, showCmd, exportCmd, deleteCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers command-line flags over the file and environment.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	if f.projectsDir != "" {
		cfg.Storage.ProjectsDir = f.projectsDir
	}
	if f.sessionDB != "" {
		cfg.Storage.SessionDB = f.sessionDB
	}
	if fl := cmd.Flags().Lookup("rows"); fl != nil && fl.Changed {
		cfg.Grid.Rows = f.rows
	}
	if fl := cmd.Flags().Lookup("cols"); fl != nil && fl.Changed {
		cfg.Grid.Cols = f.cols
	}
	if f.noSplash {
		cfg.UI.Splash = false
	}
	cfg.ExpandPaths()
	return cfg, nil
}

func openStore(cmd *cobra.Command, f flags) (*storage.ProjectStore, error) {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}
	return storage.NewProjectStore(cfg.Storage.ProjectsDir, cfg.Log.StderrLogger()), nil
}

func runEditor(ctx context.Context, cfg config.Config) error {
	log, closeLog, err := cfg.Log.OpenLog()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := storage.NewProjectStore(cfg.Storage.ProjectsDir, log)
	a := app.New(ctx, app.Options{
		Size:       cfg.Size(),
		Projects:   store,
		Log:        log,
		MessageTTL: time.Duration(cfg.UI.MessageTTL),
	})

	session, err := storage.OpenSession(ctx, cfg.Storage.SessionDB, log)
	if err != nil {
		// the editor still works, it just forgets the puzzle on exit
		log.Error("session store unavailable", "path", cfg.Storage.SessionDB, "err", err)
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	} else {
		defer session.Close()
		a.Session = session
		snap, ok, err := session.Restore(ctx)
		if err != nil {
			log.Warn("session restore failed", "err", err)
		}
		if ok {
			a.State = editor.Restore(snap.Size, snap.Grid, snap.Clues)
			log.Info("session restored", "size", snap.Size)
		}
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("cannot create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("cannot init screen: %w", err)
	}
	defer func() {
		cancel()
		s.Fini()
	}()

	s.EnableMouse()
	s.EnablePaste()
	s.Clear()

	if cfg.UI.Splash {
		app.SplashScreen(s, 60*time.Millisecond)
	}

	log.Info("editor started", "size", a.State.Size, "projects", store.Dir())
	a.Run(s)
	log.Info("editor stopped")
	return nil
}

func runList(ctx context.Context, w io.Writer, store *storage.ProjectStore) error {
	list, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(w, "no saved projects")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tUPDATED")
	for _, p := range list {
		size := "?"
		if p.Data.Size != nil {
			size = p.Data.Size.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID[:min(8, len(p.ID))], p.Name, size, p.UpdatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func runShow(ctx context.Context, w io.Writer, store *storage.ProjectStore, ref string) error {
	p, err := store.Find(ctx, ref)
	if err != nil {
		return err
	}
	size, g, clues, err := p.Data.Document()
	if err != nil {
		return err
	}
	n := grid.Number(g, size)

	fmt.Fprintf(w, "%s (%s)\n\n", p.Name, size)
	for _, row := range n.Grid {
		var b strings.Builder
		for _, cell := range row {
			switch {
			case cell.IsBlack:
				b.WriteString(" ##")
			case cell.Char != "":
				b.WriteString("  " + cell.Char)
			default:
				b.WriteString("  .")
			}
		}
		fmt.Fprintln(w, b.String())
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, clue.Format(clue.Export(n.Entries, clues)))
	return nil
}
