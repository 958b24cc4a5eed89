package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aerissecure/statement"
	"github.com/aerissecure/statement/server"
	"github.com/aerissecure/statement/terminal"
	"github.com/aerissecure/statement/workbook"
	"github.com/aerissecure/statement/xlsx"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the statements that can be rendered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, l := range statement.Layouts() {
				fmt.Fprintf(out, "%-10s %s\n", l.Key, l.Name)
				if keys := l.RequiredKeys(); len(keys) > 0 {
					fmt.Fprintf(out, "%-10s requires: %s\n", "", strings.Join(keys, ", "))
				}
			}
			return nil
		},
	}
}

type renderCmd struct {
	app    *app
	input  string
	output string
	engine string
}

func newRenderCmd(a *app) *cobra.Command {
	rc := &renderCmd{app: a}
	cmd := &cobra.Command{
		Use:   "render <kind>",
		Short: "Render a statement into an .xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  rc.run,
	}

	cmd.Flags().StringVarP(&rc.input, "input", "i", "", "Input file (YAML or JSON, - for stdin)")
	cmd.Flags().StringVarP(&rc.output, "output", "o", "", "Workbook to write (default <kind>.xlsx)")
	cmd.Flags().StringVar(&rc.engine, "engine", "", "Workbook engine, xlsx or excelize (default from config)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (rc *renderCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	l, in, err := rc.app.load(args[0], rc.input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	engine := rc.app.cfg.WorkbookEngine()
	if rc.engine != "" {
		if engine, err = workbook.ParseEngine(rc.engine); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := workbook.Write(ctx, &buf, engine, rc.app.renderer(), l, in); err != nil {
		return fmt.Errorf("failed to render %s: %w", l.Key, err)
	}

	output := rc.output
	if output == "" {
		output = l.Key + ".xlsx"
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	zerolog.Ctx(ctx).Info().
		Str("file", output).
		Str("engine", string(engine)).
		Msg("workbook written")
	return nil
}

type previewCmd struct {
	app        *app
	input      string
	html       bool
	rowNumbers bool
}

func newPreviewCmd(a *app) *cobra.Command {
	pc := &previewCmd{app: a}
	cmd := &cobra.Command{
		Use:   "preview <kind>",
		Short: "Render a statement to the terminal or as HTML",
		Args:  cobra.ExactArgs(1),
		RunE:  pc.run,
	}

	cmd.Flags().StringVarP(&pc.input, "input", "i", "", "Input file (YAML or JSON, - for stdin)")
	cmd.Flags().BoolVar(&pc.html, "html", false, "Print an HTML table instead of text")
	cmd.Flags().BoolVarP(&pc.rowNumbers, "rows", "n", false, "Show row numbers")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (pc *previewCmd) run(cmd *cobra.Command, args []string) error {
	l, in, err := pc.app.load(args[0], pc.input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	sheet, err := workbook.Preview(cmd.Context(), pc.app.renderer(), l, in)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", l.Key, err)
	}

	out := cmd.OutOrStdout()
	if pc.html {
		_, err = io.WriteString(out, xlsx.HTML(sheet))
		return err
	}
	_, err = io.WriteString(out, terminal.Preview(sheet, terminal.Options{RowNumbers: pc.rowNumbers}))
	return err
}

func newInspectCmd() *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "inspect <file.xlsx>",
		Short: "Show the first sheet of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			fi, err := f.Stat()
			if err != nil {
				return err
			}

			sheet, err := xlsx.Read(f, fi.Size())
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if html {
				_, err = io.WriteString(out, xlsx.HTML(sheet))
				return err
			}
			_, err = io.WriteString(out, terminal.Preview(sheet, terminal.Options{RowNumbers: true}))
			return err
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Print an HTML table instead of text")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the statement HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			logger := zerolog.New(os.Stdout).Level(a.cfg.Level()).With().Timestamp().Logger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api := server.NewWebAPI(logger, server.Config{
				Addr:     addr,
				Engine:   a.cfg.WorkbookEngine(),
				Renderer: a.renderer(),
				Company:  a.cfg.Company,
			})
			return api.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

// load looks up kind and reads the input named by path.
func (a *app) load(kind, path string, stdin io.Reader) (statement.Layout, statement.Input, error) {
	l, err := statement.Lookup(kind)
	if err != nil {
		return statement.Layout{}, statement.Input{}, err
	}

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return statement.Layout{}, statement.Input{}, err
		}
		defer f.Close()
		r = f
	}

	in, err := statement.ReadInput(r)
	if err != nil {
		return statement.Layout{}, statement.Input{}, fmt.Errorf("%s: %w", path, err)
	}
	if in.Company == "" {
		in.Company = a.cfg.Company
	}
	return l, in, nil
}

func (a *app) renderer() statement.Renderer {
	return statement.Renderer{Options: a.cfg.Options()}
}
