package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/rgonek/richdoc/markup"
	"github.com/rgonek/richdoc/pipeline"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "richdoc",
		Usage: "Convert rich-text documents between canonical markup, plain text and files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file, applied on top of the preset",
			},
			&cli.StringFlag{
				Name:  "preset",
				Value: presetBalanced,
				Usage: "Preset: balanced|plain|strict",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every conversion and warning",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "sanitize",
				Usage:     "Print the canonical form of markup",
				ArgsUsage: "<file|->",
				Action:    sanitizeAction,
			},
			{
				Name:      "text",
				Usage:     "Print the plain text projection of markup",
				ArgsUsage: "<file|->",
				Action:    textAction,
			},
			{
				Name:      "import",
				Usage:     "Convert a txt, docx, md or html file to canonical markup",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Input format, detected from the file name by default"},
				},
				Action: importAction,
			},
			{
				Name:      "export",
				Usage:     "Render canonical markup as a txt, docx, md or html file",
				ArgsUsage: "<file|->",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file", Required: true},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format, detected from --output by default"},
					&cli.StringFlag{Name: "fallback", Usage: "Plain text file used when the markup yields no content"},
				},
				Action: exportAction,
			},
			{
				Name:      "analyze",
				Usage:     "Print the plain text, markdown and language of markup as JSON",
				ArgsUsage: "<file|->",
				Action:    analyzeAction,
			},
		},
	}
}

func newEngine(c *cli.Context) (*pipeline.Engine, error) {
	cfg, err := resolveConfig(c.String("preset"), c.String("config"), c.Bool("verbose"), c.App.ErrWriter)
	if err != nil {
		return nil, err
	}
	engine, err := pipeline.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return engine, nil
}

func sanitizeAction(c *cli.Context) error {
	engine, data, err := setup(c)
	if err != nil {
		return err
	}
	content, err := engine.Normalize(c.Context, string(data))
	if err != nil {
		return err
	}
	printWarnings(c, content.Warnings)
	fmt.Fprintln(c.App.Writer, content.HTML)
	return nil
}

func textAction(c *cli.Context) error {
	engine, data, err := setup(c)
	if err != nil {
		return err
	}
	content, err := engine.Normalize(c.Context, string(data))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, content.Plaintext)
	return nil
}

func importAction(c *cli.Context) error {
	engine, data, err := setup(c)
	if err != nil {
		return err
	}
	format, err := formatFor(c.String("format"), c.Args().First())
	if err != nil {
		return err
	}
	content, err := engine.Import(c.Context, data, format)
	if err != nil {
		return err
	}
	printWarnings(c, content.Warnings)
	fmt.Fprintln(c.App.Writer, content.HTML)
	return nil
}

func exportAction(c *cli.Context) error {
	engine, data, err := setup(c)
	if err != nil {
		return err
	}
	output := c.String("output")
	format, err := formatFor(c.String("format"), output)
	if err != nil {
		return err
	}

	var fallback string
	if path := c.String("fallback"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read fallback: %w", err)
		}
		fallback = string(raw)
	}

	file, err := engine.Export(c.Context, string(data), fallback, format)
	if err != nil {
		return err
	}
	printWarnings(c, file.Warnings)
	if err := os.WriteFile(output, file.Data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(c.App.ErrWriter, "Wrote %s (%s, %s)\n", output, humanize.Bytes(uint64(len(file.Data))), file.MimeType)
	return nil
}

func analyzeAction(c *cli.Context) error {
	engine, data, err := setup(c)
	if err != nil {
		return err
	}
	analysis, err := engine.Analyze(c.Context, string(data))
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("format analysis: %w", err)
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}

// setup builds the engine and reads the single input argument. "-" reads
// standard input.
func setup(c *cli.Context) (*pipeline.Engine, []byte, error) {
	if c.NArg() != 1 {
		return nil, nil, fmt.Errorf("%s expects one input file", c.Command.Name)
	}
	engine, err := newEngine(c)
	if err != nil {
		return nil, nil, err
	}

	var data []byte
	if name := c.Args().First(); name == "-" {
		data, err = io.ReadAll(c.App.Reader)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read input: %w", err)
	}
	return engine, data, nil
}

func formatFor(explicit, name string) (pipeline.Format, error) {
	if strings.TrimSpace(explicit) != "" {
		return pipeline.ParseFormat(explicit)
	}
	if name == "" || name == "-" {
		return "", fmt.Errorf("cannot detect format of standard input, use --format")
	}
	return pipeline.ParseFormat(filepath.Base(name))
}

func printWarnings(c *cli.Context, warnings []markup.Warning) {
	if !c.Bool("verbose") || len(warnings) == 0 {
		return
	}
	fmt.Fprintf(c.App.ErrWriter, "%s:\n", english.Plural(len(warnings), "warning", "warnings"))
	for _, w := range warnings {
		fmt.Fprintf(c.App.ErrWriter, "  [%s] %s\n", w.Type, w.Message)
	}
}
