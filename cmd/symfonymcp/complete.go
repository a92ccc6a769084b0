package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dejo1307/symfonymcp/internal/candidates"
	"github.com/dejo1307/symfonymcp/internal/completion"
	"github.com/dejo1307/symfonymcp/internal/logger"
	"github.com/dejo1307/symfonymcp/internal/yamlpath"
)

var (
	completeJSON bool
	cursorFile   string
	cursorLine   int
	cursorColumn int
)

var completeCmd = &cobra.Command{
	Use:   "complete [key...]",
	Short: "List completion candidates for a configuration key path",
	Long: `List the options and sections valid below a root-first key path, e.g.

  symfonymcp complete doctrine orm connections default

or at a cursor position in a YAML file:

  symfonymcp complete --file app/config/config.yml --line 12 --column 9`,
	RunE: runComplete,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [key...]",
	Short: "Show how a key path maps onto the configuration reference",
	RunE:  runResolve,
}

func init() {
	for _, c := range []*cobra.Command{completeCmd, resolveCmd} {
		c.Flags().StringVar(&cursorFile, "file", "", "YAML file to read the cursor context from")
		c.Flags().IntVar(&cursorLine, "line", 0, "1-based cursor line in --file")
		c.Flags().IntVar(&cursorColumn, "column", 1, "1-based cursor column in --file")
		rootCmd.AddCommand(c)
	}
	completeCmd.Flags().BoolVar(&completeJSON, "json", false, "Print candidates as JSON")
}

// keyPath returns the positional keys or the keys enclosing the --file cursor.
func keyPath(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if cursorFile == "" {
		return nil, fmt.Errorf("give a key path or --file with --line")
	}
	data, err := os.ReadFile(cursorFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", cursorFile, err)
	}
	return yamlpath.ParentKeys(data, cursorLine, cursorColumn), nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	cfg, svc, err := setup()
	if err != nil {
		return err
	}
	defer logger.Cleanup()

	path, err := keyPath(args)
	if err != nil {
		return err
	}

	cands := svc.Complete(context.Background(), completion.Request{ProjectRoot: cfg.ProjectRoot, Path: path})
	out := cmd.OutOrStdout()
	if completeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if cands == nil {
			cands = []candidates.Candidate{}
		}
		return enc.Encode(cands)
	}
	fmt.Fprint(out, candidates.Markdown(path, cands))
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, svc, err := setup()
	if err != nil {
		return err
	}
	defer logger.Cleanup()

	path, err := keyPath(args)
	if err != nil {
		return err
	}

	res, src, err := svc.Resolve(context.Background(), completion.Request{ProjectRoot: cfg.ProjectRoot, Path: path})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "source: %s\n", src)
	for _, step := range res.Steps {
		switch {
		case step.InstanceKey:
			fmt.Fprintf(out, "  %-24s (prototype instance key)\n", step.Segment)
		case step.Singular:
			fmt.Fprintf(out, "  %-24s -> %s (singular)\n", step.Segment, step.Node)
		default:
			fmt.Fprintf(out, "  %-24s -> %s\n", step.Segment, step.Node)
		}
	}
	return nil
}
