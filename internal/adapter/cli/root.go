package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bkyoung/lintgate/internal/domain"
	"github.com/bkyoung/lintgate/internal/findings"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// ErrFindingsReported indicates the run completed but lint findings were
// reported on changed lines. The host process maps this to a distinct exit code.
var ErrFindingsReported = errors.New("lint findings reported on changed lines")

// Reporter defines the dependency required to run the report command.
type Reporter interface {
	Report(ctx context.Context, findings []domain.Finding) (bool, error)
}

// Overrides carries CLI flag values that take precedence over configuration.
type Overrides struct {
	Platform          string
	Owner             string
	Repo              string
	PullNumber        int
	Project           string
	MergeRequestIID   int
	RemoveOldComments *bool
}

// ReporterFactory builds a reporter for the resolved platform target.
type ReporterFactory func(ctx context.Context, overrides Overrides) (Reporter, error)

// Arguments encapsulates IO streams injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
	InReader  io.Reader
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	NewReporter   ReporterFactory
	Args          Arguments
	DefaultFormat string
	Version       string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "lintgate",
		Short: "Report lint findings onto pull and merge requests",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	inReader := deps.Args.InReader
	if inReader == nil {
		inReader = os.Stdin
	}

	root.AddCommand(reportCommand(deps.NewReporter, inReader, deps.DefaultFormat))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func reportCommand(newReporter ReporterFactory, stdin io.Reader, defaultFormat string) *cobra.Command {
	var format string
	var platform string
	var owner string
	var repo string
	var pullNumber int
	var project string
	var mergeRequestIID int
	var removeOldComments bool

	if defaultFormat == "" {
		defaultFormat = findings.FormatAuto
	}

	cmd := &cobra.Command{
		Use:   "report [findings-file]",
		Short: "Report lint findings onto a pull or merge request",
		Long: `Report reads linter output from a file or stdin, keeps the findings
that land on lines changed by the pull or merge request, and publishes
them as review comments together with a summary and a commit status.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := readFindings(args, stdin)
			if err != nil {
				return err
			}

			parsed, err := findings.Parse(data, format)
			if err != nil {
				return fmt.Errorf("parse findings: %w", err)
			}

			overrides := Overrides{
				Platform:        platform,
				Owner:           owner,
				Repo:            repo,
				PullNumber:      pullNumber,
				Project:         project,
				MergeRequestIID: mergeRequestIID,
			}
			if cmd.Flags().Changed("remove-old-comments") {
				overrides.RemoveOldComments = &removeOldComments
			}

			reporter, err := newReporter(ctx, overrides)
			if err != nil {
				return err
			}

			clean, err := reporter.Report(ctx, parsed)
			if err != nil {
				return err
			}
			if !clean {
				return ErrFindingsReported
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", defaultFormat, "Findings input format (auto, golangci-lint, text)")
	cmd.Flags().StringVar(&platform, "platform", "", "Target platform (github, gitlab); overrides config")
	cmd.Flags().StringVar(&owner, "owner", "", "GitHub repository owner; overrides config and git remote detection")
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository name; overrides config and git remote detection")
	cmd.Flags().IntVar(&pullNumber, "pr-number", 0, "GitHub pull request number; overrides config")
	cmd.Flags().StringVar(&project, "project", "", "GitLab project path (group/project); overrides config")
	cmd.Flags().IntVar(&mergeRequestIID, "mr-iid", 0, "GitLab merge request IID; overrides config")
	cmd.Flags().BoolVar(&removeOldComments, "remove-old-comments", false, "Delete comments from previous runs before posting")

	return cmd
}

// readFindings loads linter output from the positional file argument,
// falling back to stdin when no file is given or the argument is "-".
func readFindings(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read findings from stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read findings file: %w", err)
	}
	return data, nil
}
