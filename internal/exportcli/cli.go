package exportcli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/okian/compdash/internal/config"
	"github.com/okian/compdash/pkg/logger"
	"github.com/spf13/cobra"
)

type flags struct {
	dir     string
	only    string
	url     string
	timeout time.Duration
	verbose bool
	errOut  io.Writer
}

// NewRootCmd builds the sample-export command tree. Output paths are printed
// to out, one per line; --verbose logs go to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	f := flags{errOut: errOut}

	root := &cobra.Command{
		Use:   "sample-export",
		Short: "Write the provider and market sample upload files",
		Long: "Write the provider and market sample upload files to a directory, " +
			"either from the built-in datasets or from a running service.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.dir, "dir", "", "Output directory (default: samples_dir from config)")
	root.PersistentFlags().StringVar(&f.only, "only", "", "Export a single dataset: provider or market")
	root.PersistentFlags().BoolVar(&f.verbose, "verbose", false, "Enable debug logging")

	write := &cobra.Command{
		Use:   "write",
		Short: "Write the built-in sample files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := f.exporter(cmd.Context())
			if err != nil {
				return err
			}
			paths, err := e.Write(cmd.Context(), f.only)
			printPaths(out, paths)
			return err
		},
	}

	fetch := &cobra.Command{
		Use:   "fetch",
		Short: "Download the sample files from a running service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := f.exporter(cmd.Context())
			if err != nil {
				return err
			}
			paths, err := e.Fetch(cmd.Context(), f.url, f.only)
			printPaths(out, paths)
			return err
		},
	}
	fetch.Flags().StringVar(&f.url, "url", "http://localhost:9090", "Base URL of the service")
	fetch.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "HTTP request timeout")

	root.AddCommand(write, fetch)
	return root
}

// exporter resolves the output directory and logging from config, with
// flags taking precedence.
func (f *flags) exporter(ctx context.Context) (*Exporter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Discard()
	if f.verbose {
		if err := logger.InitWithFormat(f.errOut, cfg.LogFormat); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		_ = logger.SetLevelString("debug")
		log = logger.Named("sample-export")
	}

	dir := f.dir
	if dir == "" {
		dir = cfg.SamplesDir
	}
	return New(dir, WithLogger(log), WithTimeout(f.timeout)), nil
}

func printPaths(out io.Writer, paths []string) {
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
}
