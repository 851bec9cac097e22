// Command ribc is the RIB scene-processor CLI.
//
// Usage:
//
//	ribc run scene.rib            # Process and echo normalized RIB
//	ribc lex scene.rib            # Dump the token stream
//	ribc validate scene.rib       # Process, report diagnostics only
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rmanicore/ri"
	"github.com/rmanicore/ri/diag"
	"github.com/rmanicore/ri/riblex"
	"github.com/rmanicore/ri/ribwriter"
)

// version returns the module version from build info.
func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

var (
	abortOnError bool
	jsonLog      bool
)

var rootCmd = &cobra.Command{
	Use:     "ribc",
	Short:   "Process RenderMan Interface Bytestream (RIB) scene files",
	Version: version(),
}

func reporter() diag.Reporter {
	var r diag.Reporter
	if jsonLog {
		logger, _ := zap.NewProduction()
		r = diag.NewZapReporter(logger)
	} else {
		r = diag.NewConsoleReporter()
	}
	if abortOnError {
		r = diag.NewAbortReporter(r)
	}
	return r
}

func runCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "run <scene.rib>",
		Short: "Process a RIB file and write the normalized ASCII form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			w := ribwriter.NewWriter(out)
			ctx := ri.NewContext(w, ri.Options{Reporter: reporter()})
			if err := ctx.ProcessFile(args[0]); err != nil {
				return err
			}
			return w.Err()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func lexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex <scene.rib>",
		Short: "Dump the token stream of a RIB file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			tokens, err := riblex.NewLexer(src).Tokenize()
			if err != nil {
				return err
			}
			for _, tok := range tokens {
				switch tok.Kind {
				case riblex.TokenIntLit:
					fmt.Printf("%5d  %-14s %d\n", tok.Line, tok.Kind, tok.Int)
				case riblex.TokenFloatLit:
					fmt.Printf("%5d  %-14s %g\n", tok.Line, tok.Kind, tok.Float)
				default:
					fmt.Printf("%5d  %-14s %s\n", tok.Line, tok.Kind, tok.Text)
				}
			}
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scene.rib>",
		Short: "Process a RIB file, reporting diagnostics without output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ri.NewContext(ribwriter.NewWriter(discard{}), ri.Options{Reporter: reporter()})
			return ctx.ProcessFile(args[0])
		},
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func main() {
	rootCmd.PersistentFlags().BoolVar(&abortOnError, "abort", false, "abort on the first severe diagnostic")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json", false, "emit diagnostics as structured JSON")
	rootCmd.AddCommand(runCmd(), lexCmd(), validateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
