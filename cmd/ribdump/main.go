// Command ribdump converts between ASCII and encoded-binary RIB.
//
// Usage:
//
//	ribdump decode scene.rib.bin     # binary -> ASCII on stdout
//	ribdump encode scene.rib         # ASCII -> binary
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/rmanicore/ri"
	"github.com/rmanicore/ri/diag"
	"github.com/rmanicore/ri/ribencode"
	"github.com/rmanicore/ri/ribwriter"
)

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

var rootCmd = &cobra.Command{
	Use:     "ribdump",
	Short:   "Convert between ASCII and encoded-binary RIB",
	Version: version(),
}

func decodeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "decode <scene.rib.bin>",
		Short: "Decode encoded-binary RIB to ASCII",
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
			ctx := ri.NewContext(w, ri.Options{Reporter: diag.NewConsoleReporter()})
			if err := ctx.ProcessFile(args[0]); err != nil {
				return err
			}
			return w.Err()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func encodeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "encode <scene.rib>",
		Short: "Encode ASCII RIB to the binary form",
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
			enc := ribencode.NewEncoder(out)
			ctx := ri.NewContext(enc, ri.Options{Reporter: diag.NewConsoleReporter()})
			if err := ctx.ProcessFile(args[0]); err != nil {
				return err
			}
			return enc.Err()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func main() {
	rootCmd.AddCommand(decodeCmd(), encodeCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
