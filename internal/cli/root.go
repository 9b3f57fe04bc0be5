// Package cli holds the mappick commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const groupTools = "tools"

// options are the persistent flags shared by every command.
type options struct {
	configPath  string
	catalogPath string
	playLogPath string
	color       string
	logLevel    string
	seed        uint64

	in        io.Reader
	out       io.Writer
	errOut    io.Writer
	lookupEnv func(string) (string, bool)
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	o := &options{in: in, out: out, errOut: errOut, lookupEnv: os.LookupEnv}

	root := &cobra.Command{
		Use:   "mappick",
		Short: "Pick the next map for a game night",
		Long: `mappick - weighted map rotation for local game nights

Without a subcommand it starts an interactive session: it offers a few
maps for the current mode, favouring maps that have not been played in a
while, and records the one you choose in the play log.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.setup(cmd)
			if err != nil {
				return err
			}
			return e.session(o.in).Run()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	f := root.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "settings file (default: user config dir, then ./mappick.yaml)")
	f.StringVar(&o.catalogPath, "catalog", "", "map catalog JSON file")
	f.StringVar(&o.playLogPath, "play-log", "", "play log file")
	f.StringVar(&o.color, "color", "", "color output: auto, always or never")
	f.StringVar(&o.logLevel, "log-level", "", "log level: trace, debug, info, warn, error or disabled")
	f.Uint64Var(&o.seed, "seed", 0, "seed for reproducible picks (0 = random)")

	root.AddGroup(&cobra.Group{ID: groupTools, Title: "Tools:"})
	root.AddCommand(
		newSimulateCmd(o),
		newPercentsCmd(o),
		newPickCmd(o),
		newConfigCmd(o),
	)
	return root
}

// Execute runs mappick on the process streams.
func Execute() error {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, in io.Reader, out, errOut io.Writer) error {
	root := newRootCmd(in, out, errOut)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(errOut, errorStyles(errOut).Error("Error: "+err.Error()))
		return err
	}
	return nil
}
