package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xtding233/maprotation/internal/catalog"
)

func newPercentsCmd(o *options) *cobra.Command {
	var players uint16
	cmd := &cobra.Command{
		Use:       "percents MODE",
		Short:     "Show the chance of every map of a mode coming up next",
		GroupID:   groupTools,
		Args:      cobra.ExactArgs(1),
		ValidArgs: modeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := catalog.ParseMode(args[0])
			if err != nil {
				return fmt.Errorf("%w (want one of %s)", err, modeList())
			}
			e, err := o.setup(cmd)
			if err != nil {
				return err
			}
			_, history, err := e.playLog()
			if err != nil {
				return err
			}
			dist, err := e.rec.AllCandidates(history, mode, players)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "All maps for %s\n", e.styles.Mode(mode))
			writeDistribution(e.out, e.styles, dist)
			return nil
		},
	}
	cmd.Flags().Uint16Var(&players, "players", 0, "only maps that hold at least this many players (0 = all)")
	return cmd
}

func modeNames() []string {
	out := make([]string, 0, len(catalog.Modes()))
	for _, m := range catalog.Modes() {
		out = append(out, m.String())
	}
	return out
}
