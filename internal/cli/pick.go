package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xtding233/maprotation/internal/catalog"
	"github.com/xtding233/maprotation/internal/rotation"
)

func newPickCmd(o *options) *cobra.Command {
	var (
		modeName string
		players  uint16
		n        int
	)
	cmd := &cobra.Command{
		Use:     "pick",
		Short:   "Print one round of choices without recording anything",
		GroupID: groupTools,
		Long: `Pick draws one round of choices the way the interactive session does
and prints them. The mode defaults to the one after the last logged map.
Nothing is written to the play log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.setup(cmd)
			if err != nil {
				return err
			}
			_, history, err := e.playLog()
			if err != nil {
				return err
			}

			mode := rotation.DefaultMode(history)
			if modeName != "" {
				if mode, err = catalog.ParseMode(modeName); err != nil {
					return fmt.Errorf("%w (want one of %s)", err, modeList())
				}
			}
			if !cmd.Flags().Changed("players") {
				players = e.cfg.Players.Default
			}
			if err := e.checkPlayers(players); err != nil {
				return err
			}
			if !cmd.Flags().Changed("count") {
				n = e.cfg.Choices
			}
			if n < 1 {
				return errors.New("count must be >= 1")
			}

			picks, err := e.draw(history, mode, players, n)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Mode %s for %d players\n", e.styles.Mode(mode), players)
			writeDistribution(e.out, e.styles, picks)
			return nil
		},
	}
	cmd.Flags().StringVar(&modeName, "mode", "", "mode to pick for (default: next in the cycle)")
	cmd.Flags().Uint16Var(&players, "players", 16, "player count")
	cmd.Flags().IntVarP(&n, "count", "n", rotation.DefaultChoices, "number of maps to offer")
	return cmd
}
