package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xtding233/maprotation/internal/catalog"
	"github.com/xtding233/maprotation/internal/rotation"
	"github.com/xtding233/maprotation/internal/ui"
)

func newSimulateCmd(o *options) *cobra.Command {
	var (
		rounds  int
		players uint16
		stats   bool
	)
	cmd := &cobra.Command{
		Use:     "simulate",
		Short:   "Simulate many rounds and print how often each map came up",
		GroupID: groupTools,
		Long: `Simulate plays the given number of rounds against an empty history,
always taking the highest weighted of the offered maps, and prints one
CSV row per played map:

  "mode","nickname",count

Rows are grouped by mode, then by catalog order. The play log is neither
read nor written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.setup(cmd)
			if err != nil {
				return err
			}
			p := rotation.DefaultSimParams()
			p.Rounds = e.cfg.Simulate.Rounds
			p.Players = e.cfg.Simulate.Players
			p.Choices = e.cfg.Choices
			if cmd.Flags().Changed("rounds") {
				if rounds < 1 {
					return errors.New("rounds must be >= 1")
				}
				p.Rounds = rounds
			}
			if cmd.Flags().Changed("players") {
				p.Players = players
			}

			e.log.Info().Int("rounds", p.Rounds).Uint16("players", p.Players).Msg("simulating")
			res, err := rotation.Simulate(e.rec, p)
			if err != nil {
				return err
			}
			writeCounts(e.out, e.cat, res.Counts)
			if stats {
				writeStats(e.errOut, res.ByMode)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", rotation.DefaultSimRounds, "number of rounds to simulate")
	cmd.Flags().Uint16Var(&players, "players", rotation.DefaultSimPlayers, "player count for every round")
	cmd.Flags().BoolVar(&stats, "stats", false, "print per-mode play statistics to stderr")
	return cmd
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// writeCounts prints the played maps mode by mode, in catalog order.
func writeCounts(w io.Writer, cat *catalog.Catalog, counts map[uint16]int) {
	for _, mode := range catalog.Modes() {
		for _, g := range cat.Groups() {
			for _, id := range g.Variants {
				m, ok := cat.Map(id)
				if !ok || m.Mode != mode {
					continue
				}
				if n := counts[id]; n > 0 {
					fmt.Fprintf(w, "%s,%s,%d\n", csvQuote(mode.String()), csvQuote(m.Nickname), n)
				}
			}
		}
	}
}

func writeStats(w io.Writer, byMode map[catalog.Mode]rotation.Stats) {
	header := []string{"mode", "maps", "plays", "mean", "stddev", "p50", "p90", "p99"}
	rows := [][]string{header}
	for _, mode := range catalog.Modes() {
		st, ok := byMode[mode]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			mode.String(),
			fmt.Sprint(st.Maps),
			fmt.Sprint(st.Plays),
			fmt.Sprintf("%.1f", st.Mean),
			fmt.Sprintf("%.1f", st.StdDev),
			fmt.Sprintf("%.1f", st.P50),
			fmt.Sprintf("%.1f", st.P90),
			fmt.Sprintf("%.1f", st.P99),
		})
	}
	writeTable(w, rows)
}

// writeTable left-aligns the first column and right-aligns the rest.
func writeTable(w io.Writer, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for col := range widths {
		cells := make([]string, 0, len(rows))
		for _, r := range rows {
			cells = append(cells, r[col])
		}
		widths[col] = ui.MaxWidth(cells)
	}
	for _, r := range rows {
		cells := make([]string, len(r))
		for col, c := range r {
			if col == 0 {
				cells[col] = ui.PadRight(c, widths[col])
			} else {
				cells[col] = ui.PadLeft(c, widths[col])
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}
