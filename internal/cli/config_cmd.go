package cli

import (
	"github.com/spf13/cobra"

	"github.com/xtding233/maprotation/internal/config"
)

func newConfigCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   "Print the effective settings as YAML",
		GroupID: groupTools,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			b, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = o.out.Write(b)
			return err
		},
	}
}
