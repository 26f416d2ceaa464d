package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func sitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the launch sites and payload bounds of the data source",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range ds.Sites() {
				fmt.Println(s)
			}
			b := ds.Bounds()
			fmt.Printf("%d records, payload %v–%v kg\n", ds.Len(), b.Low, b.High)
			return nil
		},
	}
}
