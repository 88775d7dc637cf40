package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/abn/aiographql-client/pkg/client"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:     "schema",
	Short:   "schema introspects the endpoint and prints its schema as SDL",
	Example: "graphql-client schema -e http://localhost:4000/graphql > schema.graphql",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *client.Client) error {
			schema, err := c.Introspect(cmd.Context(), nil)
			if err != nil {
				return err
			}
			formatter.NewFormatter(cmd.OutOrStdout()).FormatSchema(schema)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
