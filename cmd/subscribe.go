package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abn/aiographql-client/pkg/client"
	"github.com/abn/aiographql-client/pkg/subscription"
)

// subscribeCmd represents the subscribe command
var subscribeCmd = &cobra.Command{
	Use:     "subscribe [document]",
	Short:   "subscribe prints every event of a subscription until it ends or is interrupted",
	Example: `graphql-client subscribe -e http://localhost:4000/graphql 'subscription { reviewAdded { stars } }'`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest(cmd.Flags(), args)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		output := viper.GetString("output")

		return withClient(func(c *client.Client) error {
			sub, err := c.Subscribe(ctx, req,
				client.OnData(func(_ context.Context, event *subscription.Event) error {
					return printResult(cmd.OutOrStdout(), output, event.Response().JSON())
				}),
				client.OnError(func(_ context.Context, event *subscription.Event) error {
					return printResult(cmd.ErrOrStderr(), output, event.Response().JSON())
				}),
				client.Handlers(subscription.ConnectionError, subscription.HandlerFunc(func(_ context.Context, event *subscription.Event) error {
					_, err := cmd.ErrOrStderr().Write(append(event.Payload, '\n'))
					return err
				})),
			)
			if err != nil {
				return err
			}

			return sub.Wait(context.Background())
		})
	},
}

func init() {
	addRequestFlags(subscribeCmd.Flags())
	rootCmd.AddCommand(subscribeCmd)
}
