package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/jensneuse/abstractlogger"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/abn/aiographql-client/pkg/client"
)

const envPrefix = "GRAPHQL_CLIENT"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "graphql-client",
	Short: "graphql-client sends queries, mutations and subscriptions to a GraphQL endpoint",
	Long: `graphql-client talks to a single GraphQL endpoint.

Queries and mutations are sent over HTTP, subscriptions run over a WebSocket
using the graphql-ws sub-protocol. Flags can also be set in the config file
or through environment variables prefixed with GRAPHQL_CLIENT_.`,
	Example:      `graphql-client query --endpoint https://api.example.com/graphql '{ ping }'`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.graphql-client.yaml)")
	flags.StringP("endpoint", "e", "", "GraphQL endpoint URL")
	flags.StringArrayP("header", "H", nil, "header sent with every request as 'Name: value', repeatable")
	flags.String("method", "POST", "HTTP method used for queries, POST or GET")
	flags.StringP("output", "o", outputJSON, "output format, json or yaml")
	flags.BoolP("verbose", "v", false, "log debug information to stderr")

	cobra.CheckErr(viper.BindPFlags(flags))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigName(".graphql-client")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger() (abstractlogger.Logger, func(), error) {
	config := zap.NewProductionConfig()
	level := abstractlogger.ErrorLevel
	if viper.GetBool("verbose") {
		config = zap.NewDevelopmentConfig()
		level = abstractlogger.DebugLevel
	}
	config.OutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	return abstractlogger.NewZapLogger(logger, level), func() { _ = logger.Sync() }, nil
}

// parseHeaders turns "Name: value" pairs into a header.
func parseHeaders(values []string) (http.Header, error) {
	headers := http.Header{}
	for _, value := range values {
		name, content, ok := strings.Cut(value, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Name: value'", value)
		}
		headers.Add(name, strings.TrimSpace(content))
	}
	return headers, nil
}

func newClient(log abstractlogger.Logger) (*client.Client, error) {
	headers, err := parseHeaders(viper.GetStringSlice("header"))
	if err != nil {
		return nil, err
	}

	return client.New(viper.GetString("endpoint"),
		client.WithHeaders(headers),
		client.WithMethod(viper.GetString("method")),
		client.WithLogger(log),
	)
}

// withClient runs fn with a client configured from flags, config file and
// environment.
func withClient(fn func(c *client.Client) error) error {
	log, sync, err := newLogger()
	if err != nil {
		return err
	}
	defer sync()

	c, err := newClient(log)
	if err != nil {
		return err
	}

	return fn(c)
}
