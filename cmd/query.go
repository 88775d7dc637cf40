package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tidwall/sjson"

	"github.com/abn/aiographql-client/pkg/client"
	"github.com/abn/aiographql-client/pkg/graphqlerrors"
	"github.com/abn/aiographql-client/pkg/request"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query [document]",
	Short: "query sends a query or mutation and prints the response",
	Example: `graphql-client query -e http://localhost:4000/graphql '{ hero { name } }'
graphql-client query -e http://localhost:4000/graphql -f hero.graphql --var episode=JEDI --var filter.limit=3`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest(cmd.Flags(), args)
		if err != nil {
			return err
		}

		return withClient(func(c *client.Client) error {
			resp, err := c.Query(cmd.Context(), req)
			var requestErr *graphqlerrors.RequestError
			if errors.As(err, &requestErr) {
				_ = printResult(cmd.ErrOrStderr(), viper.GetString("output"), requestErr.Response.JSON())
			}
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), viper.GetString("output"), resp.JSON())
		})
	},
}

func init() {
	addRequestFlags(queryCmd.Flags())
	rootCmd.AddCommand(queryCmd)
}

func addRequestFlags(flags *pflag.FlagSet) {
	flags.StringP("file", "f", "", "read the document from a file, - for stdin")
	flags.String("operation", "", "name of the operation to run")
	flags.String("variables", "", "variables as a JSON object")
	flags.StringArray("var", nil, "variable as path=value, value is parsed as JSON when possible, repeatable")
	flags.Bool("no-validate", false, "skip validation against the introspected schema")
}

func buildRequest(flags *pflag.FlagSet, args []string) (*request.Request, error) {
	file, _ := flags.GetString("file")
	query, err := readDocument(file, args)
	if err != nil {
		return nil, err
	}

	rawVariables, _ := flags.GetString("variables")
	assignments, _ := flags.GetStringArray("var")
	variables, err := buildVariables(rawVariables, assignments)
	if err != nil {
		return nil, err
	}

	operation, _ := flags.GetString("operation")
	noValidate, _ := flags.GetBool("no-validate")

	return request.New(query,
		request.WithOperationName(operation),
		request.WithVariables(variables),
		request.WithValidation(!noValidate),
	), nil
}

func readDocument(file string, args []string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", errors.New("provide the document either as argument or with --file")
	case len(args) > 0:
		return args[0], nil
	case file == "-":
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	case file != "":
		data, err := os.ReadFile(file)
		return string(data), err
	}
	return "", errors.New("no document given")
}

// buildVariables applies path=value assignments on top of a JSON object.
// Values that are valid JSON are set as is, anything else as a string.
func buildVariables(raw string, assignments []string) (map[string]any, error) {
	document := []byte(raw)
	if strings.TrimSpace(raw) == "" {
		document = []byte(`{}`)
	}

	for _, assignment := range assignments {
		path, value, ok := strings.Cut(assignment, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid variable %q, expected path=value", assignment)
		}

		var err error
		if json.Valid([]byte(value)) {
			document, err = sjson.SetRawBytes(document, path, []byte(value))
		} else {
			document, err = sjson.SetBytes(document, path, value)
		}
		if err != nil {
			return nil, fmt.Errorf("set variable %q: %w", path, err)
		}
	}

	var variables map[string]any
	if err := json.Unmarshal(document, &variables); err != nil {
		return nil, fmt.Errorf("variables must be a JSON object: %w", err)
	}
	return variables, nil
}
