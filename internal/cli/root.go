// Package cli defines the cobra command tree for yatra.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yatrik/yatra/internal/client"
	"github.com/yatrik/yatra/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "yatra",
		Short:         "Record and browse your spiritual visits",
		Long:          "A tool to record spiritual visits. Log individual and family visits to ashrams and satsangs, search and filter them, and export a PDF report.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.config/yatra/visits.db)")

	root.AddCommand(
		newRegisterCmd(),
		newVerifyCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newChangePasswordCmd(),
		newListCmd(),
		newAddCmd(),
		newEditCmd(),
		newShowCmd(),
		newRemoveCmd(),
		newExportCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag or default path.
// Used by the serve command to pass the DB to the web server.
func openDB() (*sql.DB, error) {
	path := flagDB
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the yatra API without
// credentials, for the auth endpoints.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), "")
}

// newAPIClientAt creates an HTTP client against a specific server URL.
func newAPIClientAt(serverURL string) *client.Client {
	return client.New(serverURL, "")
}

// newAuthedClient creates an HTTP client with the stored access token.
// Returns an error if no token is stored: the visit endpoints refuse
// unauthenticated requests, so there is no point sending one.
func newAuthedClient() (*client.Client, error) {
	token := getAccessToken()
	if token == "" {
		return nil, fmt.Errorf("not logged in. Run 'yatra login' first")
	}
	return client.New(getServerURL(), token), nil
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
