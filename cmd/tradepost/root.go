package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tradepost/tradepost/client"
)

var (
	serverURL string
	dataDir   string
)

var rootCmd = &cobra.Command{
	Use:           "tradepost",
	Short:         "tradepost is a command line client for the tradepost marketplace",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "server base URL")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for session data (defaults to the user config dir)")
}

// newClient builds the API client with file backed session storage, so a
// login from a previous invocation is still in effect.
func newClient() (*client.Client, error) {
	storage, err := client.NewFileStorage(dataDir)
	if err != nil {
		return nil, err
	}
	return client.New(serverURL, storage)
}
