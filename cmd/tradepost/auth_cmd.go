package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tradepost/tradepost/client"
)

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("username")

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}

		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		err = c.Register(cmd.Context(), client.RegisterInput{
			Email:    args[0],
			Username: username,
			Password: password,
		})
		if err != nil {
			return err
		}

		fmt.Printf("registered and logged in as %s\n", c.Gate().Subject())
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email-or-username>",
	Short: "Log in and store the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		if err := c.Login(cmd.Context(), args[0], password); err != nil {
			return err
		}

		fmt.Printf("logged in as %s\n", c.Gate().Subject())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		if err := c.Logout(); err != nil {
			return err
		}

		fmt.Println("logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		gate := c.Gate()
		if gate.State() != client.StateAuthenticated {
			fmt.Println("not logged in")
			return nil
		}

		fmt.Printf("logged in as %s\n", gate.Subject())
		return nil
	},
}

// promptPassword reads without echo when attached to a terminal, and falls
// back to a plain line read when input is piped.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	if term.IsTerminal(int(syscall.Stdin)) {
		data, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func init() {
	registerCmd.Flags().String("username", "", "display name (defaults to the email local part)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
