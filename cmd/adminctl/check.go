package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/showcase/sdk/go/adminclient"
)

func checkCmd() *cobra.Command {
	var (
		secretEnv   string
		secretStdin bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a login, verify and logout round trip",
		Long: `Log in with the admin secret, ask the server to verify the session
cookie, log out, and ask the server again to confirm the session is gone.

Exit status is non-zero if any step disagrees with the expected state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readSecret(cmd.InOrStdin(), secretEnv, secretStdin)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runCheck(ctx, cmd.OutOrStdout(), baseURL, secret)
		},
	}

	cmd.Flags().StringVar(&secretEnv, "secret-env", "ADMIN_SECRET",
		"Environment variable holding the admin secret")
	cmd.Flags().BoolVar(&secretStdin, "secret-stdin", false,
		"Read the admin secret from the first line of stdin")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second,
		"Overall time limit for the round trip")

	return cmd
}

// readSecret takes the secret from stdin or the named environment variable.
func readSecret(in io.Reader, envName string, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading secret from stdin: %w", err)
		}
		secret := strings.TrimRight(line, "\r\n")
		if secret == "" {
			return "", errors.New("no secret on stdin")
		}
		return secret, nil
	}

	secret := os.Getenv(envName)
	if secret == "" {
		return "", fmt.Errorf("environment variable %s is empty", envName)
	}
	return secret, nil
}

// runCheck drives the client through login, verify and logout and reports
// each step to out. Both verify steps go to the server; the local hint is
// never trusted here.
func runCheck(ctx context.Context, out io.Writer, url, secret string) error {
	client, err := adminclient.New(url)
	if err != nil {
		return err
	}

	step := func(name string, err error, want adminclient.State) error {
		got := client.State()
		if err != nil {
			fmt.Fprintf(out, "FAIL %-7s %v\n", name, err)
			return fmt.Errorf("%s: %w", name, err)
		}
		if got != want {
			fmt.Fprintf(out, "FAIL %-7s state %s, want %s\n", name, got, want)
			return fmt.Errorf("%s: state %s, want %s", name, got, want)
		}
		fmt.Fprintf(out, "ok   %-7s %s\n", name, got)
		return nil
	}

	if err := step("login", client.Login(ctx, secret), adminclient.StateAuthenticated); err != nil {
		return err
	}
	if err := step("verify", client.Verify(ctx), adminclient.StateAuthenticated); err != nil {
		return err
	}
	if err := step("logout", client.Logout(ctx), adminclient.StateUnauthenticated); err != nil {
		return err
	}
	return step("revoked", client.Verify(ctx), adminclient.StateUnauthenticated)
}
