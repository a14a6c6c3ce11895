// Command registrar validates registration input from the command line.
//
// Usage:
//
//	registrar register --username user123 --email user@example.com --password 'P@ssw0rd'
//	registrar prompt
//	registrar prime 97
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/antonrybalko/registration-service-go/internal/domain"
	"github.com/antonrybalko/registration-service-go/internal/prime"
	"github.com/antonrybalko/registration-service-go/internal/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const redacted = "********"

type options struct {
	verbose      bool
	showPassword bool
	logger       *zap.SugaredLogger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "registrar",
		Short:        "Validate user registration input",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.verbose {
				opts.logger = zap.NewNop().Sugar()
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger.Sugar()
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&opts.showPassword, "show-password", false, "print the password instead of masking it")

	root.AddCommand(newRegisterCmd(opts), newPromptCmd(opts), newPrimeCmd(opts))
	return root
}

func newRegisterCmd(opts *options) *cobra.Command {
	var creds domain.Credentials

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Validate credentials given as flags and print the user record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd.OutOrStdout(), creds, opts)
		},
	}
	cmd.Flags().StringVar(&creds.Username, "username", "", "username")
	cmd.Flags().StringVar(&creds.Email, "email", "", "email address")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password")
	return cmd
}

func newPromptCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Read credentials interactively and print the user record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := readCredentials(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return runRegister(cmd.OutOrStdout(), creds, opts)
		},
	}
}

func newPrimeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "prime <n>",
		Short: "Report whether n is a prime number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", args[0], err)
			}
			isPrime := prime.IsPrime(n)
			opts.logger.Debugw("Primality checked", "n", n, "prime", isPrime)

			if isPrime {
				fmt.Fprintf(cmd.OutOrStdout(), "%d is a prime number\n", n)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%d is not a prime number\n", n)
			}
			return nil
		},
	}
}

// readCredentials prompts for username, email and password, one per line
func readCredentials(in io.Reader, out io.Writer) (domain.Credentials, error) {
	reader := bufio.NewReader(in)
	var creds domain.Credentials

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter username: ", &creds.Username},
		{"Enter email: ", &creds.Email},
		{"Enter password: ", &creds.Password},
	}

	for _, f := range fields {
		fmt.Fprint(out, f.prompt)
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return domain.Credentials{}, fmt.Errorf("failed to read input: %w", err)
		}
		*f.dst = strings.TrimSpace(line)
	}

	return creds, nil
}

// runRegister validates creds and writes the record as YAML
func runRegister(out io.Writer, creds domain.Credentials, opts *options) error {
	record, err := validation.RegisterCredentials(creds)
	if err != nil {
		opts.logger.Debugw("Validation failed", "field", validation.FieldOf(err))
		return err
	}
	opts.logger.Debugw("Validation passed", "username", record.Username)

	if !opts.showPassword {
		record.Password = redacted
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("failed to encode user record: %w", err)
	}
	return enc.Close()
}
