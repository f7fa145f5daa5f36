package commands

import (
	"bufio"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/klabast/gemeinde-portal/abfall-feed/internal/app"
)

func newHashPasswordCmd() *cobra.Command {
	var overwrite, insecureUnmask bool

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Create the auth.secret file (argon2id) for the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print("Enter username: ")
			var username string
			if _, err := fmt.Scanln(&username); err != nil {
				return fmt.Errorf("error reading username: %w", err)
			}
			if username == "" {
				return fmt.Errorf("username cannot be empty")
			}

			var password, passwordConfirm string
			if insecureUnmask {
				fmt.Fprintln(os.Stderr, "WARNING: password will be visible on screen")
				fmt.Print("Enter password:   ")
				if _, err := fmt.Scanln(&password); err != nil {
					return fmt.Errorf("error reading password: %w", err)
				}
				fmt.Print("Confirm password: ")
				if _, err := fmt.Scanln(&passwordConfirm); err != nil {
					return fmt.Errorf("error reading password confirmation: %w", err)
				}
			} else {
				password = readPasswordWithMask("Enter password:   ")
				passwordConfirm = readPasswordWithMask("Confirm password: ")
			}

			if password == "" {
				return fmt.Errorf("password cannot be empty")
			}
			if password != passwordConfirm {
				return fmt.Errorf("passwords do not match")
			}

			return app.CreateAuthFile(os.Getenv("AUTH_FILE"), username, password, overwrite)
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing auth file")
	cmd.Flags().BoolVar(&insecureUnmask, "insecure-unmask-password", false, "Show password as plain text (INSECURE!)")
	return cmd
}

// readPasswordWithMask reads password input and displays asterisks.
func readPasswordWithMask(prompt string) string {
	fmt.Print(prompt)

	oldState, err := term.GetState(int(syscall.Stdin))
	if err != nil {
		// Fallback to hidden input if we can't save terminal state.
		password, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		return string(password)
	}
	defer term.Restore(int(syscall.Stdin), oldState)

	if _, err := term.MakeRaw(int(syscall.Stdin)); err != nil {
		password, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		return string(password)
	}

	var password []byte
	reader := bufio.NewReader(os.Stdin)

	for {
		char, _, err := reader.ReadRune()
		if err != nil {
			break
		}

		switch char {
		case '\n', '\r': // Enter
			fmt.Println()
			return string(password)
		case 127, 8: // Backspace or Delete
			if len(password) > 0 {
				password = password[:len(password)-1]
				// Clear the asterisk: backspace, space, backspace
				fmt.Print("\b \b")
			}
		case 3: // Ctrl+C
			fmt.Println()
			os.Exit(1)
		default:
			// Only accept printable characters
			if char >= 32 && char <= 126 {
				password = append(password, byte(char))
				fmt.Print("*")
			}
		}
	}

	fmt.Println()
	return string(password)
}
