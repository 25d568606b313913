// Command hashpw prompts for a password and prints its bcrypt hash for use
// in a SEED_ACCOUNTS_PATH file.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"member_directory/internal/utils"

	"golang.org/x/term"
)

func main() {
	cost := flag.Int("cost", utils.DefaultBcryptCost, "bcrypt cost")
	flag.Parse()

	password, err := prompt("Password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "read password:", err)
		os.Exit(1)
	}
	confirm, err := prompt("Confirm password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "read password:", err)
		os.Exit(1)
	}
	if !bytes.Equal(password, confirm) {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		os.Exit(1)
	}
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "password must be at least 8 characters")
		os.Exit(1)
	}

	hash, err := utils.NewPasswordHasher(*cost).Hash(string(password))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

func prompt(label string) ([]byte, error) {
	fmt.Fprint(os.Stderr, label)
	defer fmt.Fprintln(os.Stderr)
	return term.ReadPassword(int(os.Stdin.Fd()))
}
