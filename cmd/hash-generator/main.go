// Command hash-generator prints bcrypt hashes for seeding users directly
// into the database. Passwords are read one per line from stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost (4-31)")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *cost); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		password := scanner.Text()
		if password == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if _, err := fmt.Fprintln(out, string(hash)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
