// hashpass печатает bcrypt-хэш пароля оператора для config.yaml.
// Пароль берётся из аргумента или из первой строки stdin.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"lottery_backend/pkg/pass"
	"os"
	"strings"
)

var errEmptyPassword = errors.New("password is empty")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("hashpass: %v", err)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	password, err := readPassword(args, in)
	if err != nil {
		return err
	}

	hash, err := pass.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = fmt.Fprintln(out, hash)
	return err
}

func readPassword(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		if args[0] == "" {
			return "", errEmptyPassword
		}
		return args[0], nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errEmptyPassword
	}
	return line, nil
}
