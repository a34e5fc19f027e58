// Command hashpw prints a bcrypt hash for use as ADMIN_PASSWORD_HASH.
//
//	hashpw 'my password'
//	echo 'my password' | hashpw
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dfryer1193/markblog/shared/auth"
	"github.com/rs/zerolog/log"
)

func main() {
	password, err := readPassword()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read password")
	}
	if password == "" {
		log.Fatal().Msg("Password cannot be empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	fmt.Println(hash)
}

func readPassword() (string, error) {
	if len(os.Args) > 1 {
		return os.Args[1], nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
