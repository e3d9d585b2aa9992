// Command genhash prints a bcrypt hash for seeding users by hand.
//
//	genhash [-cost 10] [password]
//
// Without a password argument it prompts on the terminal without echo.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/inotebook/internal/common"
	"github.com/dmitrijs2005/inotebook/internal/server/auth"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out, prompt io.Writer) error {
	fs := flag.NewFlagSet("genhash", flag.ContinueOnError)
	fs.SetOutput(prompt)
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var password []byte
	if fs.NArg() > 0 {
		password = []byte(fs.Arg(0))
	} else {
		pw, err := getPassword(prompt)
		if err != nil {
			return err
		}
		password = pw
	}
	defer common.WipeByteArray(password)

	if len(password) == 0 {
		return errors.New("empty password")
	}

	h, err := auth.NewPasswordHasher(*cost).Hash(string(password))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, h)
	return err
}

func getPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
