package main

import (
	"os"

	"github.com/go-ldapauth/go-ldapauth/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
