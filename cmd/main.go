package main

import (
	"os"

	"github.com/theblitlabs/thz-setup/cmd/cli"
)

func main() {
	os.Exit(cli.Execute())
}
