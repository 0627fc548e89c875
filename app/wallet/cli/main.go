package main

import "github.com/ardanlabs/issuance/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
