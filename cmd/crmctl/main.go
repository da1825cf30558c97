// cmd/crmctl/main.go
package main

import (
	"os"

	"luckydraw-crm/cmd/crmctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
