/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Entry point for the tabby command-line tool.
*/

package main

import (
	"os"

	"github.com/kleascm/tabby/cmd/tabby/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
