/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/stdfkit/cmd/stdf/cmd"
)

func main() {
	cmd.Execute()
}
