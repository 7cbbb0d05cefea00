package main

import (
	"github.com/Laisky/supabuilder-api/cmd"
)

func main() {
	cmd.Execute()
}
