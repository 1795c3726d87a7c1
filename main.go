package main

import (
	"fmt"
	"os"

	"github.com/maruclean/punchbook/internal/punchbookcli"
)

func main() {
	if err := punchbookcli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
