package main

import (
	"fmt"
	"os"

	"github.com/ivan1013/esports-management-system/internal/tools/apicheck"
	"github.com/ivan1013/esports-management-system/internal/tools/common"
)

func main() {
	if err := common.LoadEnvFile(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := apicheck.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
