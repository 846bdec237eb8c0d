package main

import (
	"fmt"
	"os"

	"github.com/wayfern/wayfern-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	application.Start()

	addr := ":" + application.Cfg.Port
	fmt.Printf("Server listening on %s\n", addr)
	if err := application.Run(addr); err != nil {
		fmt.Printf("server failed: %v\n", err)
		os.Exit(1)
	}
}
