package main

import (
	"log"

	"github.com/nikolayk812/bookcheckout/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("bookcheckout failed: %v", err)
	}
}
