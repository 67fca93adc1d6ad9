package main

import (
	"os"

	"horse.fit/headline-dedup/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
