package main

import (
	"os"

	"horse.fit/quill/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
