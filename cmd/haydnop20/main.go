package main

import (
	"log"
	"os"

	"github.com/divVerent/haydnop20/internal/cli"
	_ "github.com/divVerent/haydnop20/internal/humdrum" // registers the score parser
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
