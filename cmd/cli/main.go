package main

import (
	"github.com/mchmarny/skypulse/pkg/cli"
)

func main() {
	cli.Execute()
}
