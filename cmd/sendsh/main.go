package main

import (
	"flag"

	"github.com/robotalks/sendbin/pkg/cli/sh"
)

//go-build: CGO_ENABLED=0

func init() {
	flag.Set("logtostderr", "true")
}

func main() {
	sh.Main()
}
