package main

import (
	"github.com/pocketkitti/companion/cmd/kitti/cli"
)

func main() {
	cli.Execute()
}
