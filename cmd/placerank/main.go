package main

import (
	"github.com/placerank/placerank/internal/cli"
	"github.com/placerank/placerank/internal/version"
)

func main() {
	cli.Execute(version.Version, version.Commit, version.Date)
}
