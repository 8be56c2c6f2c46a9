package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/guesstune/cmd/artist"
	"github.com/gigurra/guesstune/cmd/play"
	"github.com/gigurra/guesstune/cmd/search"
	"github.com/gigurra/guesstune/cmd/stats"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "guesstune",
		Short:   "Guess the song from ever longer preview snippets",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			play.Cmd(),
			stats.Cmd(),
			artist.Cmd(),
			search.Cmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuilInfo := debug.ReadBuildInfo()
	if !hasBuilInfo {
		return "unknown-(no build info)"
	}

	versionString := bi.Main.Version
	if versionString == "" {
		versionString = "unknown-(no version)"
	}

	return versionString
}
