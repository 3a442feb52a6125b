package main

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"panewm/internal/cfg"
	"panewm/internal/log"
	"panewm/internal/res"
	"panewm/internal/wm"
)

//go:embed .version
var version string

func main() {
	// Setup logger output.
	logPath, ok := os.LookupEnv("PANEWM_LOG_PATH")
	if !ok {
		logPath = "/tmp/panewm.log"
	}
	level := log.INFO
	if os.Getenv("PANEWM_DEBUG") != "" {
		level = log.DEBUG
	}
	logger := log.DefaultLogger("panewm", level, logPath)
	defer func() {
		logger.Close()
	}()

	if err := res.WriteResources(); err != nil {
		logger.Error("Failed to write resources: %s", err)
		os.Exit(1)
	}
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printHelp()
	case "--version", "version":
		fmt.Println("panewm", strings.Trim(version, "\n"))
	case "new":
		if len(os.Args) < 3 {
			printHelp()
			os.Exit(1)
		}
		err := cfg.MakeProfile(os.Args[2])
		if err != nil {
			logger.Error("Failed to make profile: %s", err)
		} else {
			logger.Info("Created profile!")
		}
	default:
		Run()
	}
}

func Run() {
	// Get configuration and run.
	logger := log.FromName("panewm")
	profileName := os.Args[1]
	profile, err := cfg.GetProfile(profileName)
	if err != nil {
		logger.Error("Failed to get profile: %s", err)
		os.Exit(1)
	}
	if err = wm.Run(&profile, profileName); err != nil {
		logger.Error("Failed to run: %s", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`
    panewm - tiling X11 window manager
    USAGE:
        panewm [PROFILE]       Run panewm with the given profile.

    SUBCOMMANDS:
        panewm new [PROFILE]   Create a new profile named PROFILE with
                               the default configuration.
        panewm help            Print this message.
        panewm version         Get the version of panewm installed.
    `)
}
