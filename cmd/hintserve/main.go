// Copyright 2025 The HintServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the hint server and its debugging CLI.

HintServe finds interesting spans (urls, paths, hashes, git status lines and
user patterns) in captured terminal text and labels each one with a short hint
typed from a keyboard alphabet. Hints are K-ary Huffman codes: no hint is a
prefix of another and matches found earlier in the text, or by higher
priority patterns, get the shorter codes.

# Usage

Start the IPC server:

	hintserve serve

Show the hints for a capture, or pick one interactively:

	tmux capture-pane -p | hintserve hints
	hintserve select capture.txt --multi

List the keyboard layouts or rebuild the config file:

	hintserve layouts
	hintserve config --rebuild

# Configuration

Settings live in a TOML file, by default ~/.config/hintserve/config.toml:

	[hints]
	keyboard_layout = "qwerty"
	hint_position = "left"

	[patterns]
	enabled_builtin = ["url", "path", "sha"]

	[[patterns.custom]]
	name = "ticket"
	regex = "JIRA-\\d+"

	[server]
	max_text_bytes = 1048576
	max_sessions = 16
	reload_config = true

The file is created with defaults if it doesn't exist. With reload_config the
server rebuilds its engine whenever the file changes.

# IPC Protocol

The server reads msgpack requests from stdin and writes msgpack responses to
stdout. Logs go to stderr. A hint request opens a session:

	{"id": "1", "op": "hint", "text": "see /etc/hosts"}

and typed input is resolved against it:

	{"id": "2", "op": "select", "session": "<uuid>", "input": "f"}
	{"id": "2", "k": "exact", "ids": [0], "sel": "/etc/hosts"}

See package server for every operation.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "hintserve"
	gh      = "https://github.com/bastiangx/hintserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only wires the command tree; every command lives in commands.go.
func main() {
	sigHandler()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// showVersion prints the styled version banner.
func showVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ HintServe ] Short hints for everything on screen")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available commands")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(configPath string, patterns int, alphabet string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" HintServe ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("config: ( %s )", configPath)
	log.Infof("patterns: %d, alphabet: %q", patterns, alphabet)
	log.Info("status: ready")
	println("===========")
	println("Close stdin or press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
