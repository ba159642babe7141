// Package main wires the cobra command surface from spec.md §6 to the
// scan/retain/delete pipeline.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jrsmith/dedupe/internal/config"
	"github.com/jrsmith/dedupe/internal/fingerprint"
	"github.com/jrsmith/dedupe/internal/fsport"
	"github.com/jrsmith/dedupe/internal/logging"
	"github.com/jrsmith/dedupe/internal/operator"
	"github.com/jrsmith/dedupe/internal/scanner"
	"github.com/jrsmith/dedupe/internal/session"
)

var rootLongDescription = `dedupe finds byte-identical files under a directory, lets you choose
which copy of each duplicate group to keep, and deletes the rest.

Scanning runs a three-tier pipeline: files are first grouped by exact
size, same-size groups are split further by a cheap sparse content
fingerprint, and only the surviving candidates are compared byte for
byte before anything is offered up for deletion.`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dedupe <directory>",
		Short:         "Interactive duplicate-file reclamation tool",
		Long:          rootLongDescription,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	flags := cmd.Flags()
	flags.BoolP("dry-run", "d", false, "compute and report but never delete")
	flags.BoolP("verbose", "v", false, "include progress and per-file scan chatter")
	flags.BoolP("yes", "y", false, "auto-confirm: answer yes to every yes/no prompt")
	flags.StringP("mode", "m", "all", "scan mode: all (flat recursive) or folder (per-folder)")
	flags.BoolP("no-skip", "n", false, "announce folders with no duplicates instead of skipping them")
	flags.IntP("points", "p", 4, "fingerprint sample point count")
	flags.IntP("size", "s", 4096, "fingerprint window size in bytes")

	for _, key := range []string{"dry-run", "verbose", "yes", "mode", "no-skip", "points", "size"} {
		bindFlagToConfig(cmd, key)
	}

	return cmd
}

func bindFlagToConfig(cmd *cobra.Command, name string) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return
	}
	_ = viper.BindPFlag(name, flag)
}

func runRoot(cmd *cobra.Command, args []string) error {
	root := args[0]

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("target path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("target path %q is not a directory", root)
	}

	modeStr := strings.ToLower(viper.GetString(config.KeyMode))
	var mode scanner.Mode
	switch modeStr {
	case "all", "":
		mode = scanner.ModeFlat
	case "folder":
		mode = scanner.ModeFolder
	default:
		return fmt.Errorf("mode must be 'all' or 'folder', got %q", modeStr)
	}

	verbose := viper.GetBool(config.KeyVerbose)
	dryRun := viper.GetBool(config.KeyDryRun)
	autoYes := viper.GetBool(config.KeyYes)
	noSkip := viper.GetBool(config.KeyNoSkip)

	points := viper.GetInt(config.KeyPoints)
	size := viper.GetInt(config.KeySize)
	if points < 0 {
		return fmt.Errorf("--points must be >= 0, got %d", points)
	}
	if size < 1 {
		return fmt.Errorf("--size must be >= 1, got %d", size)
	}

	log := logging.New(logging.Config{
		Filename:   viper.GetString(config.KeyLogFile),
		Verbose:    verbose || viper.GetBool(config.KeyLogVerbose),
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
	}).With("run", uuid.NewString())

	fsPort := fsport.New(viper.GetStringSlice(config.KeyExclude))

	console, err := operator.NewConsole()
	if err != nil {
		return fmt.Errorf("init operator console: %w", err)
	}
	defer console.Close()

	var port operator.Port = console
	if autoYes {
		port = operator.NewAutoConfirm(console)
	}

	orch := scanner.New(log, fsPort, scanner.Options{
		Params: fingerprint.Params{
			SamplePoints: points,
			SampleSize:   size,
		},
		Verbose: verbose,
		Emit:    port.Emit,
	})

	sess := session.New(log, port, orch, fsPort, session.Options{
		Mode:    mode,
		DryRun:  dryRun,
		NoSkip:  noSkip,
		AutoYes: autoYes,
		Root:    root,
	})

	if mode == scanner.ModeFolder {
		return sess.RunFolders()
	}
	return sess.RunFlat()
}
