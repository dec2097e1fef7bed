package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/mod/modfile"

	"github.com/antithesishq/pforeign-go/tools/pforeign-catalog/common"
)

// Capitalized struct items are accessed outside this file
type CommandArgs struct {
	logWriter     *common.LogWriter
	inputDir      string
	outputDir     string
	skipTestFiles bool
	AllowDups     bool
	VersionText   string
}

// NewCommand returns the pforeign-catalog command. run is called with the
// parsed arguments.
func NewCommand(versionText string, run func(context.Context, *CommandArgs) error) *cli.Command {
	return &cli.Command{
		Name:      "pforeign-catalog",
		Usage:     "catalog the ChooseRandomNode call sites of a Go module",
		Version:   strings.TrimSpace(versionText),
		ArgsUsage: "go_project_dir",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "verbosity level",
			},
			&cli.StringFlag{
				Name:  "logfile",
				Usage: "file path to log into (default=stderr)",
			},
			&cli.StringFlag{
				Name:  "catalog_dir",
				Usage: "directory where the catalog will be written (default=go_project_dir)",
			},
			&cli.BoolFlag{
				Name:  "skip_test_files",
				Usage: "skip '*_test.go' files",
			},
			&cli.BoolFlag{
				Name:  "allow_duplicates",
				Usage: "write the catalog and exit 0 even when unique ids repeat",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			args, err := ParseArgs(c, versionText)
			if err != nil {
				return err
			}
			return run(ctx, args)
		},
	}
}

func ParseArgs(c *cli.Command, versionText string) (*CommandArgs, error) {
	if c.NArg() < 1 {
		return nil, cli.Exit("usage: pforeign-catalog [options] go_project_dir\n\n  - The go_project_dir should contain a valid go.mod file", 1)
	}

	cmdArgs := CommandArgs{
		logWriter:     common.NewLogWriter(c.String("logfile"), int(c.Int("verbose"))),
		inputDir:      strings.TrimSpace(c.Args().First()),
		outputDir:     strings.TrimSpace(c.String("catalog_dir")),
		skipTestFiles: c.Bool("skip_test_files"),
		AllowDups:     c.Bool("allow_duplicates"),
		VersionText:   versionText,
	}
	return &cmdArgs, nil
}

func (ca *CommandArgs) ShowArguments() {
	ca.logWriter.Printf("inputDir: %q", ca.inputDir)
	if ca.outputDir != "" {
		ca.logWriter.Printf("catalogDir: %q", ca.outputDir)
	}

	// Intentional: no need to show anything if not skipping
	if ca.skipTestFiles {
		ca.logWriter.Printf("skipTestFiles: %t", ca.skipTestFiles)
	}
}

// CommandFiles is the resolved form of CommandArgs.
type CommandFiles struct {
	InputDirectory string
	ModuleName     string
	CatalogPath    string
	SkipTestFiles  bool
}

func (ca *CommandArgs) NewCommandFiles(catalogPath func(dir, moduleName string) string) (*CommandFiles, error) {
	inputDirectory, err := filepath.Abs(ca.inputDir)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(inputDirectory); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", ca.inputDir)
	}

	moduleName, err := GetModuleName(inputDirectory)
	if err != nil {
		return nil, fmt.Errorf("unable to obtain go module name from %q: %w", inputDirectory, err)
	}

	catalogDir := ca.outputDir
	if catalogDir == "" {
		catalogDir = inputDirectory
	}

	return &CommandFiles{
		InputDirectory: inputDirectory,
		ModuleName:     moduleName,
		CatalogPath:    catalogPath(catalogDir, moduleName),
		SkipTestFiles:  ca.skipTestFiles,
	}, nil
}

func GetModuleName(inputDir string) (moduleName string, err error) {
	var moduleData []byte
	var f *modfile.File
	moduleFilenamePath := filepath.Join(inputDir, "go.mod")
	if moduleData, err = os.ReadFile(moduleFilenamePath); err != nil {
		return
	}

	if f, err = modfile.ParseLax("go.mod", moduleData, nil); err != nil {
		return
	}
	if f.Module == nil {
		return "", fmt.Errorf("%s has no module directive", moduleFilenamePath)
	}
	moduleName = f.Module.Mod.Path
	return
}
