package main

import (
	"context"
	_ "embed"
	"fmt"
	"go/token"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/antithesishq/pforeign-go/tools/pforeign-catalog/catalog"
	"github.com/antithesishq/pforeign-go/tools/pforeign-catalog/cmd"
	"github.com/antithesishq/pforeign-go/tools/pforeign-catalog/common"
)

//go:embed version.txt
var versionString string

func main() {
	command := cmd.NewCommand(versionString, run)
	if err := command.Run(context.Background(), os.Args); err != nil {
		// cli.Exit errors have already been reported by the command
		if _, ok := err.(cli.ExitCoder); !ok {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if ec, ok := err.(cli.ExitCoder); ok {
		return ec.ExitCode()
	}
	return 1
}

func run(_ context.Context, cmdArgs *cmd.CommandArgs) error {
	logWriter := common.GetLogWriter()
	defer logWriter.Sync()

	logWriter.Printf("%s", strings.TrimSpace(cmdArgs.VersionText))
	cmdArgs.ShowArguments()

	cmdFiles, err := cmdArgs.NewCommandFiles(catalog.OutputPath)
	if err != nil {
		return err
	}

	scanner := catalog.NewScanner(token.NewFileSet(), cmdFiles.InputDirectory)
	if err = scanner.ScanModule(cmdFiles.InputDirectory, cmdFiles.SkipTestFiles); err != nil {
		return err
	}
	scanner.SummarizeWork()

	cat := scanner.Catalog(cmdFiles.ModuleName, strings.TrimSpace(cmdArgs.VersionText))
	if err = cat.Write(cmdFiles.CatalogPath); err != nil {
		return err
	}

	for _, dup := range cat.Duplicates {
		logWriter.Warnf("unique id %d used by %d call sites: %s",
			dup.UniqueID, len(dup.Positions), strings.Join(dup.Positions, ", "))
	}
	if len(cat.Duplicates) > 0 && !cmdArgs.AllowDups {
		n := len(cat.Duplicates)
		return cli.Exit(fmt.Sprintf("%d duplicated unique %s", n, common.Pluralize(n, "id")), 2)
	}
	return nil
}
