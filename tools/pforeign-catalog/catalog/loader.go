package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/antithesishq/pforeign-go/tools/pforeign-catalog/common"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// ScanModule loads every package under moduleDir and scans its files.
// Packages that fail to type-check are still scanned, without type
// information.
func (s *Scanner) ScanModule(moduleDir string, skipTestFiles bool) error {
	cfg := &packages.Config{
		Mode:  loadMode,
		Dir:   moduleDir,
		Fset:  s.fset,
		Tests: !skipTestFiles,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return fmt.Errorf("loading packages in %q: %w", moduleDir, err)
	}

	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, pkgErr := range pkg.Errors {
			s.logWriter.Warnf("%s: %v", pkg.PkgPath, pkgErr)
		}
	})

	for _, pkg := range pkgs {
		info := pkg.TypesInfo
		if len(pkg.Errors) > 0 || pkg.IllTyped {
			info = nil
		}
		for _, file := range pkg.Syntax {
			filename := s.fset.Position(file.Pos()).Filename
			if skipTestFiles && strings.HasSuffix(filename, "_test.go") {
				continue
			}
			s.ScanFile(file, pkg.PkgPath, info)
		}
	}
	return nil
}

func (s *Scanner) SummarizeWork() {
	numScanned := s.FilesScanned
	numSites := len(s.sites)
	s.logWriter.Printf("%d '.go' %s cataloged, %d %s found",
		numScanned, common.Pluralize(numScanned, "file"),
		numSites, common.Pluralize(numSites, "call site"))
}
