package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/antithesishq/pforeign-go/tools/pforeign-catalog/common"
)

// Duplicate lists the call sites sharing one constant unique id.
type Duplicate struct {
	UniqueID  int64    `json:"unique_id"`
	Positions []string `json:"positions"`
}

type Catalog struct {
	Module      string      `json:"module"`
	VersionText string      `json:"generator"`
	CreateDate  string      `json:"created"`
	CallSites   []*CallSite `json:"call_sites"`
	Duplicates  []Duplicate `json:"duplicates,omitempty"`
}

func (s *Scanner) Catalog(moduleName string, versionText string) *Catalog {
	sites := append([]*CallSite(nil), s.sites...)
	sort.SliceStable(sites, func(i, j int) bool {
		if sites[i].Filename != sites[j].Filename {
			return sites[i].Filename < sites[j].Filename
		}
		return sites[i].Line < sites[j].Line
	})
	return &Catalog{
		Module:      moduleName,
		VersionText: versionText,
		CreateDate:  time.Now().Format("Mon Jan 2 15:04:05 MST 2006"),
		CallSites:   sites,
		Duplicates:  FindDuplicates(sites),
	}
}

// FindDuplicates groups call sites by constant unique id and returns the
// groups with more than one member, ordered by id.
func FindDuplicates(sites []*CallSite) []Duplicate {
	byID := map[int64][]string{}
	for _, site := range sites {
		if !site.Constant {
			continue
		}
		byID[site.UniqueID] = append(byID[site.UniqueID], site.Position())
	}

	var dups []Duplicate
	for id, positions := range byID {
		if len(positions) > 1 {
			dups = append(dups, Duplicate{UniqueID: id, Positions: positions})
		}
	}
	sort.Slice(dups, func(i, j int) bool {
		return dups[i].UniqueID < dups[j].UniqueID
	})
	return dups
}

// OutputPath names the catalog file for moduleName inside dir.
func OutputPath(dir string, moduleName string) string {
	return filepath.Join(dir, common.FlattenModuleName(moduleName)+common.GENERATED_SUFFIX)
}

func (c *Catalog) Write(outputPath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err = os.WriteFile(outputPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	common.GetLogWriter().Printf("Call site catalog: %q", outputPath)
	return nil
}
