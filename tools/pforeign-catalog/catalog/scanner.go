// Package catalog finds the calls to foreign.ChooseRandomNode in a module
// and checks that their unique ids are unique.
package catalog

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/antithesishq/pforeign-go/tools/pforeign-catalog/common"
)

// CallSite is one call to foreign.ChooseRandomNode.
type CallSite struct {
	Package  string `json:"package"`
	Function string `json:"function"`
	Receiver string `json:"receiver,omitempty"`
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	// UniqueID is only meaningful when Constant is true.
	UniqueID int64  `json:"unique_id"`
	Constant bool   `json:"constant"`
	Expr     string `json:"expr"`
}

func (cs *CallSite) Position() string {
	return cs.Filename + ":" + strconv.Itoa(cs.Line)
}

// Capitalized struct items are accessed outside this file
type Scanner struct {
	fset         *token.FileSet
	logWriter    *common.LogWriter
	baseInputDir string
	sites        []*CallSite
	seenFiles    map[string]bool
	FilesScanned int

	// per file
	packagePath string
	funcName    string
	receiver    string
	qualifiers  map[string]bool
	dotImport   bool
	info        *types.Info
}

func NewScanner(fset *token.FileSet, baseInputDir string) *Scanner {
	return &Scanner{
		fset:         fset,
		logWriter:    common.GetLogWriter(),
		baseInputDir: baseInputDir,
		seenFiles:    map[string]bool{},
	}
}

func (s *Scanner) CallSites() []*CallSite {
	return s.sites
}

// ScanFile records the ChooseRandomNode calls in file. info may be nil, in
// which case calls are matched by the imports of file, and unique ids are
// only evaluated when they are written as constant expressions in the file.
// A file already scanned is skipped.
func (s *Scanner) ScanFile(file *ast.File, packagePath string, info *types.Info) {
	filename := s.fset.Position(file.Pos()).Filename
	if s.seenFiles[filename] {
		return
	}
	s.seenFiles[filename] = true

	if s.logWriter.VerboseLevel(1) {
		s.logWriter.Printf("Cataloging %s", filename)
	}
	s.resetForFile(file, packagePath, info)

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			s.funcName = common.NAME_NOT_AVAILABLE
			if d.Name != nil {
				s.funcName = d.Name.Name
			}
			s.receiver = ""
			if d.Recv != nil && d.Recv.NumFields() > 0 {
				s.receiver = types.ExprString(d.Recv.List[0].Type)
			}
			if s.logWriter.VerboseLevel(2) {
				s.logWriter.Printf(">>       Func: %s %s", s.funcName, s.receiver)
			}
			if d.Body != nil {
				ast.Inspect(d.Body, s.nodeInspector)
			}
		case *ast.GenDecl:
			s.funcName = common.NAME_NOT_AVAILABLE
			s.receiver = ""
			ast.Inspect(d, s.nodeInspector)
		}
	}
	s.FilesScanned++
}

func (s *Scanner) resetForFile(file *ast.File, packagePath string, info *types.Info) {
	s.packagePath = packagePath
	if s.packagePath == "" {
		s.packagePath = file.Name.Name
	}
	s.info = info
	s.funcName = ""
	s.receiver = ""
	s.dotImport = false
	s.qualifiers = map[string]bool{}

	foreignPackage := common.ForeignPackageName()
	for _, spec := range file.Imports {
		pathName, _ := strconv.Unquote(spec.Path.Value)
		if pathName != foreignPackage {
			continue
		}
		qualifier := path.Base(pathName)
		if spec.Name != nil {
			qualifier = spec.Name.Name
		}
		switch qualifier {
		case ".":
			s.dotImport = true
		case "_":
		default:
			s.qualifiers[qualifier] = true
		}
	}
}

func (s *Scanner) nodeInspector(x ast.Node) bool {
	call, ok := x.(*ast.CallExpr)
	if !ok || !s.isChooseRandomNode(call) {
		return true
	}

	position := s.fset.Position(call.Pos())
	site := &CallSite{
		Package:  s.packagePath,
		Function: s.funcName,
		Receiver: s.receiver,
		Filename: s.moduleRelativeName(position.Filename),
		Line:     position.Line,
	}
	if len(call.Args) > 0 {
		arg := astutil.Unparen(call.Args[0])
		site.Expr = types.ExprString(arg)
		site.UniqueID, site.Constant = s.evalUniqueID(arg)
	}
	if s.logWriter.VerboseLevel(2) {
		s.logWriter.Printf("Found %s(%s) at %s", common.CHOOSE_RANDOM_NODE, site.Expr, site.Position())
	}
	s.sites = append(s.sites, site)
	return true
}

func (s *Scanner) isChooseRandomNode(call *ast.CallExpr) bool {
	var ident *ast.Ident
	var qualifier *ast.Ident
	switch fun := astutil.Unparen(call.Fun).(type) {
	case *ast.Ident:
		ident = fun
	case *ast.SelectorExpr:
		ident = fun.Sel
		qualifier, _ = fun.X.(*ast.Ident)
	default:
		return false
	}
	if ident.Name != common.CHOOSE_RANDOM_NODE {
		return false
	}

	if s.info != nil {
		fn, ok := s.info.Uses[ident].(*types.Func)
		return ok && fn.FullName() == common.ChooseRandomNodeFullName()
	}

	if qualifier != nil {
		return s.qualifiers[qualifier.Name]
	}
	return s.dotImport || s.packagePath == common.ForeignPackageName()
}

func (s *Scanner) evalUniqueID(arg ast.Expr) (int64, bool) {
	var value constant.Value
	if s.info != nil {
		if tv, ok := s.info.Types[arg]; ok {
			value = tv.Value
		}
	} else {
		value = evalConstExpr(arg)
	}
	if value == nil {
		return 0, false
	}
	return constant.Int64Val(constant.ToInt(value))
}

// evalConstExpr folds the constant expressions generated code uses for
// unique ids without type information. Integer conversions such as
// prt.Int(7) are looked through.
func evalConstExpr(expr ast.Expr) constant.Value {
	switch e := astutil.Unparen(expr).(type) {
	case *ast.BasicLit:
		if e.Kind != token.INT {
			return nil
		}
		return constant.MakeFromLiteral(e.Value, e.Kind, 0)
	case *ast.UnaryExpr:
		x := evalConstExpr(e.X)
		if x == nil || (e.Op != token.SUB && e.Op != token.ADD) {
			return nil
		}
		return constant.UnaryOp(e.Op, x, 0)
	case *ast.BinaryExpr:
		x, y := evalConstExpr(e.X), evalConstExpr(e.Y)
		if x == nil || y == nil {
			return nil
		}
		switch e.Op {
		case token.ADD, token.SUB, token.MUL:
			return constant.BinaryOp(x, e.Op, y)
		case token.SHL, token.SHR:
			shift, ok := constant.Uint64Val(y)
			if !ok {
				return nil
			}
			return constant.Shift(x, e.Op, uint(shift))
		}
	case *ast.CallExpr:
		if len(e.Args) == 1 && isIntConversion(e.Fun) {
			return evalConstExpr(e.Args[0])
		}
	case *ast.Ident:
		return evalConstIdent(e)
	}
	return nil
}

var intConversions = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "byte": true, "rune": true,
}

// isIntConversion reports whether fun names prt.Int or a predeclared
// integer type. Any other call may compute anything.
func isIntConversion(fun ast.Expr) bool {
	switch f := astutil.Unparen(fun).(type) {
	case *ast.Ident:
		return intConversions[f.Name] || f.Name == "Int"
	case *ast.SelectorExpr:
		pkg, ok := f.X.(*ast.Ident)
		return ok && pkg.Name == "prt" && f.Sel.Name == "Int"
	}
	return false
}

func evalConstIdent(ident *ast.Ident) constant.Value {
	if ident.Obj == nil || ident.Obj.Kind != ast.Con {
		return nil
	}
	spec, ok := ident.Obj.Decl.(*ast.ValueSpec)
	if !ok {
		return nil
	}
	for i, name := range spec.Names {
		if name.Name == ident.Name && i < len(spec.Values) {
			return evalConstExpr(spec.Values[i])
		}
	}
	return nil
}

func (s *Scanner) moduleRelativeName(filePath string) string {
	if s.baseInputDir == "" {
		return filePath
	}
	rel, err := filepath.Rel(s.baseInputDir, filePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filePath
	}
	return filepath.ToSlash(rel)
}
