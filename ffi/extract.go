package ffi

import (
	"fmt"

	"github.com/heylang/hey/ast"
	"github.com/heylang/hey/parser"
)

// externParamOrder is the positional fallback when a #[Extern(...)] call
// omits argument names, matching declaration order in the spec's example.
var externParamOrder = []string{"dll", "args", "ret"}

// scanResult is everything extract found in one source file, before it is
// installed into the registries.
type scanResult struct {
	classes []scannedClass
}

type scannedClass struct {
	className string
	methods   []scannedMethod
}

type scannedMethod struct {
	name string
	dll  string
	args string
	ret  string
}

// scanSource parses PHP source and returns every class that extends the
// FFI marker class, along with the Extern metadata on each of its methods.
// Classes that don't extend FFI are ignored; this is a pure AST walk, no
// bytecode is produced or required.
func scanSource(source string) (*scanResult, error) {
	program, errs := parser.ParsePHP(source)
	if len(errs) > 0 {
		return nil, fmt.Errorf("ffi: parse error: %s", errs[0])
	}
	if program == nil {
		return nil, fmt.Errorf("ffi: empty program")
	}

	result := &scanResult{}
	for _, stmt := range program.Statements {
		declStmt, ok := stmt.(*ast.DeclarationStatement)
		if !ok {
			continue
		}
		classDecl, ok := declStmt.Declaration.(*ast.ClassDeclaration)
		if !ok {
			continue
		}
		if !extendsMarker(classDecl) {
			continue
		}

		sc := scannedClass{className: classDecl.Name}
		for _, member := range classDecl.Members {
			methodDecl, ok := member.(*ast.MethodDeclaration)
			if !ok {
				continue
			}
			extern, ok, err := findExternAttribute(methodDecl)
			if err != nil {
				return nil, fmt.Errorf("ffi: %s::%s: %w", classDecl.Name, methodDecl.Name, err)
			}
			if !ok {
				continue
			}
			extern.name = methodDecl.Name
			sc.methods = append(sc.methods, extern)
		}
		result.classes = append(result.classes, sc)
	}
	return result, nil
}

// extendsMarker reports whether a class declaration's "extends" clause
// names the FFI marker class, with or without a namespace prefix.
func extendsMarker(cd *ast.ClassDeclaration) bool {
	if cd.Extends == nil {
		return false
	}
	ns, ok := cd.Extends.(*ast.NamespaceNameExpression)
	if !ok || len(ns.Parts) == 0 {
		return false
	}
	return ns.Parts[len(ns.Parts)-1] == MarkerClassName
}

// findExternAttribute looks for an #[Extern(...)] attribute on a method
// declaration and extracts its dll/args/ret fields.
func findExternAttribute(md *ast.MethodDeclaration) (scannedMethod, bool, error) {
	if md.Attributes == nil {
		return scannedMethod{}, false, nil
	}
	list, ok := md.Attributes.(*ast.AttributeListExpression)
	if !ok {
		return scannedMethod{}, false, nil
	}

	for _, group := range list.Groups {
		for _, attr := range group.Attributes {
			if !attributeNamed(attr, ExternAttribute) {
				continue
			}
			fields, err := extractStringArgs(attr)
			if err != nil {
				return scannedMethod{}, false, err
			}
			return scannedMethod{
				dll:  fields["dll"],
				args: fields["args"],
				ret:  fields["ret"],
			}, true, nil
		}
	}
	return scannedMethod{}, false, nil
}

func attributeNamed(attr *ast.AttributeExpression, name string) bool {
	ns, ok := attr.Name.(*ast.NamespaceNameExpression)
	if !ok || len(ns.Parts) == 0 {
		return false
	}
	return ns.Parts[len(ns.Parts)-1] == name
}

// extractStringArgs reads an attribute's arguments as a name->string map,
// accepting both named arguments (dll: "math") and positional ones, in
// which case externParamOrder supplies the implied names.
func extractStringArgs(attr *ast.AttributeExpression) (map[string]string, error) {
	fields := make(map[string]string)
	positional := 0
	for _, arg := range attr.Arguments {
		var name string
		var valueExpr ast.Expression

		if named, ok := arg.(*ast.NamedArgument); ok {
			name = named.Name
			valueExpr = named.Value
		} else {
			if positional >= len(externParamOrder) {
				return nil, fmt.Errorf("too many positional arguments to #[Extern]")
			}
			name = externParamOrder[positional]
			valueExpr = arg
			positional++
		}

		str, ok := valueExpr.(*ast.StringLiteral)
		if !ok {
			return nil, fmt.Errorf("#[Extern] argument %q must be a string literal", name)
		}
		fields[name] = str.Value
	}
	return fields, nil
}
