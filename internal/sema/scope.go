// Package sema implements semantic analysis for CalcScript+.
package sema

import "github.com/calc-lang/calcscript/internal/syntax"

// ValueType is the semantic type of an expression or symbol.
type ValueType uint8

const (
	Unknown ValueType = iota // unifies with any concrete type
	Number
	String
	Boolean
	Array // arrays and matrices share one semantic type
	Void
)

// valueTypeNames maps value types to their string representation.
var valueTypeNames = [...]string{
	Unknown: "unknown",
	Number:  "number",
	String:  "string",
	Boolean: "boolean",
	Array:   "array",
	Void:    "void",
}

// String returns the string representation of the value type.
func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "ValueType(?)"
}

// TypeFromKeyword maps a type keyword spelling to its value type.
// int, long, and float all collapse to number; array and matrix to array.
func TypeFromKeyword(kw string) ValueType {
	switch kw {
	case "int", "long", "float":
		return Number
	case "string":
		return String
	case "boolean":
		return Boolean
	case "array", "matrix":
		return Array
	case "void":
		return Void
	}
	return Unknown
}

// SymbolKind classifies a symbol.
type SymbolKind uint8

const (
	VarSymbol SymbolKind = iota
	ParamSymbol
	FuncSymbol
	BuiltinSymbol
)

// symbolKindNames maps symbol kinds to their string representation.
var symbolKindNames = [...]string{
	VarSymbol:     "variable",
	ParamSymbol:   "parameter",
	FuncSymbol:    "function",
	BuiltinSymbol: "builtin",
}

// String returns the string representation of the symbol kind.
func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "SymbolKind(?)"
}

// Symbol is one named entity: a variable, parameter, or function.
type Symbol struct {
	Name        string
	Kind        SymbolKind
	Type        ValueType // variable type, or function result type
	ScopeLevel  int       // 0 = global
	Pos         syntax.Pos
	Initialized bool
	Used        bool
}

// Scope maintains the symbols declared in one lexical scope.
type Scope struct {
	parent *Scope
	level  int
	elems  map[string]*Symbol
	names  []string // insertion order, for deterministic iteration
}

// NewScope creates a new scope nested in parent (nil for the global scope).
func NewScope(parent *Scope) *Scope {
	level := 0
	if parent != nil {
		level = parent.level + 1
	}
	return &Scope{parent: parent, level: level, elems: make(map[string]*Symbol)}
}

// Parent returns the enclosing scope, or nil for the global scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Level returns the nesting depth of the scope (0 = global).
func (s *Scope) Level() int {
	return s.level
}

// Insert declares sym in s. If a symbol with the same name already
// exists in s, Insert leaves the scope unchanged and returns that
// symbol; otherwise it inserts sym and returns nil.
func (s *Scope) Insert(sym *Symbol) *Symbol {
	if alt, ok := s.elems[sym.Name]; ok {
		return alt
	}
	sym.ScopeLevel = s.level
	s.elems[sym.Name] = sym
	s.names = append(s.names, sym.Name)
	return nil
}

// Lookup returns the symbol named name declared in s, or nil.
// It does not consult enclosing scopes.
func (s *Scope) Lookup(name string) *Symbol {
	return s.elems[name]
}

// LookupParent returns the symbol named name in s or the nearest
// enclosing scope that declares it, or nil.
func (s *Scope) LookupParent(name string) *Symbol {
	for sc := s; sc != nil; sc = sc.parent {
		if sym := sc.elems[name]; sym != nil {
			return sym
		}
	}
	return nil
}

// Names returns the names declared in s, in declaration order.
func (s *Scope) Names() []string {
	return s.names
}

// Symbols returns the symbols declared in s, in declaration order.
func (s *Scope) Symbols() []*Symbol {
	syms := make([]*Symbol, 0, len(s.names))
	for _, name := range s.names {
		syms = append(syms, s.elems[name])
	}
	return syms
}
