package syntax

import "fmt"

// Kind tags every record in the arena. Token kinds come first and end with
// the trivia kinds; structural kinds follow. IsToken relies on that order.
type Kind uint16

const (
	// Eof terminates the lexed token list.
	Eof Kind = iota
	// Unknown is a byte sequence the lexer could not classify.
	Unknown

	Ident
	IntNumber
	FloatNumber
	String
	Char
	Lifetime

	// keywords
	AsKw
	BreakKw
	ConstKw
	ContinueKw
	CrateKw
	ElseKw
	EnumKw
	ExternKw
	FalseKw
	FnKw
	ForKw
	IfKw
	ImplKw
	InKw
	LetKw
	LoopKw
	MatchKw
	ModKw
	MutKw
	PubKw
	ReturnKw
	SelfKw
	SelfTypeKw
	StaticKw
	StructKw
	SuperKw
	TraitKw
	TrueKw
	TypeKw
	UnsafeKw
	UseKw
	WhereKw
	WhileKw

	// punctuation
	Semi
	Comma
	Colon
	PathSep
	Dot
	DotDot
	DotDotEq
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Bang
	Eq
	EqEq
	Ne
	Lt
	Gt
	Le
	Ge
	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	AndAnd
	Pipe
	OrOr
	Caret
	Shl
	Shr
	PlusEq
	MinusEq
	ThinArrow
	FatArrow
	Pound
	Dollar
	Question
	At
	Underscore
	Tilde

	// trivia: последние токенные виды
	Comment
	Whitespace

	// structural kinds
	SourceFile
	Module
	Name
	NameRef
	ItemList
	Visibility
	Attr
	Fn
	ParamList
	Param
	RetType
	Use
	UseTree
	UseTreeList
	Struct
	RecordFieldList
	RecordField
	Const
	Static
	MacroCall
	TokenTree
	Path
	PathSegment
	PathType
	RefType
	TupleType
	GenericArgList
	BlockExpr
	StmtList
	LetStmt
	ExprStmt
	PathExpr
	Literal
	CallExpr
	MethodCallExpr
	FieldExpr
	ArgList
	BinExpr
	PrefixExpr
	RefExpr
	ParenExpr
	TupleExpr
	IfExpr
	WhileExpr
	LoopExpr
	ReturnExpr
	BreakExpr
	ContinueExpr
	IdentPat
	WildcardPat
	Error

	kindCount
)

// Exit closes the innermost open structural record. It is never a valid
// domain kind.
const Exit Kind = 0xFFFF

// IsToken reports whether k is a token kind (trivia included).
func (k Kind) IsToken() bool { return k <= Whitespace }

// IsTrivia reports whether k is whitespace or a comment.
func (k Kind) IsTrivia() bool { return k == Whitespace || k == Comment }

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k >= AsKw && k <= WhileKw }

// IsValid reports whether k is a known domain kind.
func (k Kind) IsValid() bool { return k < kindCount }

// HasName reports whether a token record of kind k carries an interned name.
func (k Kind) HasName() bool { return k == Ident }

// HasSlot reports whether a structural record of kind k reserves a
// backpatch slot.
func (k Kind) HasSlot() bool { return k == Module }

var kindNames = [...]string{
	Eof:         "EOF",
	Unknown:     "UNKNOWN",
	Ident:       "IDENT",
	IntNumber:   "INT_NUMBER",
	FloatNumber: "FLOAT_NUMBER",
	String:      "STRING",
	Char:        "CHAR",
	Lifetime:    "LIFETIME_IDENT",

	AsKw:       "AS_KW",
	BreakKw:    "BREAK_KW",
	ConstKw:    "CONST_KW",
	ContinueKw: "CONTINUE_KW",
	CrateKw:    "CRATE_KW",
	ElseKw:     "ELSE_KW",
	EnumKw:     "ENUM_KW",
	ExternKw:   "EXTERN_KW",
	FalseKw:    "FALSE_KW",
	FnKw:       "FN_KW",
	ForKw:      "FOR_KW",
	IfKw:       "IF_KW",
	ImplKw:     "IMPL_KW",
	InKw:       "IN_KW",
	LetKw:      "LET_KW",
	LoopKw:     "LOOP_KW",
	MatchKw:    "MATCH_KW",
	ModKw:      "MOD_KW",
	MutKw:      "MUT_KW",
	PubKw:      "PUB_KW",
	ReturnKw:   "RETURN_KW",
	SelfKw:     "SELF_KW",
	SelfTypeKw: "SELF_TYPE_KW",
	StaticKw:   "STATIC_KW",
	StructKw:   "STRUCT_KW",
	SuperKw:    "SUPER_KW",
	TraitKw:    "TRAIT_KW",
	TrueKw:     "TRUE_KW",
	TypeKw:     "TYPE_KW",
	UnsafeKw:   "UNSAFE_KW",
	UseKw:      "USE_KW",
	WhereKw:    "WHERE_KW",
	WhileKw:    "WHILE_KW",

	Semi:       "SEMICOLON",
	Comma:      "COMMA",
	Colon:      "COLON",
	PathSep:    "COLON2",
	Dot:        "DOT",
	DotDot:     "DOT2",
	DotDotEq:   "DOT2EQ",
	LParen:     "L_PAREN",
	RParen:     "R_PAREN",
	LBrace:     "L_CURLY",
	RBrace:     "R_CURLY",
	LBracket:   "L_BRACK",
	RBracket:   "R_BRACK",
	Bang:       "BANG",
	Eq:         "EQ",
	EqEq:       "EQ2",
	Ne:         "NEQ",
	Lt:         "L_ANGLE",
	Gt:         "R_ANGLE",
	Le:         "LTEQ",
	Ge:         "GTEQ",
	Plus:       "PLUS",
	Minus:      "MINUS",
	Star:       "STAR",
	Slash:      "SLASH",
	Percent:    "PERCENT",
	Amp:        "AMP",
	AndAnd:     "AMP2",
	Pipe:       "PIPE",
	OrOr:       "PIPE2",
	Caret:      "CARET",
	Shl:        "SHL",
	Shr:        "SHR",
	PlusEq:     "PLUSEQ",
	MinusEq:    "MINUSEQ",
	ThinArrow:  "THIN_ARROW",
	FatArrow:   "FAT_ARROW",
	Pound:      "POUND",
	Dollar:     "DOLLAR",
	Question:   "QUESTION",
	At:         "AT",
	Underscore: "UNDERSCORE",
	Tilde:      "TILDE",

	Comment:    "COMMENT",
	Whitespace: "WHITESPACE",

	SourceFile:      "SOURCE_FILE",
	Module:          "MODULE",
	Name:            "NAME",
	NameRef:         "NAME_REF",
	ItemList:        "ITEM_LIST",
	Visibility:      "VISIBILITY",
	Attr:            "ATTR",
	Fn:              "FN",
	ParamList:       "PARAM_LIST",
	Param:           "PARAM",
	RetType:         "RET_TYPE",
	Use:             "USE",
	UseTree:         "USE_TREE",
	UseTreeList:     "USE_TREE_LIST",
	Struct:          "STRUCT",
	RecordFieldList: "RECORD_FIELD_LIST",
	RecordField:     "RECORD_FIELD",
	Const:           "CONST",
	Static:          "STATIC",
	MacroCall:       "MACRO_CALL",
	TokenTree:       "TOKEN_TREE",
	Path:            "PATH",
	PathSegment:     "PATH_SEGMENT",
	PathType:        "PATH_TYPE",
	RefType:         "REF_TYPE",
	TupleType:       "TUPLE_TYPE",
	GenericArgList:  "GENERIC_ARG_LIST",
	BlockExpr:       "BLOCK_EXPR",
	StmtList:        "STMT_LIST",
	LetStmt:         "LET_STMT",
	ExprStmt:        "EXPR_STMT",
	PathExpr:        "PATH_EXPR",
	Literal:         "LITERAL",
	CallExpr:        "CALL_EXPR",
	MethodCallExpr:  "METHOD_CALL_EXPR",
	FieldExpr:       "FIELD_EXPR",
	ArgList:         "ARG_LIST",
	BinExpr:         "BIN_EXPR",
	PrefixExpr:      "PREFIX_EXPR",
	RefExpr:         "REF_EXPR",
	ParenExpr:       "PAREN_EXPR",
	TupleExpr:       "TUPLE_EXPR",
	IfExpr:          "IF_EXPR",
	WhileExpr:       "WHILE_EXPR",
	LoopExpr:        "LOOP_EXPR",
	ReturnExpr:      "RETURN_EXPR",
	BreakExpr:       "BREAK_EXPR",
	ContinueExpr:    "CONTINUE_EXPR",
	IdentPat:        "IDENT_PAT",
	WildcardPat:     "WILDCARD_PAT",
	Error:           "ERROR",
}

func (k Kind) String() string {
	if k == Exit {
		return "EXIT"
	}
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

var keywords = map[string]Kind{
	"as":       AsKw,
	"break":    BreakKw,
	"const":    ConstKw,
	"continue": ContinueKw,
	"crate":    CrateKw,
	"else":     ElseKw,
	"enum":     EnumKw,
	"extern":   ExternKw,
	"false":    FalseKw,
	"fn":       FnKw,
	"for":      ForKw,
	"if":       IfKw,
	"impl":     ImplKw,
	"in":       InKw,
	"let":      LetKw,
	"loop":     LoopKw,
	"match":    MatchKw,
	"mod":      ModKw,
	"mut":      MutKw,
	"pub":      PubKw,
	"return":   ReturnKw,
	"self":     SelfKw,
	"Self":     SelfTypeKw,
	"static":   StaticKw,
	"struct":   StructKw,
	"super":    SuperKw,
	"trait":    TraitKw,
	"true":     TrueKw,
	"type":     TypeKw,
	"unsafe":   UnsafeKw,
	"use":      UseKw,
	"where":    WhereKw,
	"while":    WhileKw,
}

// LookupKeyword returns the keyword kind for s, if any.
func LookupKeyword(s string) (Kind, bool) {
	k, ok := keywords[s]
	return k, ok
}
