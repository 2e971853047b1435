package parser

import (
	"modtree/internal/event"
	"modtree/internal/syntax"
)

// binding powers
const (
	bpAssign = 1
	bpOr     = 2
	bpAnd    = 3
	bpCmp    = 4
	bpBitOr  = 5
	bpBitXor = 6
	bpBitAnd = 7
	bpShift  = 8
	bpRange  = 9
	bpAdd    = 10
	bpMul    = 11
)

// binOp returns the operator at the cursor with its binding power and the
// number of input tokens it spans.
func (p *Parser) binOp() (syntax.Kind, int, uint8, bool) {
	if k, n, ok := p.glued(); ok {
		switch k {
		case syntax.OrOr:
			return k, bpOr, n, true
		case syntax.AndAnd:
			return k, bpAnd, n, true
		case syntax.EqEq, syntax.Ne, syntax.Le, syntax.Ge:
			return k, bpCmp, n, true
		case syntax.Shl, syntax.Shr:
			return k, bpShift, n, true
		case syntax.PlusEq, syntax.MinusEq:
			return k, bpAssign, n, true
		case syntax.DotDot, syntax.DotDotEq:
			return k, bpRange, n, true
		}
		return 0, 0, 0, false
	}
	switch k := p.current(); k {
	case syntax.Eq:
		return k, bpAssign, 1, true
	case syntax.Lt, syntax.Gt:
		return k, bpCmp, 1, true
	case syntax.Pipe:
		return k, bpBitOr, 1, true
	case syntax.Caret:
		return k, bpBitXor, 1, true
	case syntax.Amp:
		return k, bpBitAnd, 1, true
	case syntax.Plus, syntax.Minus:
		return k, bpAdd, 1, true
	case syntax.Star, syntax.Slash, syntax.Percent:
		return k, bpMul, 1, true
	}
	return 0, 0, 0, false
}

func (p *Parser) expr() { p.exprBP(1, true) }

// exprNoStruct parses a condition, where `{` starts the body.
func (p *Parser) exprNoStruct() { p.exprBP(1, false) }

func (p *Parser) exprBP(minBP int, structOK bool) (CompletedMarker, bool) {
	lhs, ok := p.unary(structOK)
	if !ok {
		return lhs, false
	}
	for {
		op, bp, n, isOp := p.binOp()
		if !isOp || bp < minBP {
			break
		}
		m := p.precede(lhs)
		p.bumpN(op, n)
		next := bp + 1
		if bp == bpAssign {
			next = bp // правоассоциативное присваивание
		}
		p.exprBP(next, structOK)
		lhs = p.complete(m, syntax.BinExpr)
	}
	return lhs, true
}

func (p *Parser) unary(structOK bool) (CompletedMarker, bool) {
	switch {
	case p.at(syntax.Minus), p.at(syntax.Bang), p.at(syntax.Star):
		m := p.start()
		p.bumpAny()
		p.exprBP(bpMul+1, structOK)
		return p.complete(m, syntax.PrefixExpr), true
	case p.at(syntax.Amp):
		m := p.start()
		p.bump(syntax.Amp)
		p.eat(syntax.MutKw)
		p.exprBP(bpMul+1, structOK)
		return p.complete(m, syntax.RefExpr), true
	}
	lhs, ok := p.atom(structOK)
	if !ok {
		return lhs, false
	}
	return p.postfix(lhs), true
}

func (p *Parser) postfix(lhs CompletedMarker) CompletedMarker {
	for {
		switch {
		case p.at(syntax.LParen):
			m := p.precede(lhs)
			p.argList()
			lhs = p.complete(m, syntax.CallExpr)
		case p.at(syntax.Dot) && !p.atComposite(syntax.DotDot):
			lhs = p.dotPostfix(lhs)
		default:
			return lhs
		}
	}
}

// dotPostfix parses `.field`, `.method(args)`, `.0` and the float form `.0.1`.
func (p *Parser) dotPostfix(lhs CompletedMarker) CompletedMarker {
	switch p.nth(1) {
	case syntax.FloatNumber:
		// `x.0.1` лексится как Dot FloatNumber; потребитель делит литерал
		m := p.precede(lhs)
		p.bump(syntax.Dot)
		p.floatSplit()
		return p.complete(m, syntax.FieldExpr)
	case syntax.IntNumber:
		m := p.precede(lhs)
		p.bump(syntax.Dot)
		nm := p.start()
		p.bump(syntax.IntNumber)
		p.complete(nm, syntax.NameRef)
		return p.complete(m, syntax.FieldExpr)
	case syntax.Ident:
		m := p.precede(lhs)
		p.bump(syntax.Dot)
		p.nameRef()
		if p.atComposite(syntax.PathSep) && p.nth(2) == syntax.Lt {
			p.bumpComposite(syntax.PathSep)
			p.genericArgs()
		}
		if p.at(syntax.LParen) {
			p.argList()
			return p.complete(m, syntax.MethodCallExpr)
		}
		return p.complete(m, syntax.FieldExpr)
	}
	m := p.precede(lhs)
	p.bump(syntax.Dot)
	p.error("expected a field name")
	return p.complete(m, syntax.FieldExpr)
}

// floatSplit consumes the float literal at the cursor as a split step.
func (p *Parser) floatSplit() {
	_, end := p.toks.Range(p.sig[p.pos])
	endsInDot := end > 0 && int(end) <= len(p.src) && p.src[end-1] == '.'
	p.events = append(p.events, pevent{step: event.Step{Kind: event.StepFloatSplit, EndsInDot: endsInDot}})
	p.pos++
}

func (p *Parser) argList() {
	m := p.start()
	p.bump(syntax.LParen)
	for !p.at(syntax.Eof) && !p.at(syntax.RParen) {
		if _, ok := p.exprBP(1, true); !ok {
			break
		}
		if !p.at(syntax.RParen) && !p.expect(syntax.Comma) {
			break
		}
	}
	p.expect(syntax.RParen)
	p.complete(m, syntax.ArgList)
}

func (p *Parser) atom(structOK bool) (CompletedMarker, bool) {
	switch p.current() {
	case syntax.IntNumber, syntax.FloatNumber, syntax.String, syntax.Char,
		syntax.TrueKw, syntax.FalseKw:
		m := p.start()
		p.bumpAny()
		return p.complete(m, syntax.Literal), true
	case syntax.LParen:
		return p.parenOrTuple(), true
	case syntax.LBrace:
		return p.blockExpr(), true
	case syntax.UnsafeKw:
		if p.nth(1) == syntax.LBrace {
			m := p.start()
			p.bump(syntax.UnsafeKw)
			p.blockBody()
			return p.complete(m, syntax.BlockExpr), true
		}
	case syntax.IfKw:
		return p.ifExpr(), true
	case syntax.WhileKw:
		m := p.start()
		p.bump(syntax.WhileKw)
		p.exprNoStruct()
		p.blockOrError()
		return p.complete(m, syntax.WhileExpr), true
	case syntax.LoopKw:
		m := p.start()
		p.bump(syntax.LoopKw)
		p.blockOrError()
		return p.complete(m, syntax.LoopExpr), true
	case syntax.ReturnKw:
		m := p.start()
		p.bump(syntax.ReturnKw)
		if p.atExprStart() {
			p.exprBP(1, structOK)
		}
		return p.complete(m, syntax.ReturnExpr), true
	case syntax.BreakKw:
		m := p.start()
		p.bump(syntax.BreakKw)
		p.eat(syntax.Lifetime)
		if p.atExprStart() {
			p.exprBP(1, structOK)
		}
		return p.complete(m, syntax.BreakExpr), true
	case syntax.ContinueKw:
		m := p.start()
		p.bump(syntax.ContinueKw)
		p.eat(syntax.Lifetime)
		return p.complete(m, syntax.ContinueExpr), true
	}
	if p.atMacroCall() {
		m := p.start()
		p.path(true)
		p.bump(syntax.Bang)
		p.tokenTree()
		return p.complete(m, syntax.MacroCall), true
	}
	if p.atPathStart() {
		m := p.start()
		p.path(true)
		return p.complete(m, syntax.PathExpr), true
	}
	p.errRecover("expected an expression", syntax.Semi, syntax.RBrace, syntax.RParen, syntax.Comma)
	return CompletedMarker{}, false
}

func (p *Parser) atExprStart() bool {
	switch p.current() {
	case syntax.Semi, syntax.RBrace, syntax.RParen, syntax.RBracket, syntax.Comma, syntax.Eof:
		return false
	}
	return true
}

func (p *Parser) parenOrTuple() CompletedMarker {
	m := p.start()
	p.bump(syntax.LParen)
	n := 0
	trailing := false
	for !p.at(syntax.Eof) && !p.at(syntax.RParen) {
		if _, ok := p.expr1(); !ok {
			break
		}
		n++
		trailing = false
		if p.at(syntax.RParen) {
			break
		}
		if !p.expect(syntax.Comma) {
			break
		}
		trailing = true
	}
	p.expect(syntax.RParen)
	if n == 1 && !trailing {
		return p.complete(m, syntax.ParenExpr)
	}
	return p.complete(m, syntax.TupleExpr)
}

func (p *Parser) expr1() (CompletedMarker, bool) { return p.exprBP(1, true) }

func (p *Parser) ifExpr() CompletedMarker {
	m := p.start()
	p.bump(syntax.IfKw)
	p.exprNoStruct()
	p.blockOrError()
	if p.eat(syntax.ElseKw) {
		if p.at(syntax.IfKw) {
			p.ifExpr()
		} else {
			p.blockOrError()
		}
	}
	return p.complete(m, syntax.IfExpr)
}

func (p *Parser) blockOrError() {
	if p.at(syntax.LBrace) {
		p.blockExpr()
		return
	}
	p.error("expected a block")
}

func (p *Parser) blockExpr() CompletedMarker {
	m := p.start()
	p.blockBody()
	return p.complete(m, syntax.BlockExpr)
}

// blockBody parses `{ stmts }` as a StmtList.
func (p *Parser) blockBody() {
	m := p.start()
	p.bump(syntax.LBrace)
	for p.at(syntax.Pound) && p.nth(1) == syntax.Bang {
		p.attr()
	}
	for !p.at(syntax.Eof) && !p.at(syntax.RBrace) {
		p.stmt()
	}
	p.expect(syntax.RBrace)
	p.complete(m, syntax.StmtList)
}

func (p *Parser) atItemStart() bool {
	i := 0
	if p.at(syntax.PubKw) {
		return true
	}
	if p.at(syntax.Pound) {
		return true
	}
	switch p.nth(i) {
	case syntax.FnKw, syntax.ModKw, syntax.UseKw, syntax.StructKw, syntax.StaticKw:
		return true
	case syntax.ConstKw:
		return p.nth(1) != syntax.LBrace
	case syntax.UnsafeKw:
		return p.nth(1) == syntax.FnKw
	}
	return false
}

func (p *Parser) stmt() {
	switch {
	case p.eat(syntax.Semi):
		return
	case p.at(syntax.LetKw):
		p.letStmt()
		return
	case p.atItemStart():
		p.item()
		return
	case p.atMacroCall() && p.macroIsStmt():
		m := p.start()
		p.macroCallItem(m)
		return
	}

	before := p.pos
	m := p.start()
	cm, ok := p.expr1()
	if !ok {
		p.abandon(m)
		if p.pos == before && !p.at(syntax.RBrace) {
			em := p.start()
			p.bumpAny()
			p.complete(em, syntax.Error)
		}
		return
	}
	switch {
	case p.eat(syntax.Semi):
		p.complete(m, syntax.ExprStmt)
	case p.at(syntax.RBrace):
		// хвостовое выражение блока
		p.abandon(m)
	case blockLike(cm.kind):
		p.complete(m, syntax.ExprStmt)
	default:
		p.error("expected `;`")
		p.complete(m, syntax.ExprStmt)
	}
}

// macroIsStmt reports a braced macro call in statement position.
func (p *Parser) macroIsStmt() bool {
	i := 0
	for p.nth(i) != syntax.Bang {
		i++
	}
	return p.nth(i+1) == syntax.LBrace
}

func blockLike(k syntax.Kind) bool {
	switch k {
	case syntax.BlockExpr, syntax.IfExpr, syntax.WhileExpr, syntax.LoopExpr:
		return true
	}
	return false
}

func (p *Parser) letStmt() {
	m := p.start()
	p.bump(syntax.LetKw)
	p.pattern()
	if p.eat(syntax.Colon) {
		p.typeRef()
	}
	if p.eat(syntax.Eq) {
		p.expr()
	}
	p.expect(syntax.Semi)
	p.complete(m, syntax.LetStmt)
}
