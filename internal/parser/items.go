package parser

import "modtree/internal/syntax"

// itemRecovery - токены, на которых восстановление не съедает ввод.
var itemRecovery = []syntax.Kind{
	syntax.FnKw, syntax.ModKw, syntax.UseKw, syntax.StructKw,
	syntax.ConstKw, syntax.StaticKw, syntax.PubKw, syntax.RBrace,
}

// item parses a single item; attributes and visibility are placed inside the
// item node.
func (p *Parser) item() {
	m := p.start()
	for p.at(syntax.Pound) {
		p.attr()
	}
	p.visibility()

	switch {
	case p.at(syntax.ModKw):
		p.module(m)
	case p.at(syntax.FnKw), p.at(syntax.UnsafeKw) && p.nth(1) == syntax.FnKw,
		p.at(syntax.ConstKw) && p.nth(1) == syntax.FnKw:
		p.fn(m)
	case p.at(syntax.UseKw):
		p.use(m)
	case p.at(syntax.StructKw):
		p.structItem(m)
	case p.at(syntax.ConstKw):
		p.constOrStatic(m, syntax.ConstKw, syntax.Const)
	case p.at(syntax.StaticKw):
		p.constOrStatic(m, syntax.StaticKw, syntax.Static)
	case p.atMacroCall():
		p.macroCallItem(m)
	default:
		p.abandon(m)
		p.errRecover("expected an item", itemRecovery...)
		if p.at(syntax.RBrace) {
			// лишняя закрывающая скобка на верхнем уровне
			em := p.start()
			p.bump(syntax.RBrace)
			p.complete(em, syntax.Error)
		}
	}
}

func (p *Parser) attr() {
	m := p.start()
	p.bump(syntax.Pound)
	p.eat(syntax.Bang)
	if p.at(syntax.LBracket) {
		p.tokenTree()
	} else {
		p.error("expected `[`")
	}
	p.complete(m, syntax.Attr)
}

func (p *Parser) visibility() {
	if !p.at(syntax.PubKw) {
		return
	}
	m := p.start()
	p.bump(syntax.PubKw)
	if p.at(syntax.LParen) {
		switch p.nth(1) {
		case syntax.CrateKw, syntax.SuperKw, syntax.SelfKw:
			if p.nth(2) == syntax.RParen {
				p.bump(syntax.LParen)
				p.bumpAny()
				p.bump(syntax.RParen)
			}
		case syntax.InKw:
			p.bump(syntax.LParen)
			p.bump(syntax.InKw)
			p.path(false)
			p.expect(syntax.RParen)
		}
	}
	p.complete(m, syntax.Visibility)
}

func (p *Parser) name() {
	if !p.at(syntax.Ident) {
		p.errRecover("expected a name", itemRecovery...)
		return
	}
	m := p.start()
	p.bump(syntax.Ident)
	p.complete(m, syntax.Name)
}

// module parses `mod name;` or `mod name { items }`.
func (p *Parser) module(m Marker) {
	p.bump(syntax.ModKw)
	p.name()
	switch {
	case p.eat(syntax.Semi):
	case p.at(syntax.LBrace):
		p.itemList()
	default:
		p.error("expected `;` or `{`")
	}
	p.complete(m, syntax.Module)
}

func (p *Parser) itemList() {
	m := p.start()
	p.bump(syntax.LBrace)
	for p.at(syntax.Pound) && p.nth(1) == syntax.Bang {
		p.attr()
	}
	for !p.at(syntax.Eof) && !p.at(syntax.RBrace) {
		p.item()
	}
	p.expect(syntax.RBrace)
	p.complete(m, syntax.ItemList)
}

func (p *Parser) fn(m Marker) {
	p.eat(syntax.ConstKw)
	p.eat(syntax.UnsafeKw)
	p.bump(syntax.FnKw)
	p.name()
	if p.at(syntax.LParen) {
		p.paramList()
	} else {
		p.error("expected function parameters")
	}
	if p.atComposite(syntax.ThinArrow) {
		rm := p.start()
		p.bumpComposite(syntax.ThinArrow)
		p.typeRef()
		p.complete(rm, syntax.RetType)
	}
	switch {
	case p.at(syntax.LBrace):
		p.blockExpr()
	case p.eat(syntax.Semi):
	default:
		p.error("expected a function body")
	}
	p.complete(m, syntax.Fn)
}

func (p *Parser) paramList() {
	m := p.start()
	p.bump(syntax.LParen)
	for !p.at(syntax.Eof) && !p.at(syntax.RParen) {
		pm := p.start()
		switch {
		case p.at(syntax.Amp) || p.at(syntax.SelfKw) || p.at(syntax.MutKw) && p.nth(1) == syntax.SelfKw:
			p.selfParam()
		default:
			p.pattern()
			if p.expect(syntax.Colon) {
				p.typeRef()
			}
		}
		p.complete(pm, syntax.Param)
		if !p.at(syntax.RParen) && !p.expect(syntax.Comma) {
			break
		}
	}
	p.expect(syntax.RParen)
	p.complete(m, syntax.ParamList)
}

// selfParam handles `self`, `mut self`, `&self`, `&mut self`.
func (p *Parser) selfParam() {
	if p.eat(syntax.Amp) {
		p.eat(syntax.MutKw)
	} else {
		p.eat(syntax.MutKw)
	}
	if !p.at(syntax.SelfKw) {
		p.pattern()
		return
	}
	nm := p.start()
	p.bump(syntax.SelfKw)
	p.complete(nm, syntax.Name)
	if p.eat(syntax.Colon) {
		p.typeRef()
	}
}

func (p *Parser) use(m Marker) {
	p.bump(syntax.UseKw)
	p.useTree(true)
	p.expect(syntax.Semi)
	p.complete(m, syntax.Use)
}

func (p *Parser) useTree(top bool) {
	m := p.start()
	switch {
	case p.at(syntax.Star):
		p.bump(syntax.Star)
	case p.at(syntax.LBrace):
		p.useTreeList()
	case p.atComposite(syntax.PathSep) && (p.nth(2) == syntax.LBrace || p.nth(2) == syntax.Star):
		p.bumpComposite(syntax.PathSep)
		if p.at(syntax.Star) {
			p.bump(syntax.Star)
		} else {
			p.useTreeList()
		}
	case p.atPathStart():
		p.usePath()
		switch {
		case p.atComposite(syntax.PathSep):
			p.bumpComposite(syntax.PathSep)
			if p.at(syntax.Star) {
				p.bump(syntax.Star)
			} else if p.at(syntax.LBrace) {
				p.useTreeList()
			} else {
				p.error("expected `*` or `{`")
			}
		case p.at(syntax.AsKw):
			p.bump(syntax.AsKw)
			if p.at(syntax.Underscore) {
				p.bump(syntax.Underscore)
			} else {
				p.name()
			}
		}
	default:
		p.abandon(m)
		if top {
			p.errRecover("expected a use tree", itemRecovery...)
		} else {
			p.errRecover("expected a use tree", syntax.RBrace, syntax.Comma)
		}
		return
	}
	p.complete(m, syntax.UseTree)
}

// usePath parses a path that stops before `::{` and `::*`.
func (p *Parser) usePath() {
	m := p.start()
	if p.atComposite(syntax.PathSep) {
		p.bumpComposite(syntax.PathSep)
	}
	p.pathSegment(false)
	for p.atComposite(syntax.PathSep) && p.nth(2) != syntax.LBrace && p.nth(2) != syntax.Star {
		p.bumpComposite(syntax.PathSep)
		p.pathSegment(false)
	}
	p.complete(m, syntax.Path)
}

func (p *Parser) useTreeList() {
	m := p.start()
	p.bump(syntax.LBrace)
	for !p.at(syntax.Eof) && !p.at(syntax.RBrace) {
		p.useTree(false)
		if !p.at(syntax.RBrace) && !p.expect(syntax.Comma) {
			break
		}
	}
	p.expect(syntax.RBrace)
	p.complete(m, syntax.UseTreeList)
}

func (p *Parser) structItem(m Marker) {
	p.bump(syntax.StructKw)
	p.name()
	switch {
	case p.eat(syntax.Semi):
	case p.at(syntax.LBrace):
		p.recordFieldList()
	case p.at(syntax.LParen):
		p.tokenTree()
		p.expect(syntax.Semi)
	default:
		p.error("expected `;`, `{` or `(`")
	}
	p.complete(m, syntax.Struct)
}

func (p *Parser) recordFieldList() {
	m := p.start()
	p.bump(syntax.LBrace)
	for !p.at(syntax.Eof) && !p.at(syntax.RBrace) {
		fm := p.start()
		for p.at(syntax.Pound) {
			p.attr()
		}
		p.visibility()
		p.name()
		if p.expect(syntax.Colon) {
			p.typeRef()
		}
		p.complete(fm, syntax.RecordField)
		if !p.at(syntax.RBrace) && !p.expect(syntax.Comma) {
			break
		}
	}
	p.expect(syntax.RBrace)
	p.complete(m, syntax.RecordFieldList)
}

func (p *Parser) constOrStatic(m Marker, kw, kind syntax.Kind) {
	p.bump(kw)
	if kind == syntax.Static {
		p.eat(syntax.MutKw)
	}
	if p.at(syntax.Underscore) {
		p.bump(syntax.Underscore)
	} else {
		p.name()
	}
	if p.expect(syntax.Colon) {
		p.typeRef()
	}
	if p.eat(syntax.Eq) {
		p.expr()
	}
	p.expect(syntax.Semi)
	p.complete(m, kind)
}

// atMacroCall reports `path !` followed by a delimiter.
func (p *Parser) atMacroCall() bool {
	i := 0
	if p.atComposite(syntax.PathSep) {
		i = 2
	}
	for {
		if p.nth(i) != syntax.Ident {
			return false
		}
		i++
		if p.nth(i) == syntax.Colon && p.nth(i+1) == syntax.Colon {
			i += 2
			continue
		}
		break
	}
	if p.nth(i) != syntax.Bang {
		return false
	}
	switch p.nth(i + 1) {
	case syntax.LParen, syntax.LBracket, syntax.LBrace:
		return true
	}
	return false
}

func (p *Parser) macroCallItem(m Marker) {
	p.path(false)
	p.bump(syntax.Bang)
	braced := p.at(syntax.LBrace)
	p.tokenTree()
	if !braced {
		p.expect(syntax.Semi)
	} else {
		p.eat(syntax.Semi)
	}
	p.complete(m, syntax.MacroCall)
}

// tokenTree consumes a balanced delimited group verbatim.
func (p *Parser) tokenTree() {
	m := p.start()
	var stack []syntax.Kind
	for {
		switch p.current() {
		case syntax.Eof:
			p.error("unclosed delimiter")
			p.complete(m, syntax.TokenTree)
			return
		case syntax.LParen:
			stack = append(stack, syntax.RParen)
		case syntax.LBracket:
			stack = append(stack, syntax.RBracket)
		case syntax.LBrace:
			stack = append(stack, syntax.RBrace)
		case syntax.RParen, syntax.RBracket, syntax.RBrace:
			if len(stack) == 0 || stack[len(stack)-1] != p.current() {
				p.error("mismatched delimiter")
				p.complete(m, syntax.TokenTree)
				return
			}
			stack = stack[:len(stack)-1]
		}
		p.bumpAny()
		if len(stack) == 0 {
			break
		}
	}
	p.complete(m, syntax.TokenTree)
}
