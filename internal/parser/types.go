package parser

import "modtree/internal/syntax"

func (p *Parser) atPathStart() bool {
	switch p.current() {
	case syntax.Ident, syntax.SelfKw, syntax.SelfTypeKw, syntax.SuperKw, syntax.CrateKw:
		return true
	}
	return p.atComposite(syntax.PathSep)
}

func (p *Parser) nameRef() {
	m := p.start()
	p.bumpAny()
	p.complete(m, syntax.NameRef)
}

// path parses a flat Path of PathSegments. In expression position generic
// arguments need the turbofish `::<`.
func (p *Parser) path(expr bool) {
	m := p.start()
	if p.atComposite(syntax.PathSep) {
		p.bumpComposite(syntax.PathSep)
	}
	p.pathSegment(!expr)
	for p.atComposite(syntax.PathSep) {
		if p.nth(2) == syntax.Lt {
			if !expr {
				break
			}
			p.bumpComposite(syntax.PathSep)
			p.genericArgs()
			continue
		}
		p.bumpComposite(syntax.PathSep)
		p.pathSegment(!expr)
	}
	p.complete(m, syntax.Path)
}

func (p *Parser) pathSegment(typeArgs bool) {
	m := p.start()
	switch p.current() {
	case syntax.Ident, syntax.SelfKw, syntax.SelfTypeKw, syntax.SuperKw, syntax.CrateKw:
		p.nameRef()
	default:
		p.error("expected a path segment")
	}
	if typeArgs && p.at(syntax.Lt) && !p.atComposite(syntax.Le) && !p.atComposite(syntax.Shl) {
		p.genericArgs()
	}
	p.complete(m, syntax.PathSegment)
}

func (p *Parser) genericArgs() {
	m := p.start()
	p.bump(syntax.Lt)
	for !p.at(syntax.Eof) && !p.at(syntax.Gt) {
		if p.at(syntax.Lifetime) {
			p.bump(syntax.Lifetime)
		} else if !p.typeRef() {
			break
		}
		if !p.at(syntax.Gt) && !p.expect(syntax.Comma) {
			break
		}
	}
	p.expect(syntax.Gt)
	p.complete(m, syntax.GenericArgList)
}

// typeRef parses a type and reports whether anything was consumed.
func (p *Parser) typeRef() bool {
	switch {
	case p.at(syntax.Amp):
		m := p.start()
		p.bump(syntax.Amp)
		p.eat(syntax.Lifetime)
		p.eat(syntax.MutKw)
		p.typeRef()
		p.complete(m, syntax.RefType)
	case p.at(syntax.LParen):
		m := p.start()
		p.bump(syntax.LParen)
		for !p.at(syntax.Eof) && !p.at(syntax.RParen) {
			if !p.typeRef() {
				break
			}
			if !p.at(syntax.RParen) && !p.expect(syntax.Comma) {
				break
			}
		}
		p.expect(syntax.RParen)
		p.complete(m, syntax.TupleType)
	case p.atPathStart():
		m := p.start()
		p.path(false)
		p.complete(m, syntax.PathType)
	default:
		p.errRecover("expected a type", syntax.Semi, syntax.Comma, syntax.RParen,
			syntax.RBrace, syntax.Gt, syntax.Eq, syntax.LBrace)
		return false
	}
	return true
}

func (p *Parser) pattern() {
	switch {
	case p.at(syntax.Underscore):
		m := p.start()
		p.bump(syntax.Underscore)
		p.complete(m, syntax.WildcardPat)
	case p.at(syntax.Ident), p.at(syntax.MutKw) && p.nth(1) == syntax.Ident:
		m := p.start()
		p.eat(syntax.MutKw)
		p.name()
		p.complete(m, syntax.IdentPat)
	default:
		p.errRecover("expected a pattern", syntax.Colon, syntax.Eq, syntax.Semi, syntax.RParen)
	}
}
