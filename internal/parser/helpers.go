package parser

import (
	"fmt"

	"modtree/internal/event"
	"modtree/internal/syntax"
)

func (p *Parser) nth(n int) syntax.Kind {
	i := p.pos + n
	if i >= len(p.sig) {
		return syntax.Eof
	}
	return p.toks.Kind(p.sig[i])
}

func (p *Parser) current() syntax.Kind { return p.nth(0) }

func (p *Parser) at(k syntax.Kind) bool { return p.nth(0) == k }

func (p *Parser) atAny(kinds ...syntax.Kind) bool {
	cur := p.current()
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// joint сообщает, что значимый токен n+1 идёт вплотную за токеном n.
func (p *Parser) joint(n int) bool {
	a, b := p.pos+n, p.pos+n+1
	if b >= len(p.sig) {
		return false
	}
	return p.sig[b] == p.sig[a]+1
}

// composite describes a multi-character operator glued from single tokens.
type composite struct {
	kind  syntax.Kind
	parts []syntax.Kind
}

var composites = []composite{
	{syntax.DotDotEq, []syntax.Kind{syntax.Dot, syntax.Dot, syntax.Eq}},
	{syntax.PathSep, []syntax.Kind{syntax.Colon, syntax.Colon}},
	{syntax.ThinArrow, []syntax.Kind{syntax.Minus, syntax.Gt}},
	{syntax.FatArrow, []syntax.Kind{syntax.Eq, syntax.Gt}},
	{syntax.EqEq, []syntax.Kind{syntax.Eq, syntax.Eq}},
	{syntax.Ne, []syntax.Kind{syntax.Bang, syntax.Eq}},
	{syntax.Le, []syntax.Kind{syntax.Lt, syntax.Eq}},
	{syntax.Ge, []syntax.Kind{syntax.Gt, syntax.Eq}},
	{syntax.AndAnd, []syntax.Kind{syntax.Amp, syntax.Amp}},
	{syntax.OrOr, []syntax.Kind{syntax.Pipe, syntax.Pipe}},
	{syntax.Shl, []syntax.Kind{syntax.Lt, syntax.Lt}},
	{syntax.Shr, []syntax.Kind{syntax.Gt, syntax.Gt}},
	{syntax.PlusEq, []syntax.Kind{syntax.Plus, syntax.Eq}},
	{syntax.MinusEq, []syntax.Kind{syntax.Minus, syntax.Eq}},
	{syntax.DotDot, []syntax.Kind{syntax.Dot, syntax.Dot}},
}

func (p *Parser) atParts(parts []syntax.Kind) bool {
	for i, k := range parts {
		if p.nth(i) != k {
			return false
		}
		if i > 0 && !p.joint(i-1) {
			return false
		}
	}
	return true
}

// atComposite reports whether the glued operator k starts here.
func (p *Parser) atComposite(k syntax.Kind) bool {
	for _, c := range composites {
		if c.kind == k {
			return p.atParts(c.parts)
		}
	}
	return false
}

// glued returns the longest composite operator starting here, if any.
func (p *Parser) glued() (syntax.Kind, uint8, bool) {
	for _, c := range composites {
		if p.atParts(c.parts) {
			return c.kind, uint8(len(c.parts)), true
		}
	}
	return 0, 0, false
}

func (p *Parser) bumpN(k syntax.Kind, n uint8) {
	if p.at(syntax.Eof) {
		return
	}
	p.events = append(p.events, pevent{step: event.Step{Kind: event.StepToken, Node: k, NInput: n}})
	p.pos += int(n)
}

func (p *Parser) bump(k syntax.Kind) { p.bumpN(k, 1) }

func (p *Parser) bumpAny() { p.bump(p.current()) }

// bumpComposite eats the glued operator k; the caller checked atComposite.
func (p *Parser) bumpComposite(k syntax.Kind) {
	for _, c := range composites {
		if c.kind == k {
			p.bumpN(k, uint8(len(c.parts)))
			return
		}
	}
}

func (p *Parser) eat(k syntax.Kind) bool {
	if !p.at(k) {
		return false
	}
	p.bump(k)
	return true
}

func (p *Parser) eatComposite(k syntax.Kind) bool {
	if !p.atComposite(k) {
		return false
	}
	p.bumpComposite(k)
	return true
}

func (p *Parser) expect(k syntax.Kind) bool {
	if p.eat(k) {
		return true
	}
	p.error(fmt.Sprintf("expected %s", k))
	return false
}

func (p *Parser) error(msg string) {
	p.errors++
	p.events = append(p.events, pevent{step: event.Step{Kind: event.StepError, Msg: msg}})
}

// errRecover reports msg and, unless the current token is a recovery point,
// wraps it in an Error node so the parser always makes progress.
func (p *Parser) errRecover(msg string, recovery ...syntax.Kind) {
	if p.at(syntax.Eof) || p.atAny(recovery...) {
		p.error(msg)
		return
	}
	m := p.start()
	p.error(msg)
	p.bumpAny()
	p.complete(m, syntax.Error)
}
