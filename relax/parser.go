package relax

import (
	"strings"

	"go.istra.dev/annotate/document"
)

const unsetLine = -1

func (p *Parser) parseKey() (document.Node, error) {
	p.skipInlineSpace()

	if p.i >= len(p.data) {
		return nil, p.errorf(p.i, "expecting field")
	}

	switch p.data[p.i] {
	case '"':
		return p.parseQuoted('"')
	case '\'':
		if p.hasPrefix("'''") {
			return nil, p.errorf(p.i, "unexpected multiline string as key")
		}

		if !p.cfg.StringSingleQuote {
			return nil, p.errorf(p.i, "single quote")
		}

		return p.parseQuoted('\'')
	}

	start := p.i

	m := identRE.Find(p.data[p.i:])
	if m == nil {
		return nil, p.errorf(start, "expecting field")
	}

	if !p.cfg.StringIdent {
		return nil, p.errorf(start, "missing quotes")
	}

	p.i += len(m)

	return document.Str{Text: string(m), Format: document.StrUnquoted}, nil
}

func (p *Parser) parseValue() (document.Node, error) {
	p.skipInlineSpace()

	if p.i >= len(p.data) {
		return nil, p.errorf(p.i, "expecting value")
	}

	switch p.data[p.i] {
	case '{':
		return p.parseObject()
	case '[':
		return p.parseArray()
	case '"':
		return p.parseQuoted('"')
	case '\'':
		if p.hasPrefix("'''") {
			return p.parseTripleQuoted()
		}

		if !p.cfg.StringSingleQuote {
			return nil, p.errorf(p.i, "single quote")
		}

		return p.parseQuoted('\'')
	}

	if numberRE.Find(p.data[p.i:]) != nil {
		return p.parseNumber()
	}

	if m := identRE.Find(p.data[p.i:]); m != nil {
		text := string(m)

		switch text {
		case "null":
			p.i += len(m)

			return document.Null{}, nil
		case "true", "yes", "on":
			p.i += len(m)

			return document.Bool(true), nil
		case "false", "no", "off":
			p.i += len(m)

			return document.Bool(false), nil
		}

		if p.cfg.StringIdent {
			p.i += len(m)

			return document.Str{Text: text, Format: document.StrUnquoted}, nil
		}
	}

	if p.cfg.StringUnquoted {
		return p.parseUnquotedLine(), nil
	}

	return nil, p.errorf(p.i, "expecting value")
}

func (p *Parser) parseUnquotedLine() document.Node {
	start := p.i
	end := p.i

	for end < len(p.data) && p.data[end] != '\n' {
		end++
	}

	text := string(p.data[start:end])
	p.i = end

	return document.Str{Text: strings.TrimSpace(text), Format: document.StrUnquoted}
}

// parseKVPair consumes one key-value group from inside an object, including
// any comments attached to it per the line-based attachment rule: a comment
// seen before the key or on the same line as the value stays with this
// group; a comment on a later line belongs to the next group.
func (p *Parser) parseKVPair() (document.Node, bool, error) {
	kLine, vLine := unsetLine, unsetLine

	var kv []document.Node

	comma := false

	for {
		p.skipInlineSpace()

		if p.i >= len(p.data) || p.data[p.i] == '}' {
			break
		}

		if p.data[p.i] == ',' {
			comma = true
			p.i++

			continue
		}

		pos := p.i

		commentNode, isComment, err := p.tryParseComment()
		if err != nil {
			return nil, false, err
		}

		line, _, _ := p.lineCol(p.i)

		switch {
		case isComment:
			if vLine != unsetLine && vLine != line {
				p.trace("comment deferred to next mapping entry", "line", line)

				p.i = pos

				goto done
			}

			p.trace("comment attached to mapping entry", "line", line)

			kv = append(kv, commentNode)

			continue
		case kLine == unsetLine:
			kLine = line

			key, err := p.parseKey()
			if err != nil {
				return nil, false, err
			}

			kv = append(kv, key)
			p.skipInlineSpace()

			if p.i < len(p.data) && p.data[p.i] == ':' {
				p.i++
			}

			continue
		case vLine == unsetLine:
			vLine = line

			val, err := p.parseValue()
			if err != nil {
				return nil, false, err
			}

			kv = append(kv, val)

			continue
		default:
			goto done
		}
	}

done:
	return document.Fragment(kv), comma, nil
}

// parseArrayElem is parseKVPair's counterpart for array elements: a single
// "saw value" latch replaces the key/value pair of comma attachment rules.
func (p *Parser) parseArrayElem() (document.Node, bool, error) {
	iLine := unsetLine

	var item []document.Node

	comma := false
	sawValue := false

	for {
		p.skipInlineSpace()

		if p.i >= len(p.data) || p.data[p.i] == ']' {
			break
		}

		if p.data[p.i] == ',' {
			comma = true
			p.i++

			continue
		}

		pos := p.i

		commentNode, isComment, err := p.tryParseComment()
		if err != nil {
			return nil, false, err
		}

		line, _, _ := p.lineCol(p.i)

		switch {
		case isComment:
			if sawValue && iLine != line {
				p.trace("comment deferred to next array element", "line", line)

				p.i = pos

				goto done
			}

			p.trace("comment attached to array element", "line", line)

			item = append(item, commentNode)

			continue
		case !sawValue:
			iLine = line
			sawValue = true

			val, err := p.parseValue()
			if err != nil {
				return nil, false, err
			}

			item = append(item, val)

			continue
		default:
			goto done
		}
	}

done:
	if len(item) == 1 {
		if _, _, ok := document.AsComment(item[0]); !ok {
			return item[0], comma, nil
		}
	}

	return document.Fragment(item), comma, nil
}

func (p *Parser) parseObject() (document.Node, error) {
	startBrace := p.i
	p.i++

	var kvs []document.Node

	sawComma, needComma := false, false

	for {
		p.skipInlineSpace()

		if p.i >= len(p.data) {
			return nil, p.errorf(startBrace, "unterminated object")
		}

		if p.data[p.i] == '}' {
			break
		}

		if !p.cfg.CommaOptional && needComma != sawComma {
			return nil, p.errorf(p.i, "expected comma")
		}

		node, comma, err := p.parseKVPair()
		if err != nil {
			return nil, err
		}

		kvs = append(kvs, node)
		sawComma = comma
		needComma = true
	}

	if !p.cfg.CommaTrailing && sawComma && len(kvs) > 0 {
		return nil, p.errorf(p.i, "no comma expected")
	}

	p.i++

	return document.Mapping(kvs), nil
}

func (p *Parser) parseArray() (document.Node, error) {
	startBracket := p.i
	p.i++

	var values []document.Node

	sawComma, needComma := false, false

	for {
		p.skipInlineSpace()

		if p.i >= len(p.data) {
			return nil, p.errorf(startBracket, "unterminated array")
		}

		if p.data[p.i] == ']' {
			break
		}

		if !p.cfg.CommaOptional && needComma != sawComma {
			return nil, p.errorf(p.i, "expected comma")
		}

		node, comma, err := p.parseArrayElem()
		if err != nil {
			return nil, err
		}

		values = append(values, node)
		sawComma = comma
		needComma = true
	}

	if !p.cfg.CommaTrailing && sawComma && len(values) > 0 {
		return nil, p.errorf(p.i, "no comma expected")
	}

	p.i++

	return document.Sequence(values), nil
}

func (p *Parser) parseTopLevel() (document.Node, error) {
	var nodes []document.Node

	for {
		p.skipInlineSpace()

		if p.i >= len(p.data) {
			break
		}

		commentNode, isComment, err := p.tryParseComment()
		if err != nil {
			return nil, err
		}

		if isComment {
			nodes = append(nodes, commentNode)
			continue
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, val)
	}

	switch len(nodes) {
	case 0:
		return nil, p.errorf(0, "empty input")
	case 1:
		return nodes[0], nil
	default:
		return document.Fragment(nodes), nil
	}
}
