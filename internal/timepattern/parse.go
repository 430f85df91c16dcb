package timepattern

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseError reports a short-form pattern that failed to parse, carrying
// the byte offset of the failure so callers can render a caret-underline
// diagnostic, matching the behavior of the original parser this grammar is
// ported from.
type ParseError struct {
	Pos   int
	Input string
	Msg   string
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if msg != "" {
		r := []rune(msg)
		r[0] = unicode.ToUpper(r[0])
		msg = string(r)
	}
	return fmt.Sprintf("%s at position %d\n%s\n%s^", msg, e.Pos, e.Input, strings.Repeat(" ", e.Pos))
}

type parser struct {
	input string
	pos   int
}

func (p *parser) fail(msg string) error {
	return &ParseError{Pos: p.pos, Input: p.input, Msg: msg}
}

func (p *parser) eof() bool { return p.pos >= len(p.input) }

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) hasSpace() bool {
	return p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t')
}

func (p *parser) literal(s string) bool {
	if strings.HasPrefix(p.input[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) number() (uint32, bool) {
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, false
	}
	n, err := strconv.ParseUint(p.input[start:p.pos], 10, 32)
	if err != nil {
		p.pos = start
		return 0, false
	}
	return uint32(n), true
}

func (p *parser) dayName() (uint32, bool) {
	if p.pos+3 > len(p.input) {
		return 0, false
	}
	candidate := p.input[p.pos : p.pos+3]
	if n, ok := parseDayOfWeekName(candidate); ok {
		p.pos += 3
		return n, true
	}
	return 0, false
}

// atom parses a single number, or (when allowDow) a three-letter weekday
// name, returning the canonical Sun=0 value. Numeric day-of-week atoms
// additionally fold 7 into 0.
func (p *parser) atom(allowDow bool) (uint32, bool) {
	if allowDow {
		if n, ok := p.dayName(); ok {
			return n, true
		}
		if n, ok := p.number(); ok {
			return normalizeDayOfWeek(n), true
		}
		return 0, false
	}
	return p.number()
}

// singleField parses one field expression, trying alternatives in the same
// order as the grammar this is ported from: range, ratio, list, value, any.
func (p *parser) singleField(allowDow bool) (Field, error) {
	start := p.pos

	if f, ok := p.tryRange(allowDow); ok {
		return f, nil
	}
	p.pos = start

	if f, ok := p.tryRatio(); ok {
		return f, nil
	}
	p.pos = start

	if f, ok, err := p.tryList(allowDow); err != nil {
		return nil, err
	} else if ok {
		return f, nil
	}
	p.pos = start

	if n, ok := p.atom(allowDow); ok {
		return Value(n), nil
	}
	p.pos = start

	if p.literal("*") {
		return Any{}, nil
	}
	p.pos = start

	return nil, p.fail("expected a field expression (*, number, range, list, or ratio)")
}

func (p *parser) tryRange(allowDow bool) (Field, bool) {
	start := p.pos
	a, ok := p.atom(allowDow)
	if !ok {
		p.pos = start
		return nil, false
	}
	p.skipSpace()
	if !p.literal("..") {
		p.pos = start
		return nil, false
	}
	p.literal("=") // ".." and "..=" are equivalent
	p.skipSpace()
	b, ok := p.atom(allowDow)
	if !ok {
		p.pos = start
		return nil, false
	}
	return Range{From: a, To: b}, true
}

func (p *parser) tryRatio() (Field, bool) {
	start := p.pos
	if !p.literal("*") {
		p.pos = start
		return nil, false
	}
	p.skipSpace()
	if !p.literal("/") {
		p.pos = start
		return nil, false
	}
	p.skipSpace()
	d, ok := p.number()
	if !ok {
		p.pos = start
		return nil, false
	}
	offset := uint32(0)
	save := p.pos
	p.skipSpace()
	if p.literal("+") {
		p.skipSpace()
		o, ok := p.number()
		if !ok {
			p.pos = save
		} else {
			offset = o
		}
	} else {
		p.pos = save
	}
	return Ratio{Divisor: d, Offset: offset}, true
}

func (p *parser) tryList(allowDow bool) (Field, bool, error) {
	start := p.pos
	if !p.literal("[") {
		p.pos = start
		return nil, false, nil
	}
	p.skipSpace()
	var values []uint32
	for {
		n, ok := p.atom(allowDow)
		if !ok {
			return nil, false, p.fail("expected a list element")
		}
		values = append(values, n)
		p.skipSpace()
		if p.literal(",") {
			p.skipSpace()
			continue
		}
		break
	}
	if !p.literal("]") {
		return nil, false, p.fail("expected ']' to close list")
	}
	return List(values), true, nil
}

// ParseShort parses the short-form pattern "[DOW-LIST] Y-M-D H:M:S", where
// the day-of-week prefix is optional.
func ParseShort(s string) (Pattern, error) {
	p := &parser{input: s}

	dow, err := p.parseOptionalDow()
	if err != nil {
		return Pattern{}, err
	}

	year, month, day, err := p.parseDatePart()
	if err != nil {
		return Pattern{}, err
	}

	if !p.hasSpace() {
		return Pattern{}, p.fail("expected whitespace between date and time")
	}
	p.skipSpace()

	hour, minute, second, err := p.parseHourPart()
	if err != nil {
		return Pattern{}, err
	}

	p.skipSpace()
	if !p.eof() {
		return Pattern{}, p.fail("unexpected trailing input")
	}

	return Pattern{
		Second:    second,
		Minute:    minute,
		Hour:      hour,
		DayOfWeek: dow,
		Day:       day,
		Month:     month,
		Year:      year,
	}, nil
}

func (p *parser) parseOptionalDow() (Field, error) {
	p.skipSpace()
	start := p.pos
	dow, err := p.singleField(true)
	if err != nil {
		p.pos = start
		return Any{}, nil
	}
	afterDow := p.pos
	p.skipSpace()
	if _, _, _, dateErr := p.parseDatePart(); dateErr == nil {
		p.pos = afterDow
		p.skipSpace()
		return dow, nil
	}
	p.pos = start
	return Any{}, nil
}

func (p *parser) parseDatePart() (Field, Field, Field, error) {
	start := p.pos
	year, err := p.singleField(false)
	if err != nil {
		p.pos = start
		return nil, nil, nil, err
	}
	if !p.literal("-") {
		p.pos = start
		return nil, nil, nil, p.fail("expected '-' in date")
	}
	month, err := p.singleField(false)
	if err != nil {
		p.pos = start
		return nil, nil, nil, err
	}
	if !p.literal("-") {
		p.pos = start
		return nil, nil, nil, p.fail("expected '-' in date")
	}
	day, err := p.singleField(false)
	if err != nil {
		p.pos = start
		return nil, nil, nil, err
	}
	return year, month, day, nil
}

func (p *parser) parseHourPart() (Field, Field, Field, error) {
	hour, err := p.singleField(false)
	if err != nil {
		return nil, nil, nil, err
	}
	if !p.literal(":") {
		return nil, nil, nil, p.fail("expected ':' in time")
	}
	minute, err := p.singleField(false)
	if err != nil {
		return nil, nil, nil, err
	}
	if !p.literal(":") {
		return nil, nil, nil, p.fail("expected ':' in time")
	}
	second, err := p.singleField(false)
	if err != nil {
		return nil, nil, nil, err
	}
	return hour, minute, second, nil
}
