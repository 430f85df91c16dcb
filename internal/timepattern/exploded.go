package timepattern

import "fmt"

// ExplodedFieldConfig is one field of the exploded record form: a bare
// number, a single-field expression string, or a list of atom strings.
type ExplodedFieldConfig struct {
	Number *uint32
	Text   *string
	List   []string
}

// ExplodedConfig is the named-field record form of a calendar pattern.
// Every field is optional; see ParseExploded for defaults.
type ExplodedConfig struct {
	Second    *ExplodedFieldConfig
	Minute    *ExplodedFieldConfig
	Hour      *ExplodedFieldConfig
	Day       *ExplodedFieldConfig
	Month     *ExplodedFieldConfig
	Year      *ExplodedFieldConfig
	DayOfWeek *ExplodedFieldConfig
}

// ParseExploded builds a Pattern from the named-field record form. Omitted
// Second defaults to Value(0) (forcing on-the-minute firing); every other
// omitted field defaults to Any.
func ParseExploded(cfg ExplodedConfig) (Pattern, error) {
	second, err := explodedField(cfg.Second, false, Value(0))
	if err != nil {
		return Pattern{}, fmt.Errorf("malformed field second: %w", err)
	}
	minute, err := explodedField(cfg.Minute, false, Any{})
	if err != nil {
		return Pattern{}, fmt.Errorf("malformed field minute: %w", err)
	}
	hour, err := explodedField(cfg.Hour, false, Any{})
	if err != nil {
		return Pattern{}, fmt.Errorf("malformed field hour: %w", err)
	}
	day, err := explodedField(cfg.Day, false, Any{})
	if err != nil {
		return Pattern{}, fmt.Errorf("malformed field day: %w", err)
	}
	month, err := explodedField(cfg.Month, false, Any{})
	if err != nil {
		return Pattern{}, fmt.Errorf("malformed field month: %w", err)
	}
	year, err := explodedField(cfg.Year, false, Any{})
	if err != nil {
		return Pattern{}, fmt.Errorf("malformed field year: %w", err)
	}
	dayOfWeek, err := explodedField(cfg.DayOfWeek, true, Any{})
	if err != nil {
		return Pattern{}, fmt.Errorf("malformed field day_of_week: %w", err)
	}

	return Pattern{
		Second:    second,
		Minute:    minute,
		Hour:      hour,
		Day:       day,
		Month:     month,
		Year:      year,
		DayOfWeek: dayOfWeek,
	}, nil
}

func explodedField(cfg *ExplodedFieldConfig, allowDow bool, def Field) (Field, error) {
	if cfg == nil {
		return def, nil
	}
	switch {
	case cfg.Number != nil:
		n := *cfg.Number
		if allowDow {
			n = normalizeDayOfWeek(n)
		}
		return Value(n), nil
	case cfg.Text != nil:
		p := &parser{input: *cfg.Text}
		f, err := p.singleField(allowDow)
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.eof() {
			return nil, p.fail("unexpected trailing input")
		}
		return f, nil
	case cfg.List != nil:
		values := make([]uint32, 0, len(cfg.List))
		for _, s := range cfg.List {
			p := &parser{input: s}
			p.skipSpace()
			n, ok := p.atom(allowDow)
			if !ok {
				return nil, p.fail("expected a list atom")
			}
			p.skipSpace()
			if !p.eof() {
				return nil, p.fail("unexpected trailing input in list atom")
			}
			values = append(values, n)
		}
		return List(values), nil
	default:
		return def, nil
	}
}
