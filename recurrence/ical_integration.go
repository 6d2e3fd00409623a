package recurrence

import (
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

// ConfigToRRule renders cfg as an RRULE property value (without the
// "RRULE:" prefix). TypeNone has no rule and renders as the empty
// string. Quarterly is expressed as FREQ=MONTHLY;INTERVAL=3.
func ConfigToRRule(cfg Config) (string, error) {
	if cfg.Type == TypeNone {
		return "", nil
	}

	// Dtstart stays out of the options: the rendered value is a pure
	// RRULE property value, DTSTART lives in its own property.
	var opt rrule.ROption
	switch cfg.Type {
	case TypeDaily:
		opt.Freq = rrule.DAILY
	case TypeWeekly:
		opt.Freq = rrule.WEEKLY
	case TypeMonthly:
		opt.Freq = rrule.MONTHLY
	case TypeQuarterly:
		opt.Freq = rrule.MONTHLY
		opt.Interval = 3
	default:
		return "", fmt.Errorf("unknown recurrence type %q", cfg.Type)
	}

	if cfg.Until != nil {
		opt.Until = *cfg.Until
	}
	if cfg.Count > 0 {
		opt.Count = cfg.Count
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("failed to build RRULE for type %q: %w", cfg.Type, err)
	}
	return rule.OrigOptions.RRuleString(), nil
}

// ConfigFromComponent extracts a Config from an iCal component's
// DTSTART/DTEND/RRULE properties. Only rules expressible as one of the
// five recurrence types round-trip; anything else (BYDAY, hourly
// frequencies, uneven intervals) is an error, never a silent
// approximation.
func ConfigFromComponent(comp *ical.Component) (Config, error) {
	var cfg Config

	if comp.Props.Get(ical.PropDateTimeStart) == nil {
		return Config{}, fmt.Errorf("component has no DTSTART")
	}
	start, err := comp.Props.DateTime(ical.PropDateTimeStart, nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse DTSTART: %w", err)
	}
	cfg.Start = start

	if comp.Props.Get(ical.PropDateTimeEnd) != nil {
		end, err := comp.Props.DateTime(ical.PropDateTimeEnd, nil)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse DTEND: %w", err)
		}
		cfg.End = &end
	}

	rruleProp := comp.Props.Get(ical.PropRecurrenceRule)
	if rruleProp == nil || rruleProp.Value == "" {
		cfg.Type = TypeNone
		return cfg, nil
	}

	opt, err := rrule.StrToROption(rruleProp.Value)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse RRULE %q: %w", rruleProp.Value, err)
	}

	typ, err := typeFromROption(opt)
	if err != nil {
		return Config{}, err
	}
	cfg.Type = typ

	if !opt.Until.IsZero() {
		until := opt.Until
		cfg.Until = &until
	}
	if opt.Count > 0 {
		cfg.Count = opt.Count
	}

	return cfg, nil
}

func typeFromROption(opt *rrule.ROption) (Type, error) {
	if len(opt.Byweekday) > 0 || len(opt.Bymonthday) > 0 || len(opt.Bymonth) > 0 ||
		len(opt.Byyearday) > 0 || len(opt.Byweekno) > 0 || len(opt.Bysetpos) > 0 {
		return "", fmt.Errorf("RRULE BY* parts are not supported")
	}

	interval := opt.Interval
	if interval == 0 {
		interval = 1
	}

	switch opt.Freq {
	case rrule.DAILY:
		if interval == 1 {
			return TypeDaily, nil
		}
	case rrule.WEEKLY:
		if interval == 1 {
			return TypeWeekly, nil
		}
	case rrule.MONTHLY:
		switch interval {
		case 1:
			return TypeMonthly, nil
		case 3:
			return TypeQuarterly, nil
		}
	}
	return "", fmt.Errorf("unsupported RRULE frequency/interval combination: %s", opt.RRuleString())
}

// InstancesToCalendar materializes instances as a VCALENDAR with one
// VEVENT per instance. Each event gets a fresh UID; summary is applied
// to every event. Instances without an end time become instantaneous
// events (no DTEND), matching how the engine models them.
func InstancesToCalendar(summary string, instances []Instance) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//librecur//Recurrence Engine//EN")

	for _, inst := range instances {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, uuid.NewString())
		event.Props.SetText(ical.PropSummary, summary)
		event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, inst.Start)
		if end, ok := inst.End.Get(); ok {
			event.Props.SetDateTime(ical.PropDateTimeEnd, end)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	return cal
}
