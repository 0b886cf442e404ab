package tw

import (
	"fmt"
	"strconv"
	"strings"
)

// State represents widget interaction state
type State int

const (
	StateDefault State = iota
	StateHover
	StateFocus
	StateActive
	StateSelected
	StateDisabled
)

// StyleProperties represents concrete style values
type StyleProperties struct {
	TextColor       *uint32
	BackgroundColor *uint32
	BorderColor     *uint32
}

// StateStyles holds one StyleProperties bucket per interaction state.
type StateStyles struct {
	Base     StyleProperties
	Hover    StyleProperties
	Focus    StyleProperties
	Active   StyleProperties
	Selected StyleProperties
	Disabled StyleProperties
}

// ComputedStyles is the result of parsing a class string.
type ComputedStyles struct {
	StateStyles

	// Dark mode variants
	Dark StateStyles
}

// ParsedClass represents a class with its variant modifiers
type ParsedClass struct {
	State          State
	DarkMode       bool
	BaseClass      string
	ArbitraryValue *ArbitraryValue // For arbitrary values like bg-[#1da1f2]
	Opacity        *float64        // For opacity modifiers like bg-sky-500/50
}

// ArbitraryValue represents a runtime-parsed arbitrary value
type ArbitraryValue struct {
	Property string // e.g., "bg", "text", "border"
	Value    string // e.g., "#1da1f2"
}

// ParseClasses parses a Tailwind class string and returns computed styles.
// Unknown classes are ignored.
// Example: "bg-blue-500 hover:bg-blue-600 dark:bg-slate-800 selected:bg-[#1da1f2]"
func ParseClasses(classStr string) ComputedStyles {
	var computed ComputedStyles

	for _, class := range strings.Fields(classStr) {
		parsed := parseClass(class)

		var partial PartialStyle
		if parsed.ArbitraryValue != nil {
			partial = parseArbitraryValue(parsed.ArbitraryValue)
		} else {
			var ok bool
			partial, ok = lookupClass(parsed.BaseClass)
			if !ok {
				continue
			}
		}
		if parsed.Opacity != nil {
			partial = withOpacity(partial, *parsed.Opacity)
		}

		target := getTargetProperties(&computed, parsed)
		target.Merge(partial)
	}

	return computed
}

// parseClass splits a class into variant modifiers and base utility
// "hover:dark:bg-blue-500" → ParsedClass{State: Hover, DarkMode: true, BaseClass: "bg-blue-500"}
// "bg-[#1da1f2]" → ParsedClass{ArbitraryValue: {Property: "bg", Value: "#1da1f2"}}
func parseClass(class string) ParsedClass {
	parts := strings.Split(class, ":")

	pc := ParsedClass{
		State:     StateDefault,
		BaseClass: parts[len(parts)-1], // Last part is always the base utility
	}

	for _, variant := range parts[:len(parts)-1] {
		switch variant {
		case "hover":
			pc.State = StateHover
		case "focus", "focus-visible":
			pc.State = StateFocus
		case "active":
			pc.State = StateActive
		case "selected", "aria-selected":
			pc.State = StateSelected
		case "disabled":
			pc.State = StateDisabled
		case "dark":
			pc.DarkMode = true
		}
	}

	// Opacity modifier: bg-sky-500/50
	if i := strings.LastIndex(pc.BaseClass, "/"); i > 0 && !strings.HasSuffix(pc.BaseClass, "]") {
		if pct, err := strconv.Atoi(pc.BaseClass[i+1:]); err == nil && pct >= 0 && pct <= 100 {
			o := float64(pct) / 100
			pc.Opacity = &o
			pc.BaseClass = pc.BaseClass[:i]
		}
	}

	// Check if base class is an arbitrary value: property-[value]
	if strings.Contains(pc.BaseClass, "[") && strings.HasSuffix(pc.BaseClass, "]") {
		pc.ArbitraryValue = extractArbitraryValue(pc.BaseClass)
		pc.BaseClass = ""
	}

	return pc
}

// extractArbitraryValue parses arbitrary value syntax
// "bg-[#1da1f2]" → ArbitraryValue{Property: "bg", Value: "#1da1f2"}
func extractArbitraryValue(class string) *ArbitraryValue {
	bracketIdx := strings.Index(class, "[")
	if bracketIdx == -1 {
		return nil
	}

	return &ArbitraryValue{
		Property: strings.TrimSuffix(class[:bracketIdx], "-"),
		Value:    strings.TrimSuffix(class[bracketIdx+1:], "]"),
	}
}

// parseArbitraryValue converts arbitrary value to PartialStyle at runtime
func parseArbitraryValue(arb *ArbitraryValue) PartialStyle {
	var partial PartialStyle
	color := parseColor(arb.Value)
	if color == nil {
		return partial
	}
	switch arb.Property {
	case "bg":
		partial.BackgroundColor = color
	case "text":
		partial.TextColor = color
	case "border":
		partial.BorderColor = color
	}
	return partial
}

// ParseColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA" into RGBA.
func ParseColor(value string) (uint32, error) {
	if c := parseColor(value); c != nil {
		return *c, nil
	}
	return 0, fmt.Errorf("tw: invalid color %q", value)
}

// parseColor parses hex color values
func parseColor(value string) *uint32 {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "#") {
		return nil
	}
	hex := value[1:]

	// Expand shorthand: #RGB → #RRGGBB
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil
	}
	color := uint32(v)
	return &color
}

func withOpacity(p PartialStyle, o float64) PartialStyle {
	apply := func(c *uint32) *uint32 {
		if c == nil {
			return nil
		}
		v := *c&0xFFFFFF00 | uint32(float64(*c&0xFF)*o+0.5)
		return &v
	}
	return PartialStyle{
		TextColor:       apply(p.TextColor),
		BackgroundColor: apply(p.BackgroundColor),
		BorderColor:     apply(p.BorderColor),
	}
}

// getTargetProperties returns the appropriate StyleProperties to apply to
func getTargetProperties(computed *ComputedStyles, parsed ParsedClass) *StyleProperties {
	bucket := &computed.StateStyles
	if parsed.DarkMode {
		bucket = &computed.Dark
	}
	return bucket.forState(parsed.State)
}

func (s *StateStyles) forState(state State) *StyleProperties {
	switch state {
	case StateHover:
		return &s.Hover
	case StateFocus:
		return &s.Focus
	case StateActive:
		return &s.Active
	case StateSelected:
		return &s.Selected
	case StateDisabled:
		return &s.Disabled
	default:
		return &s.Base
	}
}

// Resolve returns each state's own layer. With darkMode set, dark: variants
// override the matching light layer. Layers are not merged with Base.
func (cs ComputedStyles) Resolve(darkMode bool) StateStyles {
	result := cs.StateStyles
	if !darkMode {
		return result
	}
	for _, st := range []State{StateDefault, StateHover, StateFocus, StateActive, StateSelected, StateDisabled} {
		result.forState(st).merge(cs.Dark.forState(st))
	}
	return result
}

// ResolveState returns Base with the state's layer applied on top.
func (cs ComputedStyles) ResolveState(state State, darkMode bool) StyleProperties {
	layers := cs.Resolve(darkMode)
	result := layers.Base
	if state != StateDefault {
		result.merge(layers.forState(state))
	}
	return result
}

// Merge merges a PartialStyle into these StyleProperties
// Later values override earlier ones (last class wins)
func (s *StyleProperties) Merge(p PartialStyle) {
	s.merge(&StyleProperties{
		TextColor:       p.TextColor,
		BackgroundColor: p.BackgroundColor,
		BorderColor:     p.BorderColor,
	})
}

func (s *StyleProperties) merge(src *StyleProperties) {
	if src.TextColor != nil {
		s.TextColor = src.TextColor
	}
	if src.BackgroundColor != nil {
		s.BackgroundColor = src.BackgroundColor
	}
	if src.BorderColor != nil {
		s.BorderColor = src.BorderColor
	}
}
