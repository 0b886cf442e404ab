package tw

// PartialStyle represents a partial style that can be merged.
// Used in ClassMap for individual utility class definitions.
type PartialStyle struct {
	TextColor       *uint32
	BackgroundColor *uint32
	BorderColor     *uint32
}

// ThemeConfig holds the consumer's theme configuration.
// This is registered via SetConfig() at app startup.
type ThemeConfig struct {
	// ClassMap adds or overrides utility classes. Classes not listed fall
	// back to the built-in palette.
	ClassMap map[string]PartialStyle
}

// registeredConfig holds the consumer's theme configuration.
// If nil, only the built-in palette is used.
var registeredConfig *ThemeConfig

// SetConfig registers the consumer's theme configuration.
// This should be called at app startup before any parsing occurs.
func SetConfig(config ThemeConfig) {
	registeredConfig = &config
}

// lookupClass resolves a utility class against the registered theme first,
// then the built-in palette.
func lookupClass(class string) (PartialStyle, bool) {
	if registeredConfig != nil {
		if p, ok := registeredConfig.ClassMap[class]; ok {
			return p, true
		}
	}
	p, ok := ClassMap[class]
	return p, ok
}
