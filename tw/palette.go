package tw

// shades lists palette steps in the order the hex tables below use.
var shades = [...]string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900", "950"}

// palette holds the built-in color families as 0xRRGGBB.
var palette = map[string][11]uint32{
	"slate":  {0xf8fafc, 0xf1f5f9, 0xe2e8f0, 0xcbd5e1, 0x94a3b8, 0x64748b, 0x475569, 0x334155, 0x1e293b, 0x0f172a, 0x020617},
	"gray":   {0xf9fafb, 0xf3f4f6, 0xe5e7eb, 0xd1d5db, 0x9ca3af, 0x6b7280, 0x4b5563, 0x374151, 0x1f2937, 0x111827, 0x030712},
	"red":    {0xfef2f2, 0xfee2e2, 0xfecaca, 0xfca5a5, 0xf87171, 0xef4444, 0xdc2626, 0xb91c1c, 0x991b1b, 0x7f1d1d, 0x450a0a},
	"amber":  {0xfffbeb, 0xfef3c7, 0xfde68a, 0xfcd34d, 0xfbbf24, 0xf59e0b, 0xd97706, 0xb45309, 0x92400e, 0x78350f, 0x451a03},
	"green":  {0xf0fdf4, 0xdcfce7, 0xbbf7d0, 0x86efac, 0x4ade80, 0x22c55e, 0x16a34a, 0x15803d, 0x166534, 0x14532d, 0x052e16},
	"sky":    {0xf0f9ff, 0xe0f2fe, 0xbae6fd, 0x7dd3fc, 0x38bdf8, 0x0ea5e9, 0x0284c7, 0x0369a1, 0x075985, 0x0c4a6e, 0x082f49},
	"blue":   {0xeff6ff, 0xdbeafe, 0xbfdbfe, 0x93c5fd, 0x60a5fa, 0x3b82f6, 0x2563eb, 0x1d4ed8, 0x1e40af, 0x1e3a8a, 0x172554},
	"indigo": {0xeef2ff, 0xe0e7ff, 0xc7d2fe, 0xa5b4fc, 0x818cf8, 0x6366f1, 0x4f46e5, 0x4338ca, 0x3730a3, 0x312e81, 0x1e1b4b},
}

// ClassMap is the built-in utility table: bg-, text- and border- for every
// palette color plus white, black and transparent.
var ClassMap = buildClassMap()

func buildClassMap() map[string]PartialStyle {
	colors := map[string]uint32{
		"white":       0xFFFFFFFF,
		"black":       0x000000FF,
		"transparent": 0x00000000,
	}
	for family, hexes := range palette {
		for i, shade := range shades {
			colors[family+"-"+shade] = hexes[i]<<8 | 0xFF
		}
	}

	m := make(map[string]PartialStyle, len(colors)*3)
	for name, c := range colors {
		bg, text, border := c, c, c
		m["bg-"+name] = PartialStyle{BackgroundColor: &bg}
		m["text-"+name] = PartialStyle{TextColor: &text}
		m["border-"+name] = PartialStyle{BorderColor: &border}
	}
	return m
}
