package tw

import "testing"

func TestParseClassesWithVariants(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		validate func(*testing.T, ComputedStyles)
	}{
		{
			name:  "basic classes without variants",
			input: "bg-blue-500 text-white border-gray-300",
			validate: func(t *testing.T, s ComputedStyles) {
				if s.Base.BackgroundColor == nil || *s.Base.BackgroundColor != 0x3b82f6ff {
					t.Errorf("Base.BackgroundColor = %v, want 0x3b82f6ff", s.Base.BackgroundColor)
				}
				if s.Base.TextColor == nil || *s.Base.TextColor != 0xFFFFFFFF {
					t.Errorf("Base.TextColor = %v, want white", s.Base.TextColor)
				}
				if s.Base.BorderColor == nil {
					t.Error("expected Base.BorderColor to be set")
				}
			},
		},
		{
			name:  "hover variant",
			input: "bg-blue-500 hover:bg-blue-600",
			validate: func(t *testing.T, s ComputedStyles) {
				if s.Hover.BackgroundColor == nil {
					t.Fatal("expected Hover.BackgroundColor to be set")
				}
				if *s.Base.BackgroundColor == *s.Hover.BackgroundColor {
					t.Error("hover color should be different from base")
				}
			},
		},
		{
			name:  "selected and focus variants",
			input: "selected:bg-sky-600 focus:bg-sky-400",
			validate: func(t *testing.T, s ComputedStyles) {
				if s.Selected.BackgroundColor == nil || *s.Selected.BackgroundColor != 0x0284c7ff {
					t.Errorf("Selected.BackgroundColor = %v, want 0x0284c7ff", s.Selected.BackgroundColor)
				}
				if s.Focus.BackgroundColor == nil {
					t.Error("expected Focus.BackgroundColor to be set")
				}
				if s.Base.BackgroundColor != nil {
					t.Error("variants should not touch Base")
				}
			},
		},
		{
			name:  "active and disabled variants",
			input: "active:bg-indigo-700 disabled:bg-gray-400",
			validate: func(t *testing.T, s ComputedStyles) {
				if s.Active.BackgroundColor == nil {
					t.Error("expected Active.BackgroundColor to be set")
				}
				if s.Disabled.BackgroundColor == nil {
					t.Error("expected Disabled.BackgroundColor to be set")
				}
			},
		},
		{
			name:  "dark mode variant",
			input: "bg-white dark:bg-gray-800 dark:hover:bg-gray-700",
			validate: func(t *testing.T, s ComputedStyles) {
				if s.Dark.Base.BackgroundColor == nil {
					t.Error("expected Dark.Base.BackgroundColor to be set")
				}
				if s.Dark.Hover.BackgroundColor == nil {
					t.Error("expected Dark.Hover.BackgroundColor to be set")
				}
				if s.Hover.BackgroundColor != nil {
					t.Error("dark:hover should not set light Hover")
				}
			},
		},
		{
			name:  "last class wins",
			input: "bg-red-500 bg-green-500",
			validate: func(t *testing.T, s ComputedStyles) {
				if s.Base.BackgroundColor == nil || *s.Base.BackgroundColor != 0x22c55eff {
					t.Errorf("Base.BackgroundColor = %v, want green-500", s.Base.BackgroundColor)
				}
			},
		},
		{
			name:  "opacity modifier",
			input: "bg-black/50",
			validate: func(t *testing.T, s ComputedStyles) {
				if s.Base.BackgroundColor == nil || *s.Base.BackgroundColor != 0x00000080 {
					t.Errorf("Base.BackgroundColor = %v, want 0x00000080", s.Base.BackgroundColor)
				}
			},
		},
		{
			name:  "unknown classes are ignored",
			input: "px-4 rounded bg-nope-500",
			validate: func(t *testing.T, s ComputedStyles) {
				if s.Base.BackgroundColor != nil {
					t.Error("expected no background color")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, ParseClasses(tt.input))
		})
	}
}

func TestResolve(t *testing.T) {
	s := ParseClasses("bg-white hover:bg-gray-100 dark:bg-gray-800")

	light := s.Resolve(false)
	if *light.Base.BackgroundColor != 0xFFFFFFFF {
		t.Errorf("light base = %08x, want ffffffff", *light.Base.BackgroundColor)
	}

	dark := s.Resolve(true)
	if *dark.Base.BackgroundColor != 0x1f2937ff {
		t.Errorf("dark base = %08x, want 1f2937ff", *dark.Base.BackgroundColor)
	}
	if *dark.Hover.BackgroundColor != 0xf3f4f6ff {
		t.Errorf("dark hover should keep the light layer, got %08x", *dark.Hover.BackgroundColor)
	}

	if got := s.ResolveState(StateHover, false); *got.BackgroundColor != 0xf3f4f6ff {
		t.Errorf("ResolveState(hover) = %08x, want f3f4f6ff", *got.BackgroundColor)
	}
	if got := s.ResolveState(StateActive, false); *got.BackgroundColor != 0xFFFFFFFF {
		t.Errorf("ResolveState(active) should fall back to base, got %08x", *got.BackgroundColor)
	}
}

func TestSetConfigOverridesPalette(t *testing.T) {
	brand := uint32(0x123456FF)
	SetConfig(ThemeConfig{ClassMap: map[string]PartialStyle{
		"bg-brand": {BackgroundColor: &brand},
	}})
	t.Cleanup(func() { registeredConfig = nil })

	s := ParseClasses("bg-brand hover:bg-white")
	if s.Base.BackgroundColor == nil || *s.Base.BackgroundColor != brand {
		t.Errorf("Base.BackgroundColor = %v, want brand", s.Base.BackgroundColor)
	}
	if s.Hover.BackgroundColor == nil {
		t.Error("palette classes should still resolve")
	}
}

func TestClassMapCompleteness(t *testing.T) {
	for family := range palette {
		for _, shade := range shades {
			for _, prefix := range []string{"bg-", "text-", "border-"} {
				class := prefix + family + "-" + shade
				if _, ok := ClassMap[class]; !ok {
					t.Errorf("missing class %s", class)
				}
			}
		}
	}
	for _, class := range []string{"bg-white", "bg-black", "bg-transparent"} {
		if _, ok := ClassMap[class]; !ok {
			t.Errorf("missing class %s", class)
		}
	}
}

func BenchmarkParseClassesWithVariants(b *testing.B) {
	input := "bg-white dark:bg-gray-800 hover:bg-gray-100 dark:hover:bg-gray-700 active:bg-gray-200 selected:bg-sky-100"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseClasses(input)
	}
}
