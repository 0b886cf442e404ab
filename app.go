package pressable

import (
	"fmt"

	"github.com/agiangrant/pressable/retained"
)

// Item is a configured button together with its tint, if it has one.
type Item struct {
	Config ButtonConfig
	Button *retained.Button
	Tint   *retained.ColorTint
}

// App is a loop plus the buttons built on it from a Config.
type App struct {
	Config Config
	Loop   *retained.Loop
	Items  []*Item
}

// NewApp validates config and builds its buttons on a new loop. Buttons are
// registered with the loop's dispatcher in file order, so Tab visits them in
// that order.
func NewApp(config Config) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	app := &App{
		Config: config,
		Loop:   retained.NewLoop(config.Loop.Retained()),
	}
	if len(config.Loop.SubmitKeys) > 0 {
		app.Loop.Events().SetSubmitKeys(config.Loop.SubmitKeys...)
	}
	for _, bc := range config.Buttons {
		item, err := app.build(bc)
		if err != nil {
			return nil, err
		}
		app.Items = append(app.Items, item)
	}
	return app, nil
}

func (a *App) build(bc ButtonConfig) (*Item, error) {
	policy, err := retained.ParseSettlePolicy(bc.SettlePolicy)
	if err != nil {
		return nil, fmt.Errorf("button %q: %w", bc.Label, err)
	}

	item := &Item{Config: bc}
	var vsm retained.VisualStateMachine
	if bc.Transition != "none" {
		item.Tint = retained.NewColorTint(bc.ColorBlock(a.Config.Loop.DarkMode), a.Loop.Animations())
		item.Tint.SetEasing(retained.EasingByName(bc.Easing))
		vsm = item.Tint
	}

	item.Button = retained.NewButton(retained.ButtonConfig{
		Name:         bc.Label,
		FadeDuration: bc.Fade(),
		Policy:       policy,
		Transition:   vsm,
		Tasks:        a.Loop.Tasks(),
	})
	item.Button.SetInteractable(bc.Interactable)
	a.Loop.Events().Register(item.Button)
	return item, nil
}

// Item returns the item whose button is b, or nil.
func (a *App) Item(b *retained.Button) *Item {
	for _, it := range a.Items {
		if it.Button == b {
			return it
		}
	}
	return nil
}

// Selected returns the item holding the dispatcher's selection, or nil.
func (a *App) Selected() *Item {
	if b, ok := a.Loop.Events().SelectedTarget().(*retained.Button); ok {
		return a.Item(b)
	}
	return nil
}
