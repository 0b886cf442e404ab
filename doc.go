// Package pressable wires retained buttons to a configuration file.
//
// The widget core lives in the retained package: a Button fires its OnClick
// listeners for primary-button clicks and submits, holds the Pressed state for
// a fade after a submit, then settles back to whatever state it is in when the
// fade ends. This package loads the TOML or YAML configuration that describes
// a set of buttons, builds them on a retained.Loop, and sets up logging.
//
// Hosts that draw the buttons and feed them input live under internal/.
package pressable
