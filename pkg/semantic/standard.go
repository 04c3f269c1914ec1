package semantic

import "github.com/gnana997/shapespec/pkg/style"

// Standard returns the map for standard buttons. Names match the token
// export key for key, including "buttonStandardSecoundaryLine", which is
// spelled that way in the export.
func Standard() *Map {
	return NewMap(map[style.Hierarchy]Family{
		style.HierarchyHigh: {
			Background: StateTokens{
				Default:  "buttonStandardHighDefault",
				Hover:    "buttonStandardHighHover",
				Pressed:  "buttonStandardHighPressed",
				Disabled: "buttonStandardHighDisable",
			},
			Label: StateTokens{
				Default:  "buttonStandardHighCont",
				Disabled: "buttonStandardHighContDisable",
			},
			Border:          "buttonStandardHighLine",
			HardwareOutline: "buttonStandardHighHwLine",
		},
		style.HierarchyPrimary: {
			Background: StateTokens{
				Default:  "buttonStandardPrimaryDefault",
				Hover:    "buttonStandardPrimaryHover",
				Pressed:  "buttonStandardPrimaryPressed",
				Disabled: "buttonStandardPrimaryDisable",
			},
			Label: StateTokens{
				Default:  "buttonStandardPrimaryCont",
				Disabled: "buttonStandardPrimaryContDisable",
			},
			Border:          "buttonStandardPrimaryLine",
			HardwareOutline: "buttonStandardPrimaryHwLine",
		},
		style.HierarchySecondary: {
			Background: StateTokens{
				Default:  "buttonStandardSecondaryDefault",
				Hover:    "buttonStandardSecondaryHover",
				Pressed:  "buttonStandardSecondaryPressed",
				Disabled: "buttonStandardSecondaryDisable",
			},
			Label: StateTokens{
				Default:  "buttonStandardSecondaryCont",
				Disabled: "buttonStandardSecondaryContDisable",
			},
			// TODO: switch to "buttonStandardSecondaryLine" once the export fixes the key.
			Border:          "buttonStandardSecoundaryLine",
			HardwareOutline: "buttonStandardSecondaryHwLine",
		},
		style.HierarchyTertiary: {
			Background: StateTokens{
				Default:  "buttonStandardTertiaryDefault",
				Hover:    "buttonStandardTertiaryHover",
				Pressed:  "buttonStandardTertiaryPressed",
				Disabled: "buttonStandardTertiaryDisable",
			},
			Label: StateTokens{
				Default:  "buttonStandardTertiaryCont",
				Disabled: "buttonStandardTertiaryContDisable",
			},
			Border:          "buttonStandardTertiaryLine",
			HardwareOutline: "buttonStandardTertiaryHwLine",
		},
	})
}
