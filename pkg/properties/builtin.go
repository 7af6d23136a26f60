package properties

// ContainerDirectives lists the legacy layout directives that always belong
// to the parent container rather than the item itself. Markup attributes with
// these names are routed to a node's container properties.
var ContainerDirectives = []string{"fxFlex", "fxFlexOrder", "fxFlexOffset", "fxFlexAlign", "fxFlexFill"}

// IsContainerDirective reports whether name is one of ContainerDirectives.
func IsContainerDirective(name string) bool {
	for _, directive := range ContainerDirectives {
		if directive == name {
			return true
		}
	}
	return false
}

// ContainerProperties returns the schemas editable on every node's container
// property bag.
func ContainerProperties() []Schema {
	src := containerProperties()
	out := make([]Schema, len(src))
	for idx, schema := range src {
		out[idx] = schema.clone()
	}
	return out
}

func containerProperties() []Schema {
	return []Schema{
		{Name: "fxFlex", Label: "Flex Resizing", Category: CategoryContainer, IsContainerProperty: true},
		{Name: "fxFlexOrder", Label: "Flex Order", Category: CategoryContainer, IsContainerProperty: true},
		{Name: "fxFlexOffset", Label: "Flex Offset", Category: CategoryContainer, IsContainerProperty: true},
		{
			Name: "fxFlexAlign", Label: "Flex Align", Category: CategoryContainer, IsContainerProperty: true,
			Combo: [][]any{{"start", "baseline", "center", "end"}},
		},
		{Name: "fxFlexFill", Label: "Flex Fill", Category: CategoryContainer, IsContainerProperty: true},
		{
			Name: "overflow", Label: "Overflow", Category: CategoryContainer, IsContainerProperty: true,
			Combo: [][]any{{"auto", "hidden", "visible", "unset"}},
		},
	}
}

func option(label string, value any) map[string]any {
	return map[string]any{"label": label, "value": value}
}

func controlProperties() []Schema {
	return []Schema{
		{Name: "width", Label: "Width", Category: CategoryLayout},
		{Name: "height", Label: "Height", Category: CategoryLayout},
		{Name: "min-width", Label: "Min width", Category: CategoryLayout},
		{Name: "min-height", Label: "Min height", Category: CategoryLayout},
		{Name: "margin", Label: "Margin", Category: CategoryLayout},
		{Name: "padding", Label: "Padding", Category: CategoryLayout},
		{Name: "class", Label: "CSS class", Category: CategoryAppearance},

		{
			Name: "fxLayout", Label: "Flex Direction", Category: CategoryMain,
			Combo: [][]any{{option("Row", "row"), option("Column", "column")}},
		},
		{
			Name: "fxLayoutAlign", Label: "Children Align", Category: CategoryMain,
			Combo: [][]any{
				{"start", "center", "end", "space-around", "space-between", "space-evenly"},
				{"start", "center", "end", "space-around", "space-between", "stretch", "baseline"},
			},
		},
		{Name: "fxLayoutGap", Label: "Children Gap", Category: CategoryMain},

		{Name: "label", Label: "Label", Category: CategoryMain},
		{
			Name: "labelPosition", Label: "Label Position", Category: CategoryMain,
			Values: []any{"left", "top", "right", "bottom"},
		},
		{Name: "labelWidth", Label: "Label Width", Category: CategoryLayout},

		{Name: "background", Label: "Background", Category: CategoryAppearance},
		{Name: "color", Label: "Color", Category: CategoryAppearance},
		{
			Name: "font-weight", Label: "Font weight", Category: CategoryAppearance,
			Values: []any{"bold", "bolder", "lighter", 100, 200, 300, 400, 500, 600, 700, 800, 900},
		},
		{
			Name: "font-size", Label: "Font size", Category: CategoryAppearance,
			Values: []any{"large", "larger", "medium", "small", "smaller", "x-large", "xx-large", "x-small", "xx-small"},
		},
		{
			Name: "font-style", Label: "Font style", Category: CategoryAppearance,
			Values: []any{"italic", "oblique", "normal"},
		},
		{
			Name: "border", Label: "Border", Category: CategoryAppearance,
			Combo: [][]any{
				{
					option("all", "border"), option("top", "border-top"), option("left", "border-left"),
					option("right", "border-right"), option("bottom", "border-bottom"),
				},
				{"border-value"},
			},
		},

		{Name: "binding", Label: "Binding", Category: CategoryData, Description: "Data model path the component reads and writes.", Example: "$.name"},
		{Name: "dataSource", Label: "Data Source", Category: CategoryData, Description: "Literal data or a top level data model key."},
		{Name: "dataModelPath", Label: "Data Model Path", Category: CategoryData, Example: "$.name"},
		{Name: "itemsSource", Label: "Items Source", Category: CategoryData, Example: `[{"label": "One", "value": 1}]`},

		{Name: "onInit", Label: "On Init", Category: CategoryEvents},
		{Name: "onDestroy", Label: "On Destroy", Category: CategoryEvents},

		{Name: "required", Label: "Required", Category: CategoryValidation, Values: []any{"true", "false"}},
		{Name: "minlength", Label: "Min length", Category: CategoryValidation},
		{Name: "maxlength", Label: "Max length", Category: CategoryValidation},
		{Name: "pattern", Label: "Pattern", Category: CategoryValidation},
	}
}
