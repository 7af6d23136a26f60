package components

import (
	"fmt"

	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/properties"
	"github.com/goliatone/go-uimodel/pkg/registry"
)

// Component categories.
const (
	CategoryLayout = "Layout"
	CategoryBasic  = "Basic"
	CategoryText   = "Text"
)

// Register adds every core component to reg.
func Register(reg *registry.Registry) error {
	for _, descriptor := range Descriptors() {
		if err := reg.Register(descriptor); err != nil {
			return fmt.Errorf("components: register %s: %w", descriptor.Name, err)
		}
	}
	return nil
}

// NewRegistry returns a registry seeded with the core components.
func NewRegistry(opts ...registry.Option) *registry.Registry {
	reg := registry.New(opts...)
	if err := Register(reg); err != nil {
		panic(err)
	}
	return reg
}

func schema(name, label string, category properties.Category, description, example string) properties.Schema {
	return properties.Schema{Name: name, Label: label, Category: category, Description: description, Example: example}
}

var layoutProps = []properties.Schema{
	{Name: "fxLayout"}, {Name: "fxLayoutAlign"}, {Name: "fxLayoutGap"},
	{Name: "width"}, {Name: "height"}, {Name: "margin"}, {Name: "padding"},
	{Name: "background"}, {Name: "border"}, {Name: "class"},
	{Name: "onInit"}, {Name: "onDestroy"},
}

var bindingProps = []properties.Schema{
	{Name: "binding"}, {Name: "width"}, {Name: "margin"}, {Name: "class"},
	{Name: "required"}, {Name: "onInit"}, {Name: "onDestroy"},
}

func with(base []properties.Schema, extra ...properties.Schema) []properties.Schema {
	out := make([]properties.Schema, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

// Descriptors returns fresh copies of the core descriptors in registration
// order.
func Descriptors() []registry.Descriptor {
	return []registry.Descriptor{
		{
			Name: "section", PackageName: registry.CorePackage, Label: "Section",
			Category: CategoryLayout, Description: "Flex container grouping other components.",
			ItemProperties: layoutProps,
			DefaultMarkup:  `<section fxLayout="column"></section>`,
			DefaultModel:   model.New("section").WithItem("fxLayout", "column"),
			Example: &registry.Example{
				Title:   "Two column section",
				UIModel: `<section fxLayout="row" fxLayoutGap="10px"><text fxFlex="50">Left</text><text fxFlex="50">Right</text></section>`,
			},
		},
		{
			Name: "div", PackageName: registry.CorePackage, Label: "Div",
			Category: CategoryLayout, Description: "Plain block container.",
			ItemProperties: layoutProps,
			DefaultMarkup:  `<div></div>`,
			DefaultModel:   model.New("div"),
		},
		{
			Name: "form", PackageName: registry.CorePackage, Label: "Form",
			Category: CategoryLayout, Description: "Container raising onSubmit.",
			ItemProperties: with(layoutProps,
				schema("onSubmit", "On Submit", properties.CategoryEvents, "Submit handler name.", "saveProfile"),
			),
			DefaultMarkup: `<form fxLayout="column" onSubmit="submit"></form>`,
			DefaultModel:  model.New("form").WithItem("fxLayout", "column").WithItem("onSubmit", "submit"),
		},
		{
			Name: "text", PackageName: registry.CorePackage, Label: "Text",
			Category: CategoryText, Description: "Static or bound text.",
			ItemProperties: []properties.Schema{
				schema("text", "Text", properties.CategoryMain, "Text to display.", "Hello"),
				{Name: "binding"}, {Name: "color"}, {Name: "font-size"}, {Name: "font-weight"}, {Name: "font-style"},
				{Name: "margin"}, {Name: "padding"}, {Name: "class"},
			},
			Parse:         contentAs("text"),
			Children:      registry.ChildPolicy{Mode: registry.ChildrenNone},
			DefaultMarkup: `<text>Text</text>`,
			DefaultModel:  model.New("text").WithItem("text", "Text"),
		},
		{
			Name: "label", PackageName: registry.CorePackage, Label: "Label",
			Category: CategoryText, Description: "Caption for a control.",
			ItemProperties: []properties.Schema{
				{Name: "label"}, {Name: "width"}, {Name: "color"}, {Name: "font-size"}, {Name: "class"},
				schema("for", "For", properties.CategoryMain, "Id of the labelled control.", "email"),
			},
			Parse:         contentAs("label"),
			Children:      registry.ChildPolicy{Mode: registry.ChildrenNone},
			DefaultMarkup: `<label>Label</label>`,
			DefaultModel:  model.New("label").WithItem("label", "Label"),
		},
		{
			Name: "icon", PackageName: registry.CorePackage, Label: "Icon",
			Category: CategoryText, Description: "Named or inline SVG icon.",
			ItemProperties: []properties.Schema{
				schema("name", "Name", properties.CategoryMain, "Icon name.", "home"),
				schema("svg", "SVG", properties.CategoryMain, "Inline SVG markup, sanitised.", `<svg viewBox="0 0 16 16"></svg>`),
				{Name: "width"}, {Name: "height"}, {Name: "color"}, {Name: "class"},
			},
			Parse:         parseIcon,
			Children:      registry.ChildPolicy{Mode: registry.ChildrenNone},
			DefaultMarkup: `<icon>home</icon>`,
			DefaultModel:  model.New("icon").WithItem("name", "home"),
		},
		{
			Name: "input", PackageName: registry.CorePackage, Label: "Input",
			Category: CategoryBasic, Description: "Single line input bound to the data model.",
			ItemProperties: with(bindingProps,
				schema("type", "Type", properties.CategoryMain, "HTML input type.", "number"),
				schema("placeholder", "Placeholder", properties.CategoryMain, "", "Enter value"),
				schema("value", "Value", properties.CategoryData, "Literal value used without a binding.", ""),
				schema("onChange", "On Change", properties.CategoryEvents, "Change handler name.", "nameChanged"),
				properties.Schema{Name: "minlength"}, properties.Schema{Name: "maxlength"}, properties.Schema{Name: "pattern"},
			),
			Children:      registry.ChildPolicy{Mode: registry.ChildrenNone},
			DefaultMarkup: `<input binding="$.value" placeholder="Enter value"></input>`,
			DefaultModel:  model.New("input").WithItem("binding", "$.value").WithItem("placeholder", "Enter value"),
		},
		{
			Name: "text-input", PackageName: registry.CorePackage, Label: "Text Input",
			Category: CategoryBasic, Description: "Labelled text input.",
			ItemProperties: with(bindingProps,
				properties.Schema{Name: "label"}, properties.Schema{Name: "labelPosition"}, properties.Schema{Name: "labelWidth"},
				schema("placeholder", "Placeholder", properties.CategoryMain, "", "Enter name"),
				properties.Schema{Name: "dataModelPath"},
				schema("onChange", "On Change", properties.CategoryEvents, "Change handler name.", "nameChanged"),
			),
			Children:      registry.ChildPolicy{Mode: registry.ChildrenNone},
			DefaultMarkup: `<text-input binding="$.name" placeholder="Enter name"></text-input>`,
			DefaultModel:  model.New("text-input").WithItem("binding", "$.name").WithItem("placeholder", "Enter name"),
			Example: &registry.Example{
				Title:     "Bound text input",
				UIModel:   `<text-input binding="$.name" placeholder="Enter name" onChange="nameChanged"/>`,
				DataModel: map[string]any{"name": "Ada"},
				Scripts:   "nameChanged:\n  - copy: {from: $.name, to: $.greeting}\n",
			},
		},
		{
			Name: "checkbox", PackageName: registry.CorePackage, Label: "Checkbox",
			Category: CategoryBasic, Description: "Boolean toggle.",
			ItemProperties: with(bindingProps,
				properties.Schema{Name: "label"},
				schema("onChange", "On Change", properties.CategoryEvents, "Change handler name.", "toggled"),
			),
			Parse:         contentAs("label"),
			Children:      registry.ChildPolicy{Mode: registry.ChildrenNone},
			DefaultMarkup: `<checkbox binding="$.enabled">Enabled</checkbox>`,
			DefaultModel:  model.New("checkbox").WithItem("binding", "$.enabled").WithItem("label", "Enabled"),
		},
		{
			Name: "radio-group", PackageName: registry.CorePackage, Label: "Radio Group",
			Category: CategoryBasic, Description: "Exclusive choice between options.",
			ItemProperties: with(bindingProps,
				properties.Schema{Name: "itemsSource"},
				properties.Schema{Name: "fxLayout"},
				schema("onChange", "On Change", properties.CategoryEvents, "Change handler name.", "choiceChanged"),
			),
			Parse: parseRadioGroup,
			Children: registry.ChildPolicy{
				Mode: registry.ChildrenTagged, Tag: "radio",
				Properties: []properties.Schema{{Name: "value", Label: "Option value"}},
			},
			DefaultMarkup: `<radio-group binding="$.choice"><radio value="a">A</radio><radio value="b">B</radio></radio-group>`,
			DefaultModel: model.New("radio-group").WithItem("binding", "$.choice").WithItem("itemsSource", []any{
				map[string]any{"label": "A", "value": "a"},
				map[string]any{"label": "B", "value": "b"},
			}),
		},
		{
			Name: "textarea", PackageName: registry.CorePackage, Label: "Text Area",
			Category: CategoryBasic, Description: "Multi line text input.",
			ItemProperties: with(bindingProps,
				schema("rows", "Rows", properties.CategoryLayout, "Visible text lines.", "5"),
				schema("readonly", "Read only", properties.CategoryMain, "", "true"),
				properties.Schema{Name: "placeholder", Label: "Placeholder", Category: properties.CategoryMain},
			),
			Parse:         parseTextarea,
			Children:      registry.ChildPolicy{Mode: registry.ChildrenNone},
			DefaultMarkup: `<textarea binding="$.info" rows="5"></textarea>`,
			DefaultModel: model.New("textarea").WithItem("binding", "$.info").WithItem("rows", "5").
				WithItem("readonly", false),
		},
		{
			Name: "button", PackageName: registry.CorePackage, Label: "Button",
			Category: CategoryBasic, Description: "Button component",
			ItemProperties: []properties.Schema{
				{Name: "label"}, {Name: "width"}, {Name: "margin"}, {Name: "padding"}, {Name: "class"},
				schema("btnClass", "Button class", properties.CategoryAppearance, "", "btn-primary"),
				schema("type", "Type", properties.CategoryMain, "HTML button type.", "submit"),
				schema("onClick", "On Click", properties.CategoryEvents, "Click handler name.", "save"),
			},
			PropertyExtensions: []properties.Schema{
				{Name: "type", Label: "Type", Category: properties.CategoryMain, Combo: [][]any{{"button", "submit", "reset"}}},
			},
			Parse:         contentAs("label"),
			Children:      registry.ChildPolicy{Mode: registry.ChildrenNone},
			DefaultMarkup: `<button btnClass="btn-primary" type="button" onClick="consoleLog">Label</button>`,
			DefaultModel: model.New("button").WithItem("label", "Label").WithItem("onClick", "consoleLog").
				WithItem("btnClass", "btn-primary").WithItem("type", "button"),
			Example: &registry.Example{
				Title:   "Basic button example",
				UIModel: `<button class="btn btn-primary" width="50%" margin="15px" onClick="consoleLog" type="button">Click</button>`,
				Scripts: "consoleLog:\n  - alert: clicked\n",
			},
		},
		{
			Name: "link", PackageName: registry.CorePackage, Label: "Link",
			Category: CategoryText, Description: "Hyperlink.",
			ItemProperties: []properties.Schema{
				{Name: "label"},
				schema("href", "Href", properties.CategoryMain, "Target URL.", "https://example.com"),
				schema("target", "Target", properties.CategoryMain, "", "_blank"),
				{Name: "color"}, {Name: "class"},
			},
			Parse:         contentAs("label"),
			Children:      registry.ChildPolicy{Mode: registry.ChildrenNone},
			DefaultMarkup: `<link href="#">Link</link>`,
			DefaultModel:  model.New("link").WithItem("href", "#").WithItem("label", "Link"),
		},
		{
			Name: "select", PackageName: registry.CorePackage, Label: "UI Select Input",
			Category: CategoryBasic, Description: "Select component",
			ItemProperties: with(bindingProps,
				schema("itemsSource", "Items Source", properties.CategoryData, "Select options or binding to dataModel.", `[{"label": "One", "value": 1}]`),
				schema("selectHeight", "Select Height", properties.CategoryLayout, "Select height.", "30px"),
				schema("onSelect", "On Select", properties.CategoryEvents, "On Select handler name.", "onCountrySelect"),
			),
			PropertyExtensions: []properties.Schema{
				{Name: "selectHeight", Label: "Select Height", Category: properties.CategoryLayout},
			},
			Parse: parseSelect,
			Children: registry.ChildPolicy{
				Mode: registry.ChildrenTagged, Tag: "option",
				Properties: []properties.Schema{{Name: "value", Label: "Option value"}},
			},
			DefaultMarkup: `<select width="100px" itemsSource="$.list" binding="$.value"></select>`,
			DefaultModel: model.New("select").WithItem("width", "100px").WithItem("itemsSource", "$.list").
				WithItem("binding", "$.value"),
			Example: &registry.Example{
				Title: "Basic select example",
				UIModel: `<section fxLayout="column">
  <label width="60px">Country</label>
  <select onSelect="countryChanged" width="300px" binding="$.country">
    <option value="uk">United Kingdom</option>
    <option value="ua">Ukraine</option>
  </select>
  <label width="60px">City</label>
  <select width="300px" itemsSource="$.cities" binding="$.city"/>
</section>`,
				DataModel: map[string]any{},
				Scripts: `countryChanged:
  - set: {path: $.city, value: null}
  - if: dataModel.country == "uk"
    then:
      - set: {path: $.cities, value: [{label: London, value: lon}, {label: Liverpool, value: liv}]}
  - if: dataModel.country == "ua"
    then:
      - set: {path: $.cities, value: [{label: Kyiv, value: kyiv}, {label: Lviv, value: lvi}]}
`,
			},
		},
	}
}
