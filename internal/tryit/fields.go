package tryit

import (
	"github.com/feyyazcankose/render-api-docs/internal/model"
	"github.com/feyyazcankose/render-api-docs/internal/schema"
)

type InputType string

const (
	InputText   InputType = "text"
	InputNumber InputType = "number"
	InputSelect InputType = "select"
)

type Choice struct {
	Value    string
	Selected bool
}

// Field is one input of the try-it form.
type Field struct {
	Name        string
	In          model.ParameterLocation
	Type        InputType
	Placeholder string
	Required    bool
	Choices     []Choice
}

// Fields describes the form inputs for op's parameters. Enums become
// selects with the default preselected, numeric types become number inputs,
// and the placeholder is the schema example or default.
func Fields(doc *schema.Document, op *model.Operation) []Field {
	fields := make([]Field, 0, len(op.Parameters))
	for _, p := range op.Parameters {
		node := resolve(doc, p.Schema)

		field := Field{
			Name:     p.Name,
			In:       p.In,
			Type:     InputText,
			Required: p.Required,
		}

		if placeholder, ok := node.Get("example"); ok && placeholder != nil {
			field.Placeholder = schema.Display(placeholder)
		} else if placeholder, ok := node.Get("default"); ok {
			field.Placeholder = schema.Display(placeholder)
		}

		if values := node.Slice("enum"); len(values) > 0 {
			field.Type = InputSelect
			def, hasDefault := node.Get("default")
			for _, v := range values {
				field.Choices = append(field.Choices, Choice{
					Value:    schema.Display(v),
					Selected: hasDefault && schema.Display(def) == schema.Display(v),
				})
			}
		} else if typ, _ := node.String("type"); typ == "integer" || typ == "number" {
			field.Type = InputNumber
		}

		fields = append(fields, field)
	}
	return fields
}

func resolve(doc *schema.Document, node any) *schema.Object {
	target, ok := doc.Deref(node)
	if !ok {
		return schema.NewObject()
	}
	object, ok := target.(*schema.Object)
	if !ok || object == nil {
		return schema.NewObject()
	}
	return object
}
