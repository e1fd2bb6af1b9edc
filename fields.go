package authflow

import (
	"sort"

	"github.com/embedid/authflow/schema"
)

// Field is one editable input derived from an authenticator's declared
// parameters. Rendering is external; this is the full contract a renderer
// needs.
type Field struct {
	Name         string
	DisplayName  string
	Type         string
	Required     bool
	Confidential bool
}

// projectFields derives the editable field set for an authenticator. Declared
// params keep their declared order (by Order, then declaration position);
// required params the service did not declare are appended as bare fields.
func projectFields(a *schema.Authenticator) []Field {
	if a == nil {
		return nil
	}
	required := make(map[string]bool, len(a.RequiredParams))
	for _, name := range a.RequiredParams {
		required[name] = true
	}
	fields := make([]Field, 0, len(a.Params))
	declared := make(map[string]bool, len(a.Params))
	for _, param := range a.Params {
		declared[param.Name] = true
		fields = append(fields, Field{
			Name:         param.Name,
			DisplayName:  param.DisplayName,
			Type:         param.Type,
			Required:     required[param.Name],
			Confidential: param.Confidential,
		})
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return paramOrder(a, fields[i].Name) < paramOrder(a, fields[j].Name)
	})
	for _, name := range a.RequiredParams {
		if !declared[name] {
			fields = append(fields, Field{Name: name, Required: true})
		}
	}
	return fields
}

func paramOrder(a *schema.Authenticator, name string) int {
	for _, param := range a.Params {
		if param.Name == name {
			return param.Order
		}
	}
	return 0
}

// missingRequired returns the required params absent or empty in inputs,
// preserving declaration order.
func missingRequired(a *schema.Authenticator, inputs map[string]string) []string {
	var missing []string
	for _, name := range a.RequiredParams {
		if inputs[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
