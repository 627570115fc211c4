package admin

var (
	// WidgetForm validates widget create/edit input.
	WidgetForm = FormSchema{Code: "admin.form.widget", Schema: widgetSchema()}
	// ModelForm validates AI model create/edit input.
	ModelForm = FormSchema{Code: "admin.form.ai_model", Schema: modelSchema()}
	// PromptsForm validates the prompt list of a model.
	PromptsForm = FormSchema{Code: "admin.form.prompts", Schema: promptsSchema()}
	// UserForm validates user create/edit input.
	UserForm = FormSchema{Code: "admin.form.user", Schema: userSchema()}
	// RoleForm validates role create/edit input.
	RoleForm = FormSchema{Code: "admin.form.role", Schema: roleSchema()}
	// PermissionForm validates permission create/edit input.
	PermissionForm = FormSchema{Code: "admin.form.permission", Schema: permissionSchema()}
)

func str(minLength int) map[string]any {
	schema := map[string]any{"type": "string"}
	if minLength > 0 {
		schema["minLength"] = minLength
	}
	return schema
}

// singleLine rejects control characters such as newlines and tabs.
func singleLine(minLength int) map[string]any {
	schema := str(minLength)
	schema["pattern"] = `^[^\x00-\x1f\x7f]*$`
	return schema
}

func enum(values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values}
}

func number(min, max float64) map[string]any {
	return map[string]any{"type": "number", "minimum": min, "maximum": max}
}

func integer(min, max int) map[string]any {
	schema := map[string]any{"type": "integer", "minimum": min}
	if max > 0 {
		schema["maximum"] = max
	}
	return schema
}

func stringList() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func widgetSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"name", "status"},
		"properties": map[string]any{
			"name":     singleLine(1),
			"status":   enum(string(WidgetActive), string(WidgetInactive)),
			"ai_model": str(0),
			"settings": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"appearance": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"primary_color":   hexColor(),
							"secondary_color": hexColor(),
							"text_color":      hexColor(),
							"border_radius":   integer(0, 20),
							"position":        enum(widgetPositions...),
							"width":           integer(250, 500),
							"height":          integer(300, 700),
							"font_family":     str(0),
							"icon_type":       enum(widgetIcons...),
						},
					},
					"behavior": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"greeting":          str(0),
							"placeholder":       str(0),
							"response_delay_ms": integer(0, 2000),
						},
					},
					"model": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"model_id":       str(0),
							"temperature":    number(0, 1),
							"max_tokens":     integer(50, 500),
							"context_prompt": str(0),
						},
					},
				},
			},
		},
	}
}

var (
	widgetPositions = []string{"bottom-right", "bottom-left", "top-right", "top-left"}
	widgetIcons     = []string{"chat", "message", "help", "support"}
)

func hexColor() map[string]any {
	return map[string]any{"type": "string", "pattern": "^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"}
}

func modelSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"name", "provider", "version", "description", "parameters", "context_length", "status"},
		"properties": map[string]any{
			"name":         str(2),
			"provider":     str(1),
			"version":      str(1),
			"description":  str(5),
			"capabilities": stringList(),
			"parameters": map[string]any{
				"type":     "object",
				"required": []string{"temperature", "top_p", "frequency_penalty", "presence_penalty"},
				"properties": map[string]any{
					"temperature":       number(0, 1),
					"top_p":             number(0, 1),
					"frequency_penalty": number(0, 2),
					"presence_penalty":  number(0, 2),
				},
			},
			"context_length": integer(1, 0),
			"status":         enum(string(ModelActive), string(ModelInactive), string(ModelDeprecated)),
		},
	}
}

func promptsSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"prompts"},
		"properties": map[string]any{
			"prompts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"name", "content"},
					"properties": map[string]any{
						"id":          str(0),
						"name":        str(1),
						"description": str(0),
						"content":     str(1),
						"category":    str(0),
					},
				},
			},
		},
	}
}

func userSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"name", "email", "status"},
		"properties": map[string]any{
			"name":     str(2),
			"email":    map[string]any{"type": "string", "format": "email"},
			"status":   enum(string(UserActive), string(UserInactive), string(UserPending)),
			"role_ids": stringList(),
		},
	}
}

func roleSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"name"},
		"properties": map[string]any{
			"name":           str(2),
			"description":    str(0),
			"permission_ids": stringList(),
		},
	}
}

func permissionSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"name", "category"},
		"properties": map[string]any{
			"name":        str(2),
			"description": str(0),
			"category":    str(1),
		},
	}
}
