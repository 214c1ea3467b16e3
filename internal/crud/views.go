package crud

// The types below are what the shared entity templates render. They carry
// no type parameter so one template serves every resource.

// ListView is the data of pages/entity_list.html.
type ListView struct {
	Title    string
	BasePath string
	Headers  []string
	Rows     []RowView
	Empty    string
	// Loaded is false when the collection could not be fetched; the empty
	// row is then suppressed.
	Loaded  bool
	Failure string
	Notice  string
}

// RowView is one table row.
type RowView struct {
	Key   string
	Cells []string
}

// FormView is the data of pages/entity_form.html.
type FormView struct {
	Title   string
	Action  string
	Cancel  string
	Create  bool
	Fields  []FieldView
	Failure string
}

// FieldView is one rendered input.
type FieldView struct {
	Field
	Value    string
	Error    string
	Disabled bool
	Checked  bool
	Choices  []Choice
}

// InputType maps the field kind to an HTML input type.
func (f FieldView) InputType() string {
	switch f.Kind {
	case KindNumber:
		return "number"
	case KindEmail:
		return "email"
	case KindPassword:
		return "password"
	case KindCheckbox:
		return "checkbox"
	default:
		return "text"
	}
}

// IsSelect reports whether the field renders as a select.
func (f FieldView) IsSelect() bool { return f.Kind == KindSelect }

// IsDisplay reports whether the field is read-only text.
func (f FieldView) IsDisplay() bool { return f.Kind == KindDisplay }

// DeleteView is the data of pages/entity_delete.html.
type DeleteView struct {
	Title   string
	Key     string
	Label   string
	Value   string
	Prompt  string
	Action  string
	Cancel  string
	Failure string
}

func (s *Screen[T]) view() ListView {
	res := s.resource
	v := ListView{
		Title:    res.Title,
		BasePath: res.BasePath(),
		Empty:    res.Messages.Empty,
		Loaded:   s.loaded,
		Failure:  s.Failure,
		Notice:   s.Notice,
	}
	for _, col := range res.Columns {
		v.Headers = append(v.Headers, col.Header)
	}
	for _, item := range s.Items {
		row := RowView{Key: res.Key(item)}
		for _, col := range res.Columns {
			row.Cells = append(row.Cells, col.Value(item))
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

func (f *Form[T]) view(choices map[string][]Choice) FormView {
	res := f.resource
	v := FormView{
		Cancel:  res.BasePath(),
		Create:  f.Mode == ModeCreate,
		Failure: f.Failure,
	}
	if v.Create {
		v.Title = "Cadastrar " + res.Singular
		v.Action = res.BasePath()
	} else {
		v.Title = "Editar " + res.Singular
		v.Action = res.BasePath() + "/" + f.Key
	}
	for _, field := range res.Fields {
		if field.CreateOnly && !v.Create {
			continue
		}
		if field.Kind == KindDisplay && v.Create {
			continue
		}
		fv := FieldView{
			Field:    field,
			Value:    f.Values[field.Name],
			Error:    f.Errors[field.Name],
			Disabled: field.Identity && !v.Create,
			Choices:  choices[field.Name],
		}
		if field.Kind == KindPassword {
			fv.Value = ""
		}
		if field.Kind == KindCheckbox {
			fv.Checked = isChecked(fv.Value)
		}
		v.Fields = append(v.Fields, fv)
	}
	return v
}

func isChecked(raw string) bool {
	switch raw {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Checked reads a checkbox value from v.
func (v Values) Checked(name string) bool {
	return isChecked(v[name])
}

// Colspan spans the data columns plus the actions column.
func (v ListView) Colspan() int {
	return len(v.Headers) + 1
}
