package models

// FieldView est un champ prêt pour le template
type FieldView struct {
	Field
	Value string
}

// TemplateData est passé au template de la page
type TemplateData struct {
	Fields      []FieldView
	Loading     bool
	Error       string
	Email       string
	Copied      bool
	CopyWarning string
	CSRFField   any
	CSRFToken   string
}

// NewTemplateData construit les données du template à partir de l'état du formulaire
func NewTemplateData(lead LeadInput, state GenerationState, copied bool, copyWarning string) TemplateData {
	fields := make([]FieldView, 0, len(Fields))
	for _, f := range Fields {
		fields = append(fields, FieldView{Field: f, Value: lead.Get(f.Name)})
	}

	data := TemplateData{
		Fields:      fields,
		Loading:     state.IsLoading(),
		Error:       state.Error,
		CopyWarning: copyWarning,
	}
	if state.HasEmail() {
		data.Email = state.Email
		data.Copied = copied
	}
	return data
}

// GenerateResponse est la réponse JSON de POST /generate
type GenerateResponse struct {
	GenerationState
	Copied bool `json:"copied"`
}
