package models

import "strings"

// Valeurs par défaut des champs optionnels vides
const (
	DefaultIndustry = "Unknown"
	DefaultPain     = "scaling efficiently"
	DefaultProduct  = "an AI automation tool that saves time"
)

// Noms des champs tels que postés par le formulaire
const (
	FieldName        = "name"
	FieldCompany     = "company"
	FieldRole        = "role"
	FieldIndustry    = "industry"
	FieldPain        = "pain"
	FieldYourProduct = "yourProduct"
)

// Field décrit un champ du formulaire pour le rendu
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Required    bool
}

// Fields liste les champs dans l'ordre d'affichage
var Fields = []Field{
	{Name: FieldName, Label: "Lead's Name", Placeholder: "e.g. Sarah Johnson", Required: true},
	{Name: FieldCompany, Label: "Company", Placeholder: "e.g. Acme Inc.", Required: true},
	{Name: FieldRole, Label: "Their Role / Title", Placeholder: "e.g. Head of Marketing", Required: true},
	{Name: FieldIndustry, Label: "Industry", Placeholder: "e.g. SaaS, Real Estate"},
	{Name: FieldPain, Label: "Their Pain Point", Placeholder: "e.g. too much time on manual outreach"},
	{Name: FieldYourProduct, Label: "Your Product / Service", Placeholder: "e.g. AI lead generation tool"},
}

// LeadInput contient ce que l'utilisateur a saisi sur le lead
type LeadInput struct {
	Name        string `json:"name"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	Industry    string `json:"industry"`
	Pain        string `json:"pain"`
	YourProduct string `json:"yourProduct"`
}

// Set affecte value au champ nommé ; false si le nom est inconnu
func (l *LeadInput) Set(name, value string) bool {
	switch name {
	case FieldName:
		l.Name = value
	case FieldCompany:
		l.Company = value
	case FieldRole:
		l.Role = value
	case FieldIndustry:
		l.Industry = value
	case FieldPain:
		l.Pain = value
	case FieldYourProduct:
		l.YourProduct = value
	default:
		return false
	}
	return true
}

// Get retourne la valeur brute du champ nommé
func (l LeadInput) Get(name string) string {
	switch name {
	case FieldName:
		return l.Name
	case FieldCompany:
		return l.Company
	case FieldRole:
		return l.Role
	case FieldIndustry:
		return l.Industry
	case FieldPain:
		return l.Pain
	case FieldYourProduct:
		return l.YourProduct
	}
	return ""
}

// HasRequired indique si name, company et role sont renseignés
func (l LeadInput) HasRequired() bool {
	return strings.TrimSpace(l.Name) != "" &&
		strings.TrimSpace(l.Company) != "" &&
		strings.TrimSpace(l.Role) != ""
}

// IndustryOrDefault retourne l'industrie, ou DefaultIndustry si vide
func (l LeadInput) IndustryOrDefault() string { return orDefault(l.Industry, DefaultIndustry) }

// PainOrDefault retourne le point de douleur, ou DefaultPain si vide
func (l LeadInput) PainOrDefault() string { return orDefault(l.Pain, DefaultPain) }

// ProductOrDefault retourne le produit, ou DefaultProduct si vide
func (l LeadInput) ProductOrDefault() string { return orDefault(l.YourProduct, DefaultProduct) }

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
