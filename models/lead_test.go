package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadmail/models"
)

func TestLeadInputSetGet(t *testing.T) {
	t.Parallel()

	var lead models.LeadInput
	for _, f := range models.Fields {
		require.True(t, lead.Set(f.Name, "v-"+f.Name))
	}
	for _, f := range models.Fields {
		assert.Equal(t, "v-"+f.Name, lead.Get(f.Name))
	}

	assert.False(t, lead.Set("email", "x"))
	assert.Empty(t, lead.Get("email"))
}

func TestLeadInputHasRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lead models.LeadInput
		want bool
	}{
		{"all set", models.LeadInput{Name: "Sarah", Company: "Acme", Role: "CMO"}, true},
		{"missing name", models.LeadInput{Company: "Acme", Role: "CMO"}, false},
		{"blank company", models.LeadInput{Name: "Sarah", Company: "  \t", Role: "CMO"}, false},
		{"blank role", models.LeadInput{Name: "Sarah", Company: "Acme", Role: "\n"}, false},
		{"only optionals", models.LeadInput{Industry: "SaaS", Pain: "churn", YourProduct: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lead.HasRequired())
		})
	}
}

func TestLeadInputDefaults(t *testing.T) {
	t.Parallel()

	blank := models.LeadInput{Industry: " ", Pain: "", YourProduct: "\t"}
	assert.Equal(t, "Unknown", blank.IndustryOrDefault())
	assert.Equal(t, "scaling efficiently", blank.PainOrDefault())
	assert.Equal(t, "an AI automation tool that saves time", blank.ProductOrDefault())

	set := models.LeadInput{Industry: "SaaS", Pain: "churn", YourProduct: "CRM"}
	assert.Equal(t, "SaaS", set.IndustryOrDefault())
	assert.Equal(t, "churn", set.PainOrDefault())
	assert.Equal(t, "CRM", set.ProductOrDefault())
}

func TestFieldsOrderAndRequired(t *testing.T) {
	t.Parallel()

	names := make([]string, 0, len(models.Fields))
	var required []string
	for _, f := range models.Fields {
		names = append(names, f.Name)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	assert.Equal(t, []string{"name", "company", "role", "industry", "pain", "yourProduct"}, names)
	assert.Equal(t, []string{"name", "company", "role"}, required)
}

func TestNewTemplateData(t *testing.T) {
	t.Parallel()

	lead := models.LeadInput{Name: "Sarah"}

	data := models.NewTemplateData(lead, models.Success("Subject: Hi\n\nBody"), true, "")
	require.Len(t, data.Fields, 6)
	assert.Equal(t, "Sarah", data.Fields[0].Value)
	assert.Equal(t, "Subject: Hi\n\nBody", data.Email)
	assert.True(t, data.Copied)
	assert.False(t, data.Loading)

	data = models.NewTemplateData(lead, models.Failed("Error: boom"), true, "")
	assert.Empty(t, data.Email)
	assert.False(t, data.Copied)
	assert.Equal(t, "Error: boom", data.Error)

	data = models.NewTemplateData(lead, models.Loading(), false, "")
	assert.True(t, data.Loading)
	assert.Empty(t, data.Email)
}
