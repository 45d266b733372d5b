package service

import "leadmail/models"

// SystemPrompt fixe le rôle du copywriter et le format "Subject: ...\n\n<corps>"
const SystemPrompt = "You are an expert cold email copywriter. Write short, personalized, high-converting cold emails. " +
	"Max 5 sentences. Sound human, not salesy. Reference something specific about their company or role. " +
	"End with a soft CTA like Worth a quick chat. " +
	"Format: Subject: your subject line, then a blank line, then the email body."

// BuildPrompt construit les messages system et user pour un lead.
// Les valeurs sont insérées telles quelles ; les champs optionnels vides prennent leur défaut.
func BuildPrompt(lead models.LeadInput) (system, user string) {
	user = "Lead Info:\n" +
		"- Name: " + lead.Name + "\n" +
		"- Company: " + lead.Company + "\n" +
		"- Role: " + lead.Role + "\n" +
		"- Industry: " + lead.IndustryOrDefault() + "\n" +
		"- Their likely pain point: " + lead.PainOrDefault() + "\n" +
		"- My product/service: " + lead.ProductOrDefault() + "\n" +
		"\nWrite the cold email now."
	return SystemPrompt, user
}
