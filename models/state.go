package models

// Status est la phase d'une tentative de génération
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// GenerationState vaut Idle, Loading, Success(Email) ou Failed(Error).
// Error n'est rempli qu'en Failed. Un Failed garde l'Email du dernier succès
// quand l'échec survient avant tout envoi de requête.
type GenerationState struct {
	Status Status `json:"status"`
	Email  string `json:"email,omitempty"`
	Error  string `json:"error,omitempty"`
}

func Idle() GenerationState    { return GenerationState{Status: StatusIdle} }
func Loading() GenerationState { return GenerationState{Status: StatusLoading} }

func Success(text string) GenerationState {
	return GenerationState{Status: StatusSuccess, Email: text}
}

func Failed(message string) GenerationState {
	return GenerationState{Status: StatusFailed, Error: message}
}

func (s GenerationState) IsLoading() bool { return s.Status == StatusLoading }

// HasEmail indique s'il y a un email généré à afficher
func (s GenerationState) HasEmail() bool {
	return s.Status != StatusLoading && s.Email != ""
}
