package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"leadmail/clipboard"
	"leadmail/logger"
	"leadmail/models"
)

// Snapshot est une copie cohérente de l'état du formulaire, pour le rendu
type Snapshot struct {
	Lead        models.LeadInput
	State       models.GenerationState
	Copied      bool
	CopyWarning string
}

// TemplateData convertit le snapshot en données de page
func (s Snapshot) TemplateData() models.TemplateData {
	return models.NewTemplateData(s.Lead, s.State, s.Copied, s.CopyWarning)
}

// Form est le générateur d'email d'une session : le lead en cours de saisie,
// l'état de génération et le presse-papiers.
//
// Le mutex n'est jamais tenu pendant la requête de complétion.
type Form struct {
	completer Completer
	copier    *clipboard.Copier
	log       *slog.Logger

	mu          sync.Mutex
	lead        models.LeadInput
	state       models.GenerationState
	copyWarning string
}

// NewForm crée un formulaire à l'état Idle
func NewForm(completer Completer, copier *clipboard.Copier, log *slog.Logger) *Form {
	if copier == nil {
		copier = clipboard.NewCopier(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Form{
		completer: completer,
		copier:    copier,
		log:       log.With(logger.Component("form")),
		state:     models.Idle(),
	}
}

// UpdateField modifie un champ du lead, sans toucher à l'état de génération
func (f *Form) UpdateField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.lead.Set(name, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Validate vérifie les champs obligatoires du lead
func (f *Form) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return validate(f.lead)
}

func validate(lead models.LeadInput) error {
	if !lead.HasRequired() {
		return &ValidationError{Message: MsgMissingRequired}
	}
	return nil
}

// Generate lance une tentative de génération et retourne l'état obtenu.
//
// Si la validation échoue, l'état passe à Failed sans appel réseau et l'email
// affiché reste. Sinon le formulaire passe à Loading (email et erreur effacés),
// fait exactement une requête de complétion et finit en Success ou Failed.
// ErrInFlight est retourné, état inchangé, si une tentative est encore en cours.
func (f *Form) Generate(ctx context.Context) (models.GenerationState, error) {
	f.mu.Lock()
	if f.state.IsLoading() {
		state := f.state
		f.mu.Unlock()
		return state, ErrInFlight
	}
	if err := validate(f.lead); err != nil {
		failed := models.Failed(FailureMessage(err))
		failed.Email = f.state.Email
		f.state = failed
		state := f.state
		f.mu.Unlock()
		return state, nil
	}
	f.state = models.Loading()
	f.copyWarning = ""
	lead := f.lead
	f.mu.Unlock()

	// Une requête envoyée va jusqu'au bout : seul le timeout du client HTTP la borne.
	ctx = context.WithoutCancel(ctx)

	completed := false
	defer func() {
		if completed {
			return
		}
		f.mu.Lock()
		f.state = models.Failed(FailureMessage(ErrAborted))
		f.mu.Unlock()
	}()

	system, user := BuildPrompt(lead)
	text, err := f.completer.Generate(ctx, system, user)
	completed = true

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.log.WarnContext(ctx, "generation failed", logger.Error(err))
		f.state = models.Failed(FailureMessage(err))
	} else {
		f.state = models.Success(text)
	}
	return f.state, nil
}

// Copy copie l'email généré dans le presse-papiers. Un échec est gardé comme
// avertissement séparé et retourné ; l'email reste affiché.
func (f *Form) Copy(ctx context.Context) error {
	f.mu.Lock()
	if !f.state.HasEmail() {
		f.mu.Unlock()
		return ErrNothingToCopy
	}
	text := f.state.Email
	f.mu.Unlock()

	err := f.copier.Copy(text)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.log.WarnContext(ctx, "copy to clipboard failed", logger.Error(err))
		f.copyWarning = err.Error()
		return err
	}
	f.copyWarning = ""
	return nil
}

// Copied indique si une copie vient d'avoir lieu
func (f *Form) Copied() bool {
	return f.copier.Copied()
}

// Snapshot retourne l'état courant
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Lead:        f.lead,
		State:       f.state,
		Copied:      f.copier.Copied(),
		CopyWarning: f.copyWarning,
	}
}

// Close libère le timer du presse-papiers
func (f *Form) Close() {
	f.copier.Close()
}
