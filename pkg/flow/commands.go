package flow

import (
	"github.com/aretw0/intake/pkg/domain"
)

type command func(e *Engine, s *domain.Session) Result

// globalCommands pre-empt the current step's handler whatever the step is.
var globalCommands = map[string]command{
	"menu":     cmdMenu,
	"help":     cmdHelp,
	"save":     cmdSave,
	"exit":     cmdCancel,
	"cancel":   cmdCancel,
	"restart":  cmdRestart,
	"start":    cmdStart,
	"continue": cmdContinue,
	"progress": cmdProgress,
	"edit":     cmdEdit,
	"back":     cmdBack,
}

// IsGlobalCommand reports whether the input would be handled as a global command.
func IsGlobalCommand(raw string) bool {
	_, ok := globalCommands[normalize(raw)]
	return ok
}

func cmdMenu(_ *Engine, s *domain.Session) Result {
	return Result{Response: welcomeMenu(s.Data), Next: domain.StepWelcome}
}

func cmdHelp(_ *Engine, s *domain.Session) Result {
	return Result{Response: HelpMessage, Next: s.CurrentStep}
}

func cmdSave(_ *Engine, s *domain.Session) Result {
	return Result{Response: savePrompt, Next: domain.StepSaveConfirm, Persist: s.Data.ConsentGiven}
}

func cmdCancel(_ *Engine, _ *domain.Session) Result {
	return Result{Response: cancelledReply, Next: domain.StepNone}
}

func cmdRestart(_ *Engine, _ *domain.Session) Result {
	return Result{
		Response: joinParagraphs(restartedReply, ConsentMessage),
		Next:     domain.StepConsent,
		Reset:    true,
	}
}

func cmdStart(_ *Engine, s *domain.Session) Result {
	if !s.Data.ConsentGiven {
		return Result{Response: ConsentMessage, Next: domain.StepConsent}
	}
	return Result{Response: welcomeMenu(s.Data), Next: domain.StepWelcome}
}

func cmdContinue(e *Engine, s *domain.Session) Result {
	res := continueResult(s)
	res.Response = joinParagraphs(res.Response, e.prompt(res.Next, s))
	return res
}

func cmdProgress(_ *Engine, s *domain.Session) Result {
	return Result{
		Response: progressReport(s.Data, "Type CONTINUE to resume where you left off."),
		Next:     s.CurrentStep,
	}
}

func cmdEdit(_ *Engine, s *domain.Session) Result {
	return Result{Response: EditMenu, Next: domain.StepEditMenu}
}

// cmdBack undoes to the most recent forward step. From a menu it returns to the interrupted step.
func cmdBack(e *Engine, s *domain.Session) Result {
	if !s.CurrentStep.IsForm() && s.PausedAt != domain.StepNone {
		return Result{Response: joinParagraphs("Going back...", e.prompt(s.PausedAt, s)), Next: s.PausedAt}
	}
	prev, ok := s.PopHistory()
	if !ok {
		return Result{Response: backUnavailable, Next: s.CurrentStep}
	}
	return Result{Response: joinParagraphs("Going back...", e.prompt(prev, s)), Next: prev}
}
