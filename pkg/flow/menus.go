package flow

import (
	"fmt"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/progress"
)

// editChoices maps edit-menu numbers to section entry points. 7 returns to review.
var editChoices = map[string]domain.Section{
	"1": domain.SectionPersonal,
	"2": domain.SectionBusiness,
	"3": domain.SectionAddress,
	"4": domain.SectionEmployment,
	"5": domain.SectionFunding,
	"6": domain.SectionReadiness,
	"7": domain.SectionReview,
}

var continueChoices = map[string]domain.Section{
	"personal":   domain.SectionPersonal,
	"business":   domain.SectionBusiness,
	"address":    domain.SectionAddress,
	"employment": domain.SectionEmployment,
	"funding":    domain.SectionFunding,
	"readiness":  domain.SectionReadiness,
	"review":     domain.SectionReview,
}

func handleWelcome(raw string, s *domain.Session) (Result, error) {
	switch normalize(raw) {
	case "1":
		return continueResult(s), nil
	case "2":
		return Result{Response: progressReport(s.Data, "Type 1 to continue your application."), Next: domain.StepWelcome}, nil
	case "3":
		return Result{Next: domain.StepEditMenu}, nil
	case "4":
		return Result{Next: domain.StepSaveConfirm}, nil
	case "5":
		return Result{Response: HelpMessage, Next: domain.StepWelcome}, nil
	}
	return Result{Response: "Please choose a valid option (1-5):\n\n" + welcomeOptions, Next: domain.StepWelcome}, nil
}

func handleEditMenu(raw string, s *domain.Session) (Result, error) {
	sec, ok := editChoices[normalize(raw)]
	if !ok {
		return Result{Response: "Please select a valid option (1-7).", Next: domain.StepEditMenu}, nil
	}
	return jumpTo(sec, "Editing"), nil
}

func handleContinueMenu(raw string, s *domain.Session) (Result, error) {
	in := normalize(raw)
	sec, ok := continueChoices[in]
	if !ok {
		sec, ok = editChoices[in]
	}
	if !ok {
		return Result{
			Response: "Please select PERSONAL, BUSINESS, ADDRESS, EMPLOYMENT, FUNDING, READINESS, or REVIEW.",
			Next:     domain.StepContinueMenu,
		}, nil
	}
	return jumpTo(sec, "Continuing with"), nil
}

func jumpTo(sec domain.Section, verb string) Result {
	if sec == domain.SectionReview {
		return Result{Next: domain.StepReviewSummary, Jump: true}
	}
	return Result{
		Response: fmt.Sprintf("%s %s.", verb, sec.Title()),
		Next:     sec.FirstStep(),
		Jump:     true,
	}
}

// resumeTarget is where an interrupted applicant goes back to: the paused step when there is one,
// otherwise the resume step computed from the data.
func resumeTarget(s *domain.Session) domain.StepID {
	if s.PausedAt != domain.StepNone && s.PausedAt.Valid() {
		return s.PausedAt
	}
	return progress.ResumeStep(s.Data)
}

// continueResult decides where "continue" leads. It never writes data.
func continueResult(s *domain.Session) Result {
	if !s.Data.ConsentGiven {
		return Result{Next: domain.StepConsent}
	}
	if s.CurrentStep.IsForm() {
		return Result{
			Response: fmt.Sprintf("Resuming your application (%d%% complete).", progress.PercentComplete(s.Data)),
			Next:     s.CurrentStep,
			Reprompt: true,
		}
	}
	if s.PausedAt != domain.StepNone {
		return Result{
			Response: fmt.Sprintf("Resuming your application (%d%% complete).", progress.PercentComplete(s.Data)),
			Next:     resumeTarget(s),
		}
	}
	if progress.PercentComplete(s.Data) == 0 {
		return Result{Response: "Let's start with your personal information.", Next: domain.StepPersonalID}
	}
	return Result{Next: domain.StepContinueMenu}
}
