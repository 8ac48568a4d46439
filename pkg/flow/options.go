package flow

import "github.com/aretw0/intake/pkg/domain"

// Option lists offered by the choice steps. The order is significant: applicants may answer
// with the 1-based position shown in the prompt.
var (
	BusinessTypes = []string{
		"Sole Proprietor", "Partnership", "Private Company", "Public Company",
		"Cooperative", "Non-Profit", "Other",
	}
	Industries = []string{
		"Agriculture", "Manufacturing", "Retail", "Services", "Technology", "Construction", "Other",
	}
	Provinces = []string{
		"Eastern Cape", "Free State", "Gauteng", "KwaZulu-Natal", "Limpopo",
		"Mpumalanga", "Northern Cape", "North West", "Western Cape",
	}
	RevenueRanges = []string{
		"< R10,000", "R10,000 - R50,000", "R50,001 - R200,000", "> R200,000",
	}
	FundingPurposes = []string{
		"Working Capital", "Equipment Purchase", "Expansion", "Debt Consolidation", "Other",
	}

	FundingTypes     = []string{"Grant", "Loan", "Equity", "Other"}
	RepaymentAnswers = []string{"YES", "NO", "UNSURE"}

	BusinessPlanAnswers = []string{
		"Yes - I have a written plan",
		"Yes - I have a basic plan (not written)",
		"No - I don't have one",
		"I need help creating one",
	}
	FinancialRecordAnswers = []string{
		"Yes - Detailed records (spreadsheets/software)",
		"Yes - Basic records (notebook/paper)",
		"No - I don't keep records",
		"I need help with this",
	}
	BankStatementAnswers = []string{
		"Yes - I have them ready",
		"Yes - But in a personal account",
		"No - Don't have business banking",
		"No - Need to open business account",
	}
	TrainingAnswers = []string{
		"Yes - Formal business training",
		"Yes - Some workshops/courses",
		"No - No formal training",
		"I want training opportunities",
	}
	CooperativeAnswers = []string{
		"Yes - Already a member",
		"Yes - Want to join one",
		"Yes - Want to form one",
		"No - Prefer to work alone",
		"Not sure what it is",
	}
	ReadinessLevels = []string{
		"1 - Just starting (need lots of help)",
		"2 - Early stage",
		"3 - Developing",
		"4 - Almost ready",
		"5 - Fully ready (professional operation)",
	}
	SupportNeeds = []string{
		"Funding/Grants", "Business training", "Mentorship", "Marketing help",
		"Financial management", "Legal advice", "Networking opportunities",
		"Equipment/Tools", "Workspace/Premises",
	}
)

const (
	otherOption = domain.PurposeOther
	loanOption  = domain.FundingLoan
)
