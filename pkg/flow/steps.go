package flow

import (
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/validation"
)

// Prompts shared by a step and the acknowledgements that lead into it.
const (
	promptID    = "📝 *Please enter your 13-digit South African ID number:*\n\nExample: 9001010001088"
	promptName  = "📝 *Please enter your full name:*\n\nExample: John Doe"
	promptDOB   = "📝 *Please enter your date of birth (DD/MM/YYYY):*\n\nExample: 15/01/1990"
	promptPhone = "📝 *Please enter your phone number:*\n\nExample: 0712345678 or 27712345678"
	promptEmail = "📝 *Please enter your email address:*\n\nExample: name@email.com"
)

// NewRegistry builds the complete step table.
func NewRegistry(v validation.Validator, now func() time.Time) Registry {
	b := &builder{validator: v, now: now}
	r := Registry{}

	r.add(b.consent())
	r.add(menuStep(domain.StepWelcome, func(s *domain.Session) string { return welcomeMenu(s.Data) }, handleWelcome,
		domain.StepConsent, domain.StepPersonalID, domain.StepContinueMenu, domain.StepEditMenu, domain.StepSaveConfirm))
	r.add(menuStep(domain.StepEditMenu, func(*domain.Session) string { return EditMenu }, handleEditMenu,
		sectionEntries()...))
	r.add(menuStep(domain.StepContinueMenu, func(s *domain.Session) string { return continueMenu(s.Data) }, handleContinueMenu,
		sectionEntries()...))
	r.add(b.saveConfirm())

	b.personal(r)
	b.business(r)
	b.address(r)
	b.employment(r)
	b.funding(r)
	b.readiness(r)
	b.review(r)
	return r
}

func sectionEntries() []domain.StepID {
	ids := make([]domain.StepID, 0, len(domain.Sections))
	for _, s := range domain.Sections {
		ids = append(ids, s.FirstStep())
	}
	return ids
}

func menuStep(id domain.StepID, prompt func(*domain.Session) string, h Handler, targets ...domain.StepID) Step {
	return Step{ID: id, Kind: KindMenu, Prompt: prompt, Handle: h, Targets: targets}
}

func (b *builder) consent() Step {
	return Step{
		ID:     domain.StepConsent,
		Kind:   KindCustom,
		Prompt: func(*domain.Session) string { return ConsentMessage },
		Handle: func(raw string, s *domain.Session) (Result, error) {
			if normalize(raw) != "agree" {
				return Result{Response: ConsentMessage, Next: domain.StepConsent}, nil
			}
			now := b.now()
			s.Data.ConsentGiven = true
			s.Data.ConsentTimestamp = &now
			if s.Data.Status == "" {
				s.Data.Status = domain.StatusDraft
			}
			return Result{
				Response: "✅ Thank you for your consent. Let's begin your funding application!",
				Next:     domain.StepPersonalID,
			}, nil
		},
		Targets: []domain.StepID{domain.StepPersonalID},
	}
}

func (b *builder) personal(r Registry) {
	r.add(b.field(fieldDef{
		id:     domain.StepPersonalID,
		prompt: promptID,
		rule:   validation.KindIDNumber,
		retry:  "Please enter your 13-digit ID number:",
		apply: func(v any, s *domain.Session) error {
			info, ok := v.(validation.IdentityInfo)
			if !ok {
				return errUnexpected(v)
			}
			s.Data.Personal.IDNumber = info.IDNumber
			s.Data.Personal.DateOfBirth = info.DateOfBirth
			s.Data.Personal.Age = domain.Int(info.Age)
			return nil
		},
		ackFn: func(v any, _ *domain.Session) string {
			info := v.(validation.IdentityInfo)
			return "✅ ID number verified. Age: " + strconv.Itoa(info.Age) + " years."
		},
		next: domain.StepPersonalName,
	}))

	r.add(b.field(fieldDef{
		id:     domain.StepPersonalName,
		prompt: promptName,
		rule:   validation.KindName,
		retry:  "Please enter your full name:",
		apply:  setString(func(s *domain.Session, v string) { s.Data.Personal.FullName = v }),
		ack:    "✅ Name recorded.",
		next:   domain.StepPersonalDOB,
		branch: func(_ any, s *domain.Session) domain.StepID {
			if s.Data.Personal.DateOfBirth != "" {
				return domain.StepPersonalDOBConfirm
			}
			return domain.StepPersonalDOB
		},
		detours: []domain.StepID{domain.StepPersonalDOBConfirm},
	}))

	r.add(Step{
		ID:   domain.StepPersonalDOBConfirm,
		Kind: KindCustom,
		Prompt: func(s *domain.Session) string {
			return "Your date of birth from ID: " + displayDate(s.Data.Personal.DateOfBirth) +
				"\n\nIs this correct? Type YES to confirm or enter correct date (DD/MM/YYYY):"
		},
		Handle: func(raw string, s *domain.Session) (Result, error) {
			switch normalize(raw) {
			case "yes", "y":
				return Result{Response: "✅ Date of birth confirmed.", Next: domain.StepPersonalPhone}, nil
			case "no", "n":
				return Result{Response: "Please enter your correct date of birth.", Next: domain.StepPersonalDOB}, nil
			}
			res := b.validator.Validate(validation.KindDateOfBirth, raw, nil)
			if !res.Valid {
				return Result{
					Response: rejection(res.Message, "Type YES to confirm or enter correct date (DD/MM/YYYY):"),
					Next:     domain.StepPersonalDOBConfirm,
					Rejected: true,
				}, nil
			}
			if err := applyBirth(res.Value, s); err != nil {
				return Result{}, err
			}
			return Result{Response: "✅ Date of birth recorded.", Next: domain.StepPersonalPhone}, nil
		},
		Targets: []domain.StepID{domain.StepPersonalPhone, domain.StepPersonalDOB},
	})

	r.add(b.field(fieldDef{
		id:     domain.StepPersonalDOB,
		prompt: promptDOB,
		rule:   validation.KindDateOfBirth,
		retry:  "Please enter date in DD/MM/YYYY format:",
		apply:  applyBirth,
		ack:    "✅ Date of birth recorded.",
		next:   domain.StepPersonalPhone,
	}))

	r.add(b.field(fieldDef{
		id:     domain.StepPersonalPhone,
		prompt: promptPhone,
		rule:   validation.KindPhone,
		retry:  "Please enter your phone number:",
		apply: func(v any, s *domain.Session) error {
			info, ok := v.(validation.PhoneInfo)
			if !ok {
				return errUnexpected(v)
			}
			s.Data.Personal.Phone = info.Formatted
			s.Data.Personal.WhatsAppNumber = info.Formatted
			return nil
		},
		ack:  "✅ Phone number recorded.",
		next: domain.StepPersonalEmail,
	}))

	r.add(b.field(fieldDef{
		id:      domain.StepPersonalEmail,
		prompt:  promptEmail,
		rule:    validation.KindEmail,
		retry:   "Please enter your email address:",
		apply:   setString(func(s *domain.Session, v string) { s.Data.Personal.Email = v }),
		ack:     "✅ Personal information completed!\n\nLet's move to business information.",
		next:    domain.StepBusinessName,
		persist: true,
	}))
}

func (b *builder) business(r Registry) {
	r.add(b.field(fieldDef{
		id:     domain.StepBusinessName,
		prompt: "🏢 *Please enter your Business Name:*",
		rule:   validation.KindBusinessName,
		retry:  "Please enter your Business Name:",
		apply:  setString(func(s *domain.Session, v string) { s.Data.Business.Name = v }),
		ack:    "✅ Business name recorded.",
		next:   domain.StepBusinessTrading,
	}))

	r.add(b.yesNo(fieldDef{
		id:      domain.StepBusinessTrading,
		prompt:  "🏢 *Is your Trading Name different from your Business Name?*\n\nType YES or NO",
		options: []string{"YES", "NO"},
		retry:   "Please type YES or NO:",
		apply: setString(func(s *domain.Session, v string) {
			if v == "NO" {
				s.Data.Business.TradingName = s.Data.Business.Name
			}
		}),
		next: domain.StepBusinessCIPC,
		branch: func(v any, _ *domain.Session) domain.StepID {
			if v == "YES" {
				return domain.StepBusinessTradingName
			}
			return domain.StepBusinessCIPC
		},
		detours: []domain.StepID{domain.StepBusinessTradingName},
	}))

	r.add(b.field(fieldDef{
		id:     domain.StepBusinessTradingName,
		prompt: "🏢 *Please enter your Trading Name:*",
		rule:   validation.KindBusinessName,
		retry:  "Please enter your Trading Name:",
		apply:  setString(func(s *domain.Session, v string) { s.Data.Business.TradingName = v }),
		ack:    "✅ Trading name recorded.",
		next:   domain.StepBusinessCIPC,
	}))

	r.add(b.field(fieldDef{
		id:     domain.StepBusinessCIPC,
		prompt: "🏢 *Please enter your CIPC Registration Number (if registered):*\n\nFormat: CK2012/123456/07\n\nIf not registered, type SKIP",
		rule:   validation.KindCIPC,
		apply:  setString(func(s *domain.Session, v string) { s.Data.Business.CIPCNumber = v }),
		ack:    "✅ CIPC information recorded.",
		next:   domain.StepBusinessSubSector,
	}))

	r.add(b.field(fieldDef{
		id:     domain.StepBusinessSubSector,
		prompt: "🏢 *Please describe your business sub-sector:*\n\nExample: Organic vegetable farming, Mobile app development, Bakery, etc.",
		rule:   validation.KindSubSector,
		retry:  "Please describe your business sub-sector:",
		apply:  setString(func(s *domain.Session, v string) { s.Data.Business.SubSector = v }),
		ack:    "✅ Sub-sector recorded.",
		next:   domain.StepBusinessDescription,
	}))

	r.add(b.field(fieldDef{
		id:     domain.StepBusinessDescription,
		prompt: "🏢 *Please provide a brief description of your business:*\n\nWhat do you do? What products/services do you offer?",
		rule:   validation.KindDescription,
		retry:  "Please describe your business (20-500 characters):",
		apply:  setString(func(s *domain.Session, v string) { s.Data.Business.Description = v }),
		ack:    "✅ Business description recorded.",
		next:   domain.StepBusinessType,
	}))

	r.add(b.choice(fieldDef{
		id:      domain.StepBusinessType,
		prompt:  choicePrompt("🏢 *BUSINESS TYPE*", "Please select your business type:", BusinessTypes, "Type the number or name:"),
		options: BusinessTypes,
		retry:   "Please select your business type:",
		apply:   setString(func(s *domain.Session, v string) { s.Data.Business.Type = v }),
		next:    domain.StepBusinessIndustry,
	}))

	r.add(b.choice(fieldDef{
		id:      domain.StepBusinessIndustry,
		prompt:  choicePrompt("🏭 *INDUSTRY*", "Please select your industry:", Industries, "Type the number or name:"),
		options: Industries,
		retry:   "Please select your industry:",
		apply:   setString(func(s *domain.Session, v string) { s.Data.Business.Industry = v }),
		ack:     "✅ Business information completed!\n\nLet's move to your business address.",
		next:    domain.StepAddressStreet,
		persist: true,
	}))
}

func (b *builder) address(r Registry) {
	text := func(id domain.StepID, prompt string, rule validation.Kind, retry string, set func(*domain.Session, string), next domain.StepID) Step {
		return b.field(fieldDef{id: id, prompt: prompt, rule: rule, retry: retry, apply: setString(set), next: next})
	}

	r.add(text(domain.StepAddressStreet, "📍 *Please enter your Street Address:*\n\nExample: 123 Main Street",
		validation.KindStreet, "Please enter your Street Address:",
		func(s *domain.Session, v string) { s.Data.Address.Street = v }, domain.StepAddressTownship))
	r.add(text(domain.StepAddressTownship, "📍 *Please enter your Township/Area:*",
		validation.KindTownship, "Please enter your Township/Area:",
		func(s *domain.Session, v string) { s.Data.Address.Township = v }, domain.StepAddressCity))
	r.add(text(domain.StepAddressCity, "📍 *Please enter your City:*",
		validation.KindCity, "Please enter your City:",
		func(s *domain.Session, v string) { s.Data.Address.City = v }, domain.StepAddressDistrict))
	r.add(text(domain.StepAddressDistrict, "📍 *Please enter your District/Municipality:*",
		validation.KindDistrict, "Please enter your District/Municipality:",
		func(s *domain.Session, v string) { s.Data.Address.District = v }, domain.StepAddressProvince))

	r.add(b.choice(fieldDef{
		id:      domain.StepAddressProvince,
		prompt:  choicePrompt("📍 *PROVINCE*", "Please select your province:", Provinces, "Type the number or name:"),
		options: Provinces,
		retry:   "Please select your province:",
		apply:   setString(func(s *domain.Session, v string) { s.Data.Address.Province = v }),
		next:    domain.StepAddressZip,
	}))

	r.add(b.field(fieldDef{
		id:      domain.StepAddressZip,
		prompt:  "📍 *Please enter your ZIP/Postal Code (4 digits):*\n\nExample: 2000",
		rule:    validation.KindZip,
		retry:   "Please enter your 4-digit postal code:",
		apply:   setString(func(s *domain.Session, v string) { s.Data.Address.Zip = v }),
		ack:     "✅ Address information completed!\n\nLet's move to employment and revenue.",
		next:    domain.StepEmploymentTotal,
		persist: true,
	}))
}

func (b *builder) employment(r Registry) {
	count := func(id domain.StepID, prompt string, rule validation.Kind, set func(*domain.Session, int), next domain.StepID) Step {
		return b.field(fieldDef{
			id:     id,
			prompt: prompt,
			rule:   rule,
			retry:  "Please enter a number:",
			apply:  setInt(set),
			next:   next,
		})
	}

	r.add(count(domain.StepEmploymentTotal, "👥 *How many total employees do you have?*\n\nEnter number:",
		validation.KindEmployeeCount,
		func(s *domain.Session, v int) { s.Data.Employment.TotalEmployees = domain.Int(v) }, domain.StepEmploymentFullTime))
	r.add(count(domain.StepEmploymentFullTime, "👥 *How many of these are Full-Time employees?*\n\nEnter number:",
		validation.KindEmployeeCount,
		func(s *domain.Session, v int) { s.Data.Employment.FullTime = domain.Int(v) }, domain.StepEmploymentPartTime))
	r.add(count(domain.StepEmploymentPartTime, "👥 *How many are Part-Time employees?*\n\nEnter number:",
		validation.KindEmployeeCount,
		func(s *domain.Session, v int) { s.Data.Employment.PartTime = domain.Int(v) }, domain.StepEmploymentYears))
	r.add(count(domain.StepEmploymentYears, "📅 *How many years has your business been in operation?*\n\nEnter number:",
		validation.KindYearsInOperation,
		func(s *domain.Session, v int) { s.Data.Employment.YearsInOperation = domain.Int(v) }, domain.StepEmploymentRevenue))

	r.add(b.choice(fieldDef{
		id:      domain.StepEmploymentRevenue,
		prompt:  choicePrompt("💰 *MONTHLY REVENUE RANGE*", "Please select your monthly revenue range:", RevenueRanges, "Type the number:"),
		options: RevenueRanges,
		retry:   "Please select your revenue range:",
		apply:   setString(func(s *domain.Session, v string) { s.Data.Employment.MonthlyRevenue = v }),
		ack:     "✅ Employment & Revenue information completed!\n\nLet's move to funding request details.",
		next:    domain.StepFundingAmount,
		persist: true,
	}))
}

func (b *builder) funding(r Registry) {
	r.add(b.field(fieldDef{
		id:     domain.StepFundingAmount,
		prompt: "💰 *How much funding are you requesting (in ZAR)?*\n\nEnter amount:",
		rule:   validation.KindAmount,
		retry:  "Please enter funding amount (R1,000 - R10,000,000):",
		apply: func(v any, s *domain.Session) error {
			amount, ok := v.(float64)
			if !ok {
				return errUnexpected(v)
			}
			s.Data.Funding.Amount = domain.Float(amount)
			return nil
		},
		next: domain.StepFundingPurpose,
	}))

	r.add(b.multiChoice(fieldDef{
		id:      domain.StepFundingPurpose,
		prompt:  choicePrompt("🎯 *FUNDING PURPOSE*", "Please select your funding purpose (you can select multiple):", FundingPurposes, "Type the numbers separated by commas (e.g., 1,3):"),
		options: FundingPurposes,
		retry:   "Please select funding purpose:",
		apply: setSelection(func(s *domain.Session, v domain.Selection) {
			s.Data.Funding.Purpose = v
			s.Data.DropStaleFollowUps()
		}),
		next: domain.StepFundingType,
		branch: func(v any, _ *domain.Session) domain.StepID {
			if sel, ok := v.(domain.Selection); ok && sel.Contains(otherOption) {
				return domain.StepFundingOtherPurpose
			}
			return domain.StepFundingType
		},
		detours: []domain.StepID{domain.StepFundingOtherPurpose},
	}))

	r.add(b.field(fieldDef{
		id:     domain.StepFundingOtherPurpose,
		prompt: "📝 *Please specify the 'Other' funding purpose:*",
		rule:   validation.KindOtherPurpose,
		apply:  setString(func(s *domain.Session, v string) { s.Data.Funding.OtherPurposeDetails = v }),
		next:   domain.StepFundingType,
	}))

	r.add(b.choice(fieldDef{
		id:      domain.StepFundingType,
		prompt:  choicePrompt("📝 *PREFERRED FUNDING TYPE*", "Please select your preferred funding type:", FundingTypes, "Type the number or name:"),
		options: FundingTypes,
		retry:   "Please select funding type:",
		apply: setString(func(s *domain.Session, v string) {
			s.Data.Funding.PreferredType = v
			s.Data.DropStaleFollowUps()
		}),
		next: domain.StepFundingJustification,
		branch: func(v any, _ *domain.Session) domain.StepID {
			if v == loanOption {
				return domain.StepFundingRepayment
			}
			return domain.StepFundingJustification
		},
		detours: []domain.StepID{domain.StepFundingRepayment},
	}))

	r.add(b.yesNo(fieldDef{
		id:      domain.StepFundingRepayment,
		prompt:  "💳 *Can you demonstrate loan repayment ability?*\n\nOptions: YES, NO, UNSURE",
		options: RepaymentAnswers,
		retry:   "Please type YES, NO, or UNSURE:",
		apply:   setString(func(s *domain.Session, v string) { s.Data.Funding.RepaymentAbility = v }),
		next:    domain.StepFundingJustification,
	}))

	r.add(b.field(fieldDef{
		id:      domain.StepFundingJustification,
		prompt:  "📄 *Please provide a detailed justification for your funding request:*\n\nExplain how you will use the funds and the expected impact on your business.",
		rule:    validation.KindJustification,
		retry:   "Please provide funding justification:",
		apply:   setString(func(s *domain.Session, v string) { s.Data.Funding.Justification = v }),
		ack:     "✅ Funding request completed!\n\nLet's move to readiness assessment.",
		next:    domain.StepReadinessBusinessPlan,
		persist: true,
	}))
}

func (b *builder) readiness(r Registry) {
	pick := func(id domain.StepID, title, question string, options []string, set func(*domain.Session, string), next domain.StepID) Step {
		return b.choice(fieldDef{
			id:      id,
			prompt:  choicePrompt(title, question, options, "Type the number:"),
			options: options,
			retry:   "Please type the number of your answer:",
			apply:   setString(set),
			next:    next,
		})
	}

	r.add(pick(domain.StepReadinessBusinessPlan, "📊 *BUSINESS PLAN STATUS*", "Do you have a business plan?", BusinessPlanAnswers,
		func(s *domain.Session, v string) { s.Data.Readiness.BusinessPlan = v }, domain.StepReadinessFinancialRecords))
	r.add(pick(domain.StepReadinessFinancialRecords, "📈 *FINANCIAL RECORDS*", "Do you keep financial records?", FinancialRecordAnswers,
		func(s *domain.Session, v string) { s.Data.Readiness.FinancialRecords = v }, domain.StepReadinessBankStatements))
	r.add(pick(domain.StepReadinessBankStatements, "🏦 *BANK STATEMENTS*", "Do you have bank statements?", BankStatementAnswers,
		func(s *domain.Session, v string) { s.Data.Readiness.BankStatements = v }, domain.StepReadinessTraining))
	r.add(pick(domain.StepReadinessTraining, "🎓 *BUSINESS TRAINING*", "Have you received any business training?", TrainingAnswers,
		func(s *domain.Session, v string) { s.Data.Readiness.Training = v }, domain.StepReadinessCooperative))
	r.add(pick(domain.StepReadinessCooperative, "🤝 *COOPERATIVE INTEREST*", "Are you interested in cooperatives?", CooperativeAnswers,
		func(s *domain.Session, v string) { s.Data.Readiness.Cooperative = v }, domain.StepReadinessSelfAssessment))

	r.add(b.choice(fieldDef{
		id:      domain.StepReadinessSelfAssessment,
		prompt:  "📊 *SELF-ASSESSMENT READINESS*\n\nRate your business readiness:\n\n" + strings.Join(ReadinessLevels, "\n") + "\n\nType the number (1-5):",
		options: ReadinessLevels,
		retry:   "Please select readiness level (1-5):",
		apply: setString(func(s *domain.Session, v string) {
			level, _, _ := strings.Cut(v, " - ")
			if n, err := strconv.Atoi(level); err == nil {
				s.Data.Readiness.SelfAssessment = domain.Int(n)
			}
		}),
		next: domain.StepReadinessSupportNeeds,
	}))

	r.add(b.multiChoice(fieldDef{
		id:      domain.StepReadinessSupportNeeds,
		prompt:  choicePrompt("🤝 *SUPPORT NEEDS*", "What support do you need? (Select multiple):", SupportNeeds, "Type the numbers separated by commas (e.g., 1,3,5):"),
		options: SupportNeeds,
		retry:   "Please select support needs:",
		apply:   setSelection(func(s *domain.Session, v domain.Selection) { s.Data.Readiness.SupportNeeds = v }),
		ack:     "✅ Readiness assessment completed!\n\nLet's review your application before submission.",
		next:    domain.StepReviewSummary,
		persist: true,
	}))
}

func (b *builder) review(r Registry) {
	r.add(Step{
		ID:     domain.StepReviewSummary,
		Kind:   KindCustom,
		Prompt: func(s *domain.Session) string { return summary(s.Data) },
		Handle: func(raw string, s *domain.Session) (Result, error) {
			if normalize(raw) == "confirm" {
				return Result{Next: domain.StepConfirmSubmission}, nil
			}
			return Result{Response: "Please type CONFIRM, EDIT, or SAVE.", Next: domain.StepReviewSummary}, nil
		},
		Targets: []domain.StepID{domain.StepConfirmSubmission},
	})

	r.add(Step{
		ID:     domain.StepConfirmSubmission,
		Kind:   KindCustom,
		Prompt: func(*domain.Session) string { return "📬 *Are you sure you want to submit your application?*\n\nType SUBMIT to confirm or BACK to review." },
		Handle: func(raw string, s *domain.Session) (Result, error) {
			switch normalize(raw) {
			case "submit", "confirm":
				now := b.now()
				s.Data.Completed = true
				s.Data.SubmittedAt = &now
				s.Data.Status = domain.StatusSubmitted
				return Result{
					Response: "✅ *APPLICATION SUBMITTED SUCCESSFULLY!* ✅\n\n" +
						"Thank you for submitting your funding application.\n\n" +
						"📧 You will receive a confirmation email shortly.\n" +
						"📱 We'll contact you via WhatsApp for updates.\n" +
						"⏳ Processing time: 7-14 business days.\n\n" +
						"Your reference number: " + reference(s.ID) + "\n\n" +
						"Type MENU to start a new application.",
					Next:      domain.StepNone,
					Persist:   true,
					Completed: true,
				}, nil
			}
			return Result{Response: "Please type SUBMIT to confirm or BACK to review.", Next: domain.StepConfirmSubmission}, nil
		},
	})
}

func (b *builder) saveConfirm() Step {
	return Step{
		ID:     domain.StepSaveConfirm,
		Kind:   KindCustom,
		Prompt: func(*domain.Session) string { return savePrompt },
		Handle: func(raw string, s *domain.Session) (Result, error) {
			switch normalize(raw) {
			case "yes", "y":
				if !s.Data.Completed {
					s.Data.Status = domain.StatusInProgress
				}
				return Result{
					Response: "✅ Your application has been saved. You can continue later by messaging us again.\n\n" +
						"Your reference: " + reference(s.ID) + "\n\n" +
						"Type CONTINUE anytime to resume.",
					Next:    domain.StepNone,
					Persist: true,
				}, nil
			case "no", "n":
				return Result{Response: "Continuing with your application...", Next: resumeTarget(s)}, nil
			}
			return Result{Response: "Please type YES to save or NO to continue.", Next: domain.StepSaveConfirm}, nil
		},
		Targets: formSteps(),
	}
}

func formSteps() []domain.StepID {
	var ids []domain.StepID
	for _, sec := range domain.Sections {
		ids = append(ids, sec.Steps()...)
	}
	return append(ids, domain.StepConsent)
}

func applyBirth(v any, s *domain.Session) error {
	info, ok := v.(validation.BirthInfo)
	if !ok {
		return errUnexpected(v)
	}
	s.Data.Personal.DateOfBirth = info.DateOfBirth
	s.Data.Personal.Age = domain.Int(info.Age)
	return nil
}
