package domain

// StepID identifies one node of the conversation graph.
// The set of valid values is closed: every constant below must be registered in the flow registry.
type StepID string

// StepNone is the zero StepID. As a transition target it means the conversation ended.
const StepNone StepID = ""

const (
	StepConsent StepID = "consent"
	StepWelcome StepID = "welcome"

	StepPersonalID         StepID = "personal_id"
	StepPersonalName       StepID = "personal_name"
	StepPersonalDOBConfirm StepID = "personal_dob_confirm"
	StepPersonalDOB        StepID = "personal_dob"
	StepPersonalPhone      StepID = "personal_phone"
	StepPersonalEmail      StepID = "personal_email"

	StepBusinessName        StepID = "business_name"
	StepBusinessTrading     StepID = "business_trading"
	StepBusinessTradingName StepID = "business_trading_name"
	StepBusinessCIPC        StepID = "business_cipc"
	StepBusinessSubSector   StepID = "business_sub_sector"
	StepBusinessDescription StepID = "business_description"
	StepBusinessType        StepID = "business_type"
	StepBusinessIndustry    StepID = "business_industry"

	StepAddressStreet   StepID = "address_street"
	StepAddressTownship StepID = "address_township"
	StepAddressCity     StepID = "address_city"
	StepAddressDistrict StepID = "address_district"
	StepAddressProvince StepID = "address_province"
	StepAddressZip      StepID = "address_zip"

	StepEmploymentTotal    StepID = "employment_total"
	StepEmploymentFullTime StepID = "employment_fulltime"
	StepEmploymentPartTime StepID = "employment_parttime"
	StepEmploymentYears    StepID = "employment_years"
	StepEmploymentRevenue  StepID = "employment_revenue"

	StepFundingAmount        StepID = "funding_amount"
	StepFundingPurpose       StepID = "funding_purpose"
	StepFundingOtherPurpose  StepID = "funding_other_purpose"
	StepFundingType          StepID = "funding_type"
	StepFundingRepayment     StepID = "funding_repayment"
	StepFundingJustification StepID = "funding_justification"

	StepReadinessBusinessPlan     StepID = "readiness_business_plan"
	StepReadinessFinancialRecords StepID = "readiness_financial_records"
	StepReadinessBankStatements   StepID = "readiness_bank_statements"
	StepReadinessTraining         StepID = "readiness_training"
	StepReadinessCooperative      StepID = "readiness_cooperative"
	StepReadinessSelfAssessment   StepID = "readiness_self_assessment"
	StepReadinessSupportNeeds     StepID = "readiness_support_needs"

	StepReviewSummary     StepID = "review_summary"
	StepConfirmSubmission StepID = "confirm_submission"

	StepEditMenu     StepID = "edit_menu"
	StepContinueMenu StepID = "continue_menu"
	StepSaveConfirm  StepID = "save_confirm"
)

// AllSteps lists every StepID in canonical order, followed by the utility steps.
var AllSteps = []StepID{
	StepConsent,
	StepPersonalID, StepPersonalName, StepPersonalDOBConfirm, StepPersonalDOB, StepPersonalPhone, StepPersonalEmail,
	StepBusinessName, StepBusinessTrading, StepBusinessTradingName, StepBusinessCIPC, StepBusinessSubSector,
	StepBusinessDescription, StepBusinessType, StepBusinessIndustry,
	StepAddressStreet, StepAddressTownship, StepAddressCity, StepAddressDistrict, StepAddressProvince, StepAddressZip,
	StepEmploymentTotal, StepEmploymentFullTime, StepEmploymentPartTime, StepEmploymentYears, StepEmploymentRevenue,
	StepFundingAmount, StepFundingPurpose, StepFundingOtherPurpose, StepFundingType, StepFundingRepayment,
	StepFundingJustification,
	StepReadinessBusinessPlan, StepReadinessFinancialRecords, StepReadinessBankStatements, StepReadinessTraining,
	StepReadinessCooperative, StepReadinessSelfAssessment, StepReadinessSupportNeeds,
	StepReviewSummary, StepConfirmSubmission,
	StepWelcome, StepEditMenu, StepContinueMenu, StepSaveConfirm,
}

// Valid reports whether id is one of the declared steps.
func (id StepID) Valid() bool {
	for _, s := range AllSteps {
		if s == id {
			return true
		}
	}
	return false
}

// Section returns the form section a step collects data for.
// Utility steps (menus, consent, save) belong to SectionNone.
func (id StepID) Section() Section {
	for _, sec := range Sections {
		for _, s := range sec.Steps() {
			if s == id {
				return sec
			}
		}
	}
	return SectionNone
}

// IsForm reports whether the step belongs to one of the form sections (including review).
func (id StepID) IsForm() bool {
	return id.Section() != SectionNone
}

// Section groups steps. Sections are ordered: Personal, Business, Address, Employment,
// Funding, Readiness, Review.
type Section string

const (
	SectionNone       Section = ""
	SectionPersonal   Section = "personal"
	SectionBusiness   Section = "business"
	SectionAddress    Section = "address"
	SectionEmployment Section = "employment"
	SectionFunding    Section = "funding"
	SectionReadiness  Section = "readiness"
	SectionReview     Section = "review"
)

// Sections is the canonical section order.
var Sections = []Section{
	SectionPersonal, SectionBusiness, SectionAddress, SectionEmployment,
	SectionFunding, SectionReadiness, SectionReview,
}

var sectionSteps = map[Section][]StepID{
	SectionPersonal: {
		StepPersonalID, StepPersonalName, StepPersonalDOBConfirm, StepPersonalDOB,
		StepPersonalPhone, StepPersonalEmail,
	},
	SectionBusiness: {
		StepBusinessName, StepBusinessTrading, StepBusinessTradingName, StepBusinessCIPC,
		StepBusinessSubSector, StepBusinessDescription, StepBusinessType, StepBusinessIndustry,
	},
	SectionAddress: {
		StepAddressStreet, StepAddressTownship, StepAddressCity, StepAddressDistrict,
		StepAddressProvince, StepAddressZip,
	},
	SectionEmployment: {
		StepEmploymentTotal, StepEmploymentFullTime, StepEmploymentPartTime,
		StepEmploymentYears, StepEmploymentRevenue,
	},
	SectionFunding: {
		StepFundingAmount, StepFundingPurpose, StepFundingOtherPurpose, StepFundingType,
		StepFundingRepayment, StepFundingJustification,
	},
	SectionReadiness: {
		StepReadinessBusinessPlan, StepReadinessFinancialRecords, StepReadinessBankStatements,
		StepReadinessTraining, StepReadinessCooperative, StepReadinessSelfAssessment,
		StepReadinessSupportNeeds,
	},
	SectionReview: {StepReviewSummary, StepConfirmSubmission},
}

// Steps returns the steps of the section in canonical order.
func (s Section) Steps() []StepID {
	return sectionSteps[s]
}

// FirstStep returns the entry step of the section (the edit/jump target).
func (s Section) FirstStep() StepID {
	steps := sectionSteps[s]
	if len(steps) == 0 {
		return StepNone
	}
	return steps[0]
}

// Title is the human-readable section name.
func (s Section) Title() string {
	switch s {
	case SectionPersonal:
		return "Personal Information"
	case SectionBusiness:
		return "Business Information"
	case SectionAddress:
		return "Address Information"
	case SectionEmployment:
		return "Employment & Revenue"
	case SectionFunding:
		return "Funding Request"
	case SectionReadiness:
		return "Readiness Assessment"
	case SectionReview:
		return "Review & Submit"
	}
	return ""
}
