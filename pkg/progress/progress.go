// Package progress measures how far an application has come.
//
// It owns the table of trackable fields shared by the completion percentage, the per-section
// breakdown and the resume-step function, so the three can never disagree about what a field is
// or where it is asked.
package progress

import (
	"math"

	"github.com/aretw0/intake/pkg/domain"
)

// Field is one trackable answer of the application.
type Field struct {
	Name    string
	Section domain.Section
	// Step is where the field is asked.
	Step domain.StepID
	// Required marks the fields of the section-complete predicate.
	Required bool
	// Resume marks the fields that decide where a resumed applicant continues.
	Resume bool
	Filled func(d *domain.ApplicationData) bool
}

func str(get func(d *domain.ApplicationData) string) func(*domain.ApplicationData) bool {
	return func(d *domain.ApplicationData) bool { return get(d) != "" }
}

func num(get func(d *domain.ApplicationData) *int) func(*domain.ApplicationData) bool {
	return func(d *domain.ApplicationData) bool { return get(d) != nil }
}

func sel(get func(d *domain.ApplicationData) domain.Selection) func(*domain.ApplicationData) bool {
	return func(d *domain.ApplicationData) bool { return !get(d).Empty() }
}

// Fields lists every trackable field in canonical order.
var Fields = []Field{
	{"idNumber", domain.SectionPersonal, domain.StepPersonalID, true, true,
		str(func(d *domain.ApplicationData) string { return d.Personal.IDNumber })},
	{"fullName", domain.SectionPersonal, domain.StepPersonalName, true, true,
		str(func(d *domain.ApplicationData) string { return d.Personal.FullName })},
	{"dateOfBirth", domain.SectionPersonal, domain.StepPersonalDOB, true, true,
		str(func(d *domain.ApplicationData) string { return d.Personal.DateOfBirth })},
	{"phone", domain.SectionPersonal, domain.StepPersonalPhone, true, true,
		str(func(d *domain.ApplicationData) string { return d.Personal.Phone })},
	{"email", domain.SectionPersonal, domain.StepPersonalEmail, true, true,
		str(func(d *domain.ApplicationData) string { return d.Personal.Email })},

	{"businessName", domain.SectionBusiness, domain.StepBusinessName, true, true,
		str(func(d *domain.ApplicationData) string { return d.Business.Name })},
	{"tradingName", domain.SectionBusiness, domain.StepBusinessTrading, false, false,
		str(func(d *domain.ApplicationData) string { return d.Business.TradingName })},
	{"cipcNumber", domain.SectionBusiness, domain.StepBusinessCIPC, false, false,
		str(func(d *domain.ApplicationData) string { return d.Business.CIPCNumber })},
	{"subSector", domain.SectionBusiness, domain.StepBusinessSubSector, false, false,
		str(func(d *domain.ApplicationData) string { return d.Business.SubSector })},
	{"description", domain.SectionBusiness, domain.StepBusinessDescription, false, false,
		str(func(d *domain.ApplicationData) string { return d.Business.Description })},
	{"businessType", domain.SectionBusiness, domain.StepBusinessType, true, true,
		str(func(d *domain.ApplicationData) string { return d.Business.Type })},
	{"industry", domain.SectionBusiness, domain.StepBusinessIndustry, true, true,
		str(func(d *domain.ApplicationData) string { return d.Business.Industry })},

	{"streetAddress", domain.SectionAddress, domain.StepAddressStreet, true, true,
		str(func(d *domain.ApplicationData) string { return d.Address.Street })},
	{"township", domain.SectionAddress, domain.StepAddressTownship, false, false,
		str(func(d *domain.ApplicationData) string { return d.Address.Township })},
	{"city", domain.SectionAddress, domain.StepAddressCity, true, true,
		str(func(d *domain.ApplicationData) string { return d.Address.City })},
	{"district", domain.SectionAddress, domain.StepAddressDistrict, false, false,
		str(func(d *domain.ApplicationData) string { return d.Address.District })},
	{"province", domain.SectionAddress, domain.StepAddressProvince, true, true,
		str(func(d *domain.ApplicationData) string { return d.Address.Province })},
	{"zipCode", domain.SectionAddress, domain.StepAddressZip, true, false,
		str(func(d *domain.ApplicationData) string { return d.Address.Zip })},

	{"totalEmployees", domain.SectionEmployment, domain.StepEmploymentTotal, true, true,
		num(func(d *domain.ApplicationData) *int { return d.Employment.TotalEmployees })},
	{"fullTimeEmployees", domain.SectionEmployment, domain.StepEmploymentFullTime, false, false,
		num(func(d *domain.ApplicationData) *int { return d.Employment.FullTime })},
	{"partTimeEmployees", domain.SectionEmployment, domain.StepEmploymentPartTime, false, false,
		num(func(d *domain.ApplicationData) *int { return d.Employment.PartTime })},
	{"yearsInOperation", domain.SectionEmployment, domain.StepEmploymentYears, true, false,
		num(func(d *domain.ApplicationData) *int { return d.Employment.YearsInOperation })},
	{"monthlyRevenue", domain.SectionEmployment, domain.StepEmploymentRevenue, true, true,
		str(func(d *domain.ApplicationData) string { return d.Employment.MonthlyRevenue })},

	{"fundingAmount", domain.SectionFunding, domain.StepFundingAmount, true, true,
		func(d *domain.ApplicationData) bool { return d.Funding.Amount != nil }},
	{"fundingPurpose", domain.SectionFunding, domain.StepFundingPurpose, true, true,
		sel(func(d *domain.ApplicationData) domain.Selection { return d.Funding.Purpose })},
	{"otherPurposeDetails", domain.SectionFunding, domain.StepFundingOtherPurpose, false, false,
		str(func(d *domain.ApplicationData) string { return d.Funding.OtherPurposeDetails })},
	{"preferredFundingType", domain.SectionFunding, domain.StepFundingType, true, true,
		str(func(d *domain.ApplicationData) string { return d.Funding.PreferredType })},
	{"repaymentAbility", domain.SectionFunding, domain.StepFundingRepayment, false, false,
		str(func(d *domain.ApplicationData) string { return d.Funding.RepaymentAbility })},
	{"justification", domain.SectionFunding, domain.StepFundingJustification, false, false,
		str(func(d *domain.ApplicationData) string { return d.Funding.Justification })},

	{"businessPlan", domain.SectionReadiness, domain.StepReadinessBusinessPlan, true, true,
		str(func(d *domain.ApplicationData) string { return d.Readiness.BusinessPlan })},
	{"financialRecords", domain.SectionReadiness, domain.StepReadinessFinancialRecords, false, false,
		str(func(d *domain.ApplicationData) string { return d.Readiness.FinancialRecords })},
	{"bankStatements", domain.SectionReadiness, domain.StepReadinessBankStatements, false, false,
		str(func(d *domain.ApplicationData) string { return d.Readiness.BankStatements })},
	{"training", domain.SectionReadiness, domain.StepReadinessTraining, false, false,
		str(func(d *domain.ApplicationData) string { return d.Readiness.Training })},
	{"cooperative", domain.SectionReadiness, domain.StepReadinessCooperative, false, false,
		str(func(d *domain.ApplicationData) string { return d.Readiness.Cooperative })},
	{"selfAssessment", domain.SectionReadiness, domain.StepReadinessSelfAssessment, false, false,
		num(func(d *domain.ApplicationData) *int { return d.Readiness.SelfAssessment })},
	{"supportNeeds", domain.SectionReadiness, domain.StepReadinessSupportNeeds, true, true,
		sel(func(d *domain.ApplicationData) domain.Selection { return d.Readiness.SupportNeeds })},
}

// TotalFields is the fixed denominator of PercentComplete.
var TotalFields = len(Fields)

// Filled counts the fields that hold a value.
func Filled(d domain.ApplicationData) int {
	n := 0
	for _, f := range Fields {
		if f.Filled(&d) {
			n++
		}
	}
	return n
}

// PercentComplete returns round(100 * filled / total), in 0..100.
func PercentComplete(d domain.ApplicationData) int {
	return int(math.Round(100 * float64(Filled(d)) / float64(TotalFields)))
}

// Breakdown splits the form sections by their section-complete predicate.
type Breakdown struct {
	Completed  []domain.Section
	Incomplete []domain.Section
}

// SectionComplete reports whether every required field of the section is present.
func SectionComplete(d domain.ApplicationData, s domain.Section) bool {
	for _, f := range Fields {
		if f.Section == s && f.Required && !f.Filled(&d) {
			return false
		}
	}
	return true
}

// Sections computes the breakdown over the six form sections, in canonical order.
func Sections(d domain.ApplicationData) Breakdown {
	var b Breakdown
	for _, s := range domain.Sections {
		if s == domain.SectionReview {
			continue
		}
		if SectionComplete(d, s) {
			b.Completed = append(b.Completed, s)
		} else {
			b.Incomplete = append(b.Incomplete, s)
		}
	}
	return b
}

// ResumeStep returns the step a returning applicant continues from: consent when it was never
// given, otherwise the step of the first missing resume field in canonical order, otherwise review.
// It depends on nothing but d.
func ResumeStep(d domain.ApplicationData) domain.StepID {
	if !d.ConsentGiven {
		return domain.StepConsent
	}
	for _, f := range Fields {
		if f.Resume && !f.Filled(&d) {
			return f.Step
		}
	}
	return domain.StepReviewSummary
}
