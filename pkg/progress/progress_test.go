package progress

import (
	"testing"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func fullData() domain.ApplicationData {
	return domain.ApplicationData{
		ConsentGiven: true,
		Personal: domain.PersonalInfo{
			IDNumber: "9001010001088", FullName: "Thandi Mokoena", DateOfBirth: "1990-01-01",
			Phone: "+27821234567", Email: "thandi@gmail.com",
		},
		Business: domain.BusinessInfo{
			Name: "Spaza", TradingName: "Spaza", CIPCNumber: "Not Provided", SubSector: "Grocery",
			Description: "Neighbourhood grocery shop", Type: "Sole Proprietor", Industry: "Retail",
		},
		Address: domain.AddressInfo{
			Street: "1 Main Rd", Township: "Soweto", City: "Johannesburg", District: "Joburg",
			Province: "Gauteng", Zip: "1804",
		},
		Employment: domain.EmploymentRevenue{
			TotalEmployees: domain.Int(0), FullTime: domain.Int(0), PartTime: domain.Int(0),
			YearsInOperation: domain.Int(0), MonthlyRevenue: "< R10,000",
		},
		Funding: domain.FundingRequest{
			Amount: domain.Float(50000), Purpose: domain.NewSelection("Other"),
			OtherPurposeDetails: "Solar panels", PreferredType: "Loan", RepaymentAbility: "YES",
			Justification: "Load shedding costs us customers every week.",
		},
		Readiness: domain.ReadinessAssessment{
			BusinessPlan: "Yes, complete", FinancialRecords: "Yes", BankStatements: "Yes", Training: "No",
			Cooperative: "No", SelfAssessment: domain.Int(3), SupportNeeds: domain.NewSelection("Mentorship"),
		},
	}
}

func TestTotalFields(t *testing.T) {
	assert.Equal(t, 36, TotalFields)

	perSection := map[domain.Section]int{}
	for _, f := range Fields {
		perSection[f.Section]++
		assert.True(t, f.Step.Valid(), f.Name)
		assert.Equal(t, f.Section, f.Step.Section(), f.Name)
	}
	assert.Equal(t, map[domain.Section]int{
		domain.SectionPersonal:   5,
		domain.SectionBusiness:   7,
		domain.SectionAddress:    6,
		domain.SectionEmployment: 5,
		domain.SectionFunding:    6,
		domain.SectionReadiness:  7,
	}, perSection)
}

func TestPercentComplete(t *testing.T) {
	assert.Equal(t, 0, PercentComplete(domain.ApplicationData{}))
	assert.Equal(t, 100, PercentComplete(fullData()))

	d := domain.ApplicationData{}
	d.Employment.TotalEmployees = domain.Int(0)
	assert.Equal(t, 3, PercentComplete(d), "zero counts as filled")
}

func TestPercentComplete_Monotonic(t *testing.T) {
	full := fullData()
	for _, f := range Fields {
		without := fullData()
		clearField(&without, f.Name)
		assert.False(t, f.Filled(&without), f.Name)
		assert.LessOrEqual(t, PercentComplete(without), PercentComplete(full), f.Name)
	}
}

func TestSections(t *testing.T) {
	b := Sections(domain.ApplicationData{})
	assert.Empty(t, b.Completed)
	assert.Len(t, b.Incomplete, 6)

	d := fullData()
	d.Address.Zip = ""
	d.Funding.OtherPurposeDetails = ""
	b = Sections(d)
	assert.Equal(t, []domain.Section{domain.SectionAddress}, b.Incomplete)
	assert.NotContains(t, b.Completed, domain.SectionReview)
}

func TestResumeStep(t *testing.T) {
	assert.Equal(t, domain.StepConsent, ResumeStep(domain.ApplicationData{}))

	d := domain.ApplicationData{ConsentGiven: true}
	assert.Equal(t, domain.StepPersonalID, ResumeStep(d))

	d = fullData()
	assert.Equal(t, domain.StepReviewSummary, ResumeStep(d))

	d.Business.Industry = ""
	d.Funding.PreferredType = ""
	assert.Equal(t, domain.StepBusinessIndustry, ResumeStep(d))
	assert.Equal(t, ResumeStep(d), ResumeStep(d))

	// Optional fields never hold a resumed applicant back.
	d = fullData()
	d.Address.Township = ""
	d.Address.Zip = ""
	assert.Equal(t, domain.StepReviewSummary, ResumeStep(d))
}

func clearField(d *domain.ApplicationData, name string) {
	switch name {
	case "idNumber":
		d.Personal.IDNumber = ""
	case "fullName":
		d.Personal.FullName = ""
	case "dateOfBirth":
		d.Personal.DateOfBirth = ""
	case "phone":
		d.Personal.Phone = ""
	case "email":
		d.Personal.Email = ""
	case "businessName":
		d.Business.Name = ""
	case "tradingName":
		d.Business.TradingName = ""
	case "cipcNumber":
		d.Business.CIPCNumber = ""
	case "subSector":
		d.Business.SubSector = ""
	case "description":
		d.Business.Description = ""
	case "businessType":
		d.Business.Type = ""
	case "industry":
		d.Business.Industry = ""
	case "streetAddress":
		d.Address.Street = ""
	case "township":
		d.Address.Township = ""
	case "city":
		d.Address.City = ""
	case "district":
		d.Address.District = ""
	case "province":
		d.Address.Province = ""
	case "zipCode":
		d.Address.Zip = ""
	case "totalEmployees":
		d.Employment.TotalEmployees = nil
	case "fullTimeEmployees":
		d.Employment.FullTime = nil
	case "partTimeEmployees":
		d.Employment.PartTime = nil
	case "yearsInOperation":
		d.Employment.YearsInOperation = nil
	case "monthlyRevenue":
		d.Employment.MonthlyRevenue = ""
	case "fundingAmount":
		d.Funding.Amount = nil
	case "fundingPurpose":
		d.Funding.Purpose = nil
	case "otherPurposeDetails":
		d.Funding.OtherPurposeDetails = ""
	case "preferredFundingType":
		d.Funding.PreferredType = ""
	case "repaymentAbility":
		d.Funding.RepaymentAbility = ""
	case "justification":
		d.Funding.Justification = ""
	case "businessPlan":
		d.Readiness.BusinessPlan = ""
	case "financialRecords":
		d.Readiness.FinancialRecords = ""
	case "bankStatements":
		d.Readiness.BankStatements = ""
	case "training":
		d.Readiness.Training = ""
	case "cooperative":
		d.Readiness.Cooperative = ""
	case "selfAssessment":
		d.Readiness.SelfAssessment = nil
	case "supportNeeds":
		d.Readiness.SupportNeeds = nil
	}
}
