package flow

import (
	"context"
	"testing"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longJustification = "The funds will buy a walk-in cold room so we can store stock and supply two more supermarkets."

func TestSteps_ValidInputAdvances(t *testing.T) {
	withDOB := consented()
	withDOB.Personal.DateOfBirth = "1990-01-01"

	tests := []struct {
		step  domain.StepID
		data  domain.ApplicationData
		input string
		next  domain.StepID
	}{
		{domain.StepPersonalID, consented(), "9001010001088", domain.StepPersonalName},
		{domain.StepPersonalName, consented(), "Thandi Mokoena", domain.StepPersonalDOB},
		{domain.StepPersonalName, withDOB, "Thandi Mokoena", domain.StepPersonalDOBConfirm},
		{domain.StepPersonalDOBConfirm, withDOB, "yes", domain.StepPersonalPhone},
		{domain.StepPersonalDOBConfirm, withDOB, "no", domain.StepPersonalDOB},
		{domain.StepPersonalDOBConfirm, withDOB, "15/01/1990", domain.StepPersonalPhone},
		{domain.StepPersonalDOB, consented(), "15/01/1990", domain.StepPersonalPhone},
		{domain.StepPersonalPhone, consented(), "082 123 4567", domain.StepPersonalEmail},
		{domain.StepPersonalEmail, consented(), "thandi@gmail.com", domain.StepBusinessName},
		{domain.StepBusinessName, consented(), "Mokoena Fresh Produce", domain.StepBusinessTrading},
		{domain.StepBusinessTrading, consented(), "yes", domain.StepBusinessTradingName},
		{domain.StepBusinessTrading, consented(), "no", domain.StepBusinessCIPC},
		{domain.StepBusinessTradingName, consented(), "Fresh Veg", domain.StepBusinessCIPC},
		{domain.StepBusinessCIPC, consented(), "skip", domain.StepBusinessSubSector},
		{domain.StepBusinessSubSector, consented(), "Organic vegetable farming", domain.StepBusinessDescription},
		{domain.StepBusinessDescription, consented(), "We grow organic vegetables for local shops.", domain.StepBusinessType},
		{domain.StepBusinessType, consented(), "1", domain.StepBusinessIndustry},
		{domain.StepBusinessIndustry, consented(), "agriculture", domain.StepAddressStreet},
		{domain.StepAddressStreet, consented(), "12 Main Road", domain.StepAddressTownship},
		{domain.StepAddressTownship, consented(), "Soweto", domain.StepAddressCity},
		{domain.StepAddressCity, consented(), "Johannesburg", domain.StepAddressDistrict},
		{domain.StepAddressDistrict, consented(), "City of Johannesburg", domain.StepAddressProvince},
		{domain.StepAddressProvince, consented(), "3", domain.StepAddressZip},
		{domain.StepAddressZip, consented(), "2000", domain.StepEmploymentTotal},
		{domain.StepEmploymentTotal, consented(), "5", domain.StepEmploymentFullTime},
		{domain.StepEmploymentFullTime, consented(), "3 people", domain.StepEmploymentPartTime},
		{domain.StepEmploymentPartTime, consented(), "0", domain.StepEmploymentYears},
		{domain.StepEmploymentYears, consented(), "4", domain.StepEmploymentRevenue},
		{domain.StepEmploymentRevenue, consented(), "2", domain.StepFundingAmount},
		{domain.StepFundingAmount, consented(), "R50,000", domain.StepFundingPurpose},
		{domain.StepFundingPurpose, consented(), "1,3", domain.StepFundingType},
		{domain.StepFundingOtherPurpose, consented(), "Solar panels", domain.StepFundingType},
		{domain.StepFundingType, consented(), "1", domain.StepFundingJustification},
		{domain.StepFundingRepayment, consented(), "unsure", domain.StepFundingJustification},
		{domain.StepFundingJustification, consented(), longJustification, domain.StepReadinessBusinessPlan},
		{domain.StepReadinessBusinessPlan, consented(), "1", domain.StepReadinessFinancialRecords},
		{domain.StepReadinessFinancialRecords, consented(), "2", domain.StepReadinessBankStatements},
		{domain.StepReadinessBankStatements, consented(), "1", domain.StepReadinessTraining},
		{domain.StepReadinessTraining, consented(), "4", domain.StepReadinessCooperative},
		{domain.StepReadinessCooperative, consented(), "5", domain.StepReadinessSelfAssessment},
		{domain.StepReadinessSelfAssessment, consented(), "3", domain.StepReadinessSupportNeeds},
		{domain.StepReadinessSupportNeeds, consented(), "1,3", domain.StepReviewSummary},
		{domain.StepReviewSummary, consented(), "confirm", domain.StepConfirmSubmission},
	}

	e := newTestEngine()
	for _, tt := range tests {
		t.Run(string(tt.step)+"/"+tt.input, func(t *testing.T) {
			s := sessionAt(tt.step, tt.data.Clone())
			res := e.Process(context.Background(), s, tt.input)

			assert.False(t, res.Rejected, res.Response)
			assert.Equal(t, tt.next, res.Next)
			assert.Equal(t, tt.next, s.CurrentStep)
		})
	}
}

func TestSteps_InvalidInputStays(t *testing.T) {
	withDOB := consented()
	withDOB.Personal.DateOfBirth = "1990-01-01"

	tests := []struct {
		step  domain.StepID
		data  domain.ApplicationData
		input string
	}{
		{domain.StepPersonalID, consented(), "12345"},
		{domain.StepPersonalID, consented(), "9002300001085"},
		{domain.StepPersonalName, consented(), "R2-D2"},
		{domain.StepPersonalDOBConfirm, withDOB, "not a date"},
		{domain.StepPersonalDOB, consented(), "abc"},
		{domain.StepPersonalPhone, consented(), "12345"},
		{domain.StepPersonalEmail, consented(), "not-an-email"},
		{domain.StepBusinessName, consented(), "A"},
		{domain.StepBusinessTrading, consented(), "maybe"},
		{domain.StepBusinessTradingName, consented(), "X"},
		{domain.StepBusinessCIPC, consented(), "12345"},
		{domain.StepBusinessSubSector, consented(), "ab"},
		{domain.StepBusinessDescription, consented(), "short"},
		{domain.StepBusinessType, consented(), "99"},
		{domain.StepBusinessIndustry, consented(), "99"},
		{domain.StepAddressStreet, consented(), "   "},
		{domain.StepAddressTownship, consented(), ""},
		{domain.StepAddressCity, consented(), " "},
		{domain.StepAddressDistrict, consented(), ""},
		{domain.StepAddressProvince, consented(), "99"},
		{domain.StepAddressZip, consented(), "0000"},
		{domain.StepEmploymentTotal, consented(), "abc"},
		{domain.StepEmploymentFullTime, consented(), "1001"},
		{domain.StepEmploymentPartTime, consented(), "-1"},
		{domain.StepEmploymentYears, consented(), "99"},
		{domain.StepEmploymentRevenue, consented(), "99"},
		{domain.StepFundingAmount, consented(), "500"},
		{domain.StepFundingAmount, consented(), "nan"},
		{domain.StepFundingAmount, consented(), "1e6"},
		{domain.StepFundingPurpose, consented(), "99"},
		{domain.StepFundingOtherPurpose, consented(), "abc"},
		{domain.StepFundingType, consented(), "99"},
		{domain.StepFundingRepayment, consented(), "maybe"},
		{domain.StepFundingJustification, consented(), "Need money"},
		{domain.StepReadinessBusinessPlan, consented(), "99"},
		{domain.StepReadinessSelfAssessment, consented(), "9"},
		{domain.StepReadinessSupportNeeds, consented(), "99"},
	}

	e := newTestEngine()
	for _, tt := range tests {
		t.Run(string(tt.step)+"/"+tt.input, func(t *testing.T) {
			s := sessionAt(tt.step, tt.data.Clone())
			before := s.Data.Clone()

			res := e.Process(context.Background(), s, tt.input)

			assert.True(t, res.Rejected)
			assert.Equal(t, tt.step, s.CurrentStep)
			assert.Equal(t, before, s.Data)
			assert.Empty(t, s.History)
			assert.Contains(t, res.Response, "❌")
		})
	}
}

func TestSteps_NonFormStepsStayOnUnknownInput(t *testing.T) {
	e := newTestEngine()
	for _, id := range []domain.StepID{
		domain.StepConsent, domain.StepWelcome, domain.StepEditMenu, domain.StepContinueMenu,
		domain.StepSaveConfirm, domain.StepReviewSummary, domain.StepConfirmSubmission,
	} {
		s := sessionAt(id, consented())
		before := s.Data.Clone()
		e.Process(context.Background(), s, "banana")
		assert.Equal(t, id, s.CurrentStep, id)
		assert.Equal(t, before, s.Data, id)
	}
}

func TestSteps_WriteValues(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	s := sessionAt(domain.StepPersonalPhone, consented())
	e.Process(ctx, s, "082 123 4567")
	assert.Equal(t, "+27821234567", s.Data.Personal.Phone)
	assert.Equal(t, "+27821234567", s.Data.Personal.WhatsAppNumber)

	s = sessionAt(domain.StepBusinessTrading, consented())
	s.Data.Business.Name = "Mokoena Fresh Produce"
	e.Process(ctx, s, "n")
	assert.Equal(t, "Mokoena Fresh Produce", s.Data.Business.TradingName)

	s = sessionAt(domain.StepBusinessCIPC, consented())
	e.Process(ctx, s, "SKIP")
	assert.Equal(t, "Not Provided", s.Data.Business.CIPCNumber)

	s = sessionAt(domain.StepFundingAmount, consented())
	e.Process(ctx, s, "R 250 000")
	require.NotNil(t, s.Data.Funding.Amount)
	assert.Equal(t, 250000.0, *s.Data.Funding.Amount)

	s = sessionAt(domain.StepReadinessSelfAssessment, consented())
	e.Process(ctx, s, "4")
	require.NotNil(t, s.Data.Readiness.SelfAssessment)
	assert.Equal(t, 4, *s.Data.Readiness.SelfAssessment)

	s = sessionAt(domain.StepReadinessSupportNeeds, consented())
	res := e.Process(ctx, s, "mentorship, 1")
	assert.Equal(t, domain.Selection{"Mentorship", "Funding/Grants"}, s.Data.Readiness.SupportNeeds)
	assert.True(t, res.Persist)
	assert.Contains(t, res.Response, "APPLICATION SUMMARY")
}

func TestSteps_ReeditClearsFollowUps(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	data := consented()
	data.Funding.Purpose = domain.NewSelection("Expansion", "Other")
	data.Funding.OtherPurposeDetails = "Cold room"
	data.Funding.PreferredType = "Loan"
	data.Funding.RepaymentAbility = "YES"

	s := sessionAt(domain.StepFundingPurpose, data)
	e.Process(ctx, s, "Expansion")
	assert.Equal(t, domain.StepFundingType, s.CurrentStep)
	assert.Empty(t, s.Data.Funding.OtherPurposeDetails)
	assert.Equal(t, "YES", s.Data.Funding.RepaymentAbility)

	e.Process(ctx, s, "Grant")
	assert.Equal(t, domain.StepFundingJustification, s.CurrentStep)
	assert.Empty(t, s.Data.Funding.RepaymentAbility)

	s = sessionAt(domain.StepFundingPurpose, data.Clone())
	e.Process(ctx, s, "1, 5")
	assert.Equal(t, domain.StepFundingOtherPurpose, s.CurrentStep)
	assert.Equal(t, "Cold room", s.Data.Funding.OtherPurposeDetails, "kept while Other stays selected")
}

func TestSteps_SectionEndsCheckpoint(t *testing.T) {
	e := newTestEngine()
	inputs := map[domain.StepID]string{
		domain.StepPersonalEmail:     "thandi@gmail.com",
		domain.StepAddressZip:        "2000",
		domain.StepAddressCity:       "Durban",
		domain.StepEmploymentRevenue: "1",
	}
	for id, in := range inputs {
		s := sessionAt(id, consented())
		res := e.Process(context.Background(), s, in)
		assert.Equal(t, id != domain.StepAddressCity, res.Persist, id)
	}
}
