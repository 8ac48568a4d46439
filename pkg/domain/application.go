package domain

import "time"

// PersonalInfo holds the applicant's identity details.
type PersonalInfo struct {
	IDNumber       string `json:"id_number,omitempty"`
	FullName       string `json:"full_name,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Age            *int   `json:"age,omitempty"`
	Phone          string `json:"phone,omitempty"`
	WhatsAppNumber string `json:"whatsapp_number,omitempty"`
	Email          string `json:"email,omitempty"`
}

// BusinessInfo describes the applicant's business.
type BusinessInfo struct {
	Name        string `json:"name,omitempty"`
	TradingName string `json:"trading_name,omitempty"`
	CIPCNumber  string `json:"cipc_number,omitempty"`
	SubSector   string `json:"sub_sector,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

// AddressInfo is the physical business address.
type AddressInfo struct {
	Street   string `json:"street,omitempty"`
	Township string `json:"township,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	Province string `json:"province,omitempty"`
	Zip      string `json:"zip,omitempty"`
}

// EmploymentRevenue captures head count, age of the business and revenue band.
// Counts are pointers so that zero is distinguishable from "not answered".
type EmploymentRevenue struct {
	TotalEmployees   *int   `json:"total_employees,omitempty"`
	FullTime         *int   `json:"full_time,omitempty"`
	PartTime         *int   `json:"part_time,omitempty"`
	YearsInOperation *int   `json:"years_in_operation,omitempty"`
	MonthlyRevenue   string `json:"monthly_revenue,omitempty"`
}

// FundingRequest is what the applicant asks for and why.
type FundingRequest struct {
	Amount              *float64  `json:"amount,omitempty"`
	Purpose             Selection `json:"purpose,omitempty"`
	OtherPurposeDetails string    `json:"other_purpose_details,omitempty"`
	PreferredType       string    `json:"preferred_type,omitempty"`
	RepaymentAbility    string    `json:"repayment_ability,omitempty"`
	Justification       string    `json:"justification,omitempty"`
}

// ReadinessAssessment captures the applicant's self-reported readiness.
type ReadinessAssessment struct {
	BusinessPlan     string    `json:"business_plan,omitempty"`
	FinancialRecords string    `json:"financial_records,omitempty"`
	BankStatements   string    `json:"bank_statements,omitempty"`
	Training         string    `json:"training,omitempty"`
	Cooperative      string    `json:"cooperative,omitempty"`
	SelfAssessment   *int      `json:"self_assessment,omitempty"`
	SupportNeeds     Selection `json:"support_needs,omitempty"`
}

// Answers that open a follow-up question.
const (
	PurposeOther = "Other"
	FundingLoan  = "Loan"
)

// ApplicationData is the partially-filled form. Every section is optional and fields are
// written monotonically: Merge never clears a value that is already present, except a
// follow-up answer whose triggering answer has changed (see DropStaleFollowUps).
type ApplicationData struct {
	Personal   PersonalInfo        `json:"personal"`
	Business   BusinessInfo        `json:"business"`
	Address    AddressInfo         `json:"address"`
	Employment EmploymentRevenue   `json:"employment"`
	Funding    FundingRequest      `json:"funding"`
	Readiness  ReadinessAssessment `json:"readiness"`

	ConsentGiven     bool              `json:"consent_given,omitempty"`
	ConsentTimestamp *time.Time        `json:"consent_timestamp,omitempty"`
	Status           ApplicationStatus `json:"status,omitempty"`
	Completed        bool              `json:"completed,omitempty"`
	SubmittedAt      *time.Time        `json:"submitted_at,omitempty"`
}

// Merge overlays every non-empty field of src onto d.
// Fields absent from src are left untouched; flags are only ever raised.
func (d *ApplicationData) Merge(src ApplicationData) {
	p, sp := &d.Personal, src.Personal
	mergeString(&p.IDNumber, sp.IDNumber)
	mergeString(&p.FullName, sp.FullName)
	mergeString(&p.DateOfBirth, sp.DateOfBirth)
	mergeInt(&p.Age, sp.Age)
	mergeString(&p.Phone, sp.Phone)
	mergeString(&p.WhatsAppNumber, sp.WhatsAppNumber)
	mergeString(&p.Email, sp.Email)

	b, sb := &d.Business, src.Business
	mergeString(&b.Name, sb.Name)
	mergeString(&b.TradingName, sb.TradingName)
	mergeString(&b.CIPCNumber, sb.CIPCNumber)
	mergeString(&b.SubSector, sb.SubSector)
	mergeString(&b.Description, sb.Description)
	mergeString(&b.Type, sb.Type)
	mergeString(&b.Industry, sb.Industry)

	a, sa := &d.Address, src.Address
	mergeString(&a.Street, sa.Street)
	mergeString(&a.Township, sa.Township)
	mergeString(&a.City, sa.City)
	mergeString(&a.District, sa.District)
	mergeString(&a.Province, sa.Province)
	mergeString(&a.Zip, sa.Zip)

	e, se := &d.Employment, src.Employment
	mergeInt(&e.TotalEmployees, se.TotalEmployees)
	mergeInt(&e.FullTime, se.FullTime)
	mergeInt(&e.PartTime, se.PartTime)
	mergeInt(&e.YearsInOperation, se.YearsInOperation)
	mergeString(&e.MonthlyRevenue, se.MonthlyRevenue)

	f, sf := &d.Funding, src.Funding
	if sf.Amount != nil {
		v := *sf.Amount
		f.Amount = &v
	}
	mergeSelection(&f.Purpose, sf.Purpose)
	mergeString(&f.OtherPurposeDetails, sf.OtherPurposeDetails)
	mergeString(&f.PreferredType, sf.PreferredType)
	mergeString(&f.RepaymentAbility, sf.RepaymentAbility)
	mergeString(&f.Justification, sf.Justification)

	r, sr := &d.Readiness, src.Readiness
	mergeString(&r.BusinessPlan, sr.BusinessPlan)
	mergeString(&r.FinancialRecords, sr.FinancialRecords)
	mergeString(&r.BankStatements, sr.BankStatements)
	mergeString(&r.Training, sr.Training)
	mergeString(&r.Cooperative, sr.Cooperative)
	mergeInt(&r.SelfAssessment, sr.SelfAssessment)
	mergeSelection(&r.SupportNeeds, sr.SupportNeeds)

	if src.ConsentGiven {
		d.ConsentGiven = true
	}
	mergeTime(&d.ConsentTimestamp, src.ConsentTimestamp)
	if src.Status != "" {
		d.Status = src.Status
	}
	if src.Completed {
		d.Completed = true
	}
	mergeTime(&d.SubmittedAt, src.SubmittedAt)
	d.DropStaleFollowUps()
}

// DropStaleFollowUps clears follow-up answers that the current answers no longer ask for:
// the 'Other' purpose details once Other is deselected, and the repayment answer once the
// preferred funding type is not a loan.
func (d *ApplicationData) DropStaleFollowUps() {
	f := &d.Funding
	if !f.Purpose.Empty() && !f.Purpose.Contains(PurposeOther) {
		f.OtherPurposeDetails = ""
	}
	if f.PreferredType != "" && f.PreferredType != FundingLoan {
		f.RepaymentAbility = ""
	}
}

// Clone returns a deep copy of d.
func (d ApplicationData) Clone() ApplicationData {
	out := d
	out.Personal.Age = cloneInt(d.Personal.Age)
	out.Employment.TotalEmployees = cloneInt(d.Employment.TotalEmployees)
	out.Employment.FullTime = cloneInt(d.Employment.FullTime)
	out.Employment.PartTime = cloneInt(d.Employment.PartTime)
	out.Employment.YearsInOperation = cloneInt(d.Employment.YearsInOperation)
	if d.Funding.Amount != nil {
		v := *d.Funding.Amount
		out.Funding.Amount = &v
	}
	out.Funding.Purpose = d.Funding.Purpose.Clone()
	out.Readiness.SelfAssessment = cloneInt(d.Readiness.SelfAssessment)
	out.Readiness.SupportNeeds = d.Readiness.SupportNeeds.Clone()
	out.ConsentTimestamp = cloneTime(d.ConsentTimestamp)
	out.SubmittedAt = cloneTime(d.SubmittedAt)
	return out
}

// Int returns a pointer to v. Handy for populating optional numeric fields.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst **int, v *int) {
	if v != nil {
		*dst = cloneInt(v)
	}
}

func mergeSelection(dst *Selection, v Selection) {
	if !v.Empty() {
		*dst = v.Clone()
	}
}

func mergeTime(dst **time.Time, v *time.Time) {
	if v != nil {
		*dst = cloneTime(v)
	}
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
