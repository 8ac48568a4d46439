// Package records maps ApplicationData to and from the flat row kept by the external record store.
//
// Keys are the column names of the applicants table. Multi-select answers are joined with ", "
// on the way out; on the way in either a joined string or an array is accepted.
package records

// Column names of the applicants table.
const (
	FieldIDNumber    = "South African ID"
	FieldFullName    = "Full Name"
	FieldDateOfBirth = "Date of Birth"
	FieldPhone       = "Phone Number"
	FieldEmail       = "Email Address"
	// FieldName and FieldEmailShort duplicate the primary columns for legacy views.
	FieldName       = "Name"
	FieldEmailShort = "Email"

	FieldBusinessName = "Business Name"
	FieldTradingName  = "Trading Name"
	FieldBusinessType = "Business Type"
	FieldCIPC         = "CIPC Registration Number"
	FieldIndustry     = "Industry"
	FieldSubSector    = "Sub-Sector"
	FieldDescription  = "Business Description"

	FieldStreet   = "Street Address"
	FieldTownship = "Township"
	FieldCity     = "City"
	FieldDistrict = "District"
	FieldZip      = "Zip Code"
	FieldProvince = "Province"

	FieldTotalEmployees   = "Total Employees"
	FieldFullTime         = "Full-Time Count"
	FieldPartTime         = "Part-Time Count"
	FieldYearsInOperation = "Years in Operation"
	FieldMonthlyRevenue   = "Monthly Revenue Range"

	FieldFundingAmount    = "Funding Amount ZAR"
	FieldFundingPurpose   = "Funding Purpose"
	FieldOtherPurpose     = "Other Purpose Details"
	FieldFundingType      = "Preferred Funding Type"
	FieldRepayment        = "Loan Repayment Ability"
	FieldJustification    = "Funding Justification"
	FieldBusinessPlan     = "Business Plan Status"
	FieldFinancialRecords = "Financial Records"
	FieldBankStatements   = "Bank Statements"
	FieldTraining         = "Business Training"
	FieldCooperative      = "Cooperative Interest"
	FieldSelfAssessment   = "Self-Assessment Readiness"
	FieldSupportNeeds     = "Support Needs"

	FieldWhatsApp         = "WhatsApp Number"
	FieldSessionID        = "Session ID"
	FieldStatus           = "Application Status"
	FieldConsentGiven     = "Consent Given"
	FieldConsentTimestamp = "Consent Timestamp"
	FieldLastUpdated      = "Last Updated"
	FieldCompleted        = "Completed"
	FieldCompletedAt      = "Completed At"
)

// ListSeparator joins multi-select answers in a single text column.
const ListSeparator = ", "

// notApplicable is what older rows hold in the repayment column when the question was skipped.
const notApplicable = "N/A"
