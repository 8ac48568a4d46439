package records

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Record is a decoded row.
type Record struct {
	SessionID   string
	Address     string
	Data        domain.ApplicationData
	LastUpdated time.Time
}

// Meta is the part of a row the stores index on.
type Meta struct {
	SessionID   string
	Address     string
	Status      domain.ApplicationStatus
	LastUpdated time.Time
}

// row mirrors the columns for decoding. Values arrive loosely typed (JSON numbers, joined lists,
// RFC 3339 strings) so decoding is weakly typed.
type row struct {
	IDNumber    string `mapstructure:"South African ID"`
	FullName    string `mapstructure:"Full Name"`
	DateOfBirth string `mapstructure:"Date of Birth"`
	Phone       string `mapstructure:"Phone Number"`
	Email       string `mapstructure:"Email Address"`

	BusinessName string `mapstructure:"Business Name"`
	TradingName  string `mapstructure:"Trading Name"`
	BusinessType string `mapstructure:"Business Type"`
	CIPC         string `mapstructure:"CIPC Registration Number"`
	Industry     string `mapstructure:"Industry"`
	SubSector    string `mapstructure:"Sub-Sector"`
	Description  string `mapstructure:"Business Description"`

	Street   string `mapstructure:"Street Address"`
	Township string `mapstructure:"Township"`
	City     string `mapstructure:"City"`
	District string `mapstructure:"District"`
	Zip      string `mapstructure:"Zip Code"`
	Province string `mapstructure:"Province"`

	TotalEmployees   *int   `mapstructure:"Total Employees"`
	FullTime         *int   `mapstructure:"Full-Time Count"`
	PartTime         *int   `mapstructure:"Part-Time Count"`
	YearsInOperation *int   `mapstructure:"Years in Operation"`
	MonthlyRevenue   string `mapstructure:"Monthly Revenue Range"`

	FundingAmount  *float64 `mapstructure:"Funding Amount ZAR"`
	FundingPurpose []string `mapstructure:"Funding Purpose"`
	OtherPurpose   string   `mapstructure:"Other Purpose Details"`
	FundingType    string   `mapstructure:"Preferred Funding Type"`
	Repayment      string   `mapstructure:"Loan Repayment Ability"`
	Justification  string   `mapstructure:"Funding Justification"`

	BusinessPlan     string   `mapstructure:"Business Plan Status"`
	FinancialRecords string   `mapstructure:"Financial Records"`
	BankStatements   string   `mapstructure:"Bank Statements"`
	Training         string   `mapstructure:"Business Training"`
	Cooperative      string   `mapstructure:"Cooperative Interest"`
	SelfAssessment   string   `mapstructure:"Self-Assessment Readiness"`
	SupportNeeds     []string `mapstructure:"Support Needs"`

	WhatsApp         string     `mapstructure:"WhatsApp Number"`
	SessionID        string     `mapstructure:"Session ID"`
	Status           string     `mapstructure:"Application Status"`
	ConsentGiven     bool       `mapstructure:"Consent Given"`
	ConsentTimestamp *time.Time `mapstructure:"Consent Timestamp"`
	LastUpdated      *time.Time `mapstructure:"Last Updated"`
	Completed        bool       `mapstructure:"Completed"`
	CompletedAt      *time.Time `mapstructure:"Completed At"`
}

// Encode flattens an application into a row carrying every column. Unanswered questions are
// written as "" (text and lists) or nil (numbers and timestamps), so an update also clears
// answers that were discarded since the last write, as after a restart.
func Encode(sessionID, address string, d domain.ApplicationData, now time.Time) domain.Fields {
	f := domain.Fields{}
	text := func(key, v string) {
		f[key] = v
	}
	count := func(key string, v *int) {
		f[key] = nil
		if v != nil {
			f[key] = *v
		}
	}
	list := func(key string, v domain.Selection) {
		f[key] = v.String()
	}
	stamp := func(key string, v *time.Time) {
		f[key] = nil
		if v != nil {
			f[key] = v.UTC().Format(time.RFC3339)
		}
	}

	p := d.Personal
	text(FieldIDNumber, p.IDNumber)
	text(FieldFullName, p.FullName)
	text(FieldName, p.FullName)
	text(FieldDateOfBirth, p.DateOfBirth)
	text(FieldPhone, p.Phone)
	text(FieldEmail, p.Email)
	text(FieldEmailShort, p.Email)

	b := d.Business
	text(FieldBusinessName, b.Name)
	text(FieldTradingName, b.TradingName)
	text(FieldBusinessType, b.Type)
	text(FieldCIPC, b.CIPCNumber)
	text(FieldIndustry, b.Industry)
	text(FieldSubSector, b.SubSector)
	text(FieldDescription, b.Description)

	a := d.Address
	text(FieldStreet, a.Street)
	text(FieldTownship, a.Township)
	text(FieldCity, a.City)
	text(FieldDistrict, a.District)
	text(FieldZip, a.Zip)
	text(FieldProvince, a.Province)

	e := d.Employment
	count(FieldTotalEmployees, e.TotalEmployees)
	count(FieldFullTime, e.FullTime)
	count(FieldPartTime, e.PartTime)
	count(FieldYearsInOperation, e.YearsInOperation)
	text(FieldMonthlyRevenue, e.MonthlyRevenue)

	fr := d.Funding
	f[FieldFundingAmount] = nil
	if fr.Amount != nil {
		f[FieldFundingAmount] = *fr.Amount
	}
	list(FieldFundingPurpose, fr.Purpose)
	text(FieldOtherPurpose, fr.OtherPurposeDetails)
	text(FieldFundingType, fr.PreferredType)
	text(FieldRepayment, fr.RepaymentAbility)
	text(FieldJustification, fr.Justification)

	r := d.Readiness
	text(FieldBusinessPlan, r.BusinessPlan)
	text(FieldFinancialRecords, r.FinancialRecords)
	text(FieldBankStatements, r.BankStatements)
	text(FieldTraining, r.Training)
	text(FieldCooperative, r.Cooperative)
	f[FieldSelfAssessment] = ""
	if r.SelfAssessment != nil {
		f[FieldSelfAssessment] = strconv.Itoa(*r.SelfAssessment)
	}
	list(FieldSupportNeeds, r.SupportNeeds)

	status := d.Status
	if status == "" {
		status = domain.StatusDraft
	}
	if d.Completed {
		status = domain.StatusSubmitted
	}
	text(FieldWhatsApp, address)
	text(FieldSessionID, sessionID)
	f[FieldStatus] = string(status)
	f[FieldConsentGiven] = d.ConsentGiven
	stamp(FieldConsentTimestamp, d.ConsentTimestamp)
	f[FieldLastUpdated] = now.UTC().Format(time.RFC3339)
	f[FieldCompleted] = d.Completed
	stamp(FieldCompletedAt, d.SubmittedAt)
	return f
}

// Decode parses a row. now is used to derive the applicant's age from the stored birth date.
func Decode(fields domain.Fields, now time.Time) (Record, error) {
	var r row
	if err := decodeRow(fields, &r); err != nil {
		return Record{}, err
	}

	var d domain.ApplicationData
	d.Personal = domain.PersonalInfo{
		IDNumber:       r.IDNumber,
		FullName:       r.FullName,
		DateOfBirth:    calendarDate(r.DateOfBirth),
		Phone:          r.Phone,
		WhatsAppNumber: r.Phone,
		Email:          r.Email,
	}
	if dob, err := time.Parse(time.DateOnly, d.Personal.DateOfBirth); err == nil {
		d.Personal.Age = domain.Int(age(dob, now))
	}
	d.Business = domain.BusinessInfo{
		Name:        r.BusinessName,
		TradingName: r.TradingName,
		CIPCNumber:  r.CIPC,
		SubSector:   r.SubSector,
		Description: r.Description,
		Type:        r.BusinessType,
		Industry:    r.Industry,
	}
	d.Address = domain.AddressInfo{
		Street:   r.Street,
		Township: r.Township,
		City:     r.City,
		District: r.District,
		Province: r.Province,
		Zip:      r.Zip,
	}
	d.Employment = domain.EmploymentRevenue{
		TotalEmployees:   r.TotalEmployees,
		FullTime:         r.FullTime,
		PartTime:         r.PartTime,
		YearsInOperation: r.YearsInOperation,
		MonthlyRevenue:   r.MonthlyRevenue,
	}
	d.Funding = domain.FundingRequest{
		Amount:              r.FundingAmount,
		Purpose:             domain.NewSelection(r.FundingPurpose...),
		OtherPurposeDetails: r.OtherPurpose,
		PreferredType:       r.FundingType,
		Justification:       r.Justification,
	}
	if r.Repayment != notApplicable {
		d.Funding.RepaymentAbility = r.Repayment
	}
	d.Readiness = domain.ReadinessAssessment{
		BusinessPlan:     r.BusinessPlan,
		FinancialRecords: r.FinancialRecords,
		BankStatements:   r.BankStatements,
		Training:         r.Training,
		Cooperative:      r.Cooperative,
		SelfAssessment:   leadingInt(r.SelfAssessment),
		SupportNeeds:     domain.NewSelection(r.SupportNeeds...),
	}
	d.ConsentGiven = r.ConsentGiven
	d.ConsentTimestamp = r.ConsentTimestamp
	d.Status = domain.ApplicationStatus(r.Status)
	d.Completed = r.Completed
	d.SubmittedAt = r.CompletedAt

	rec := Record{SessionID: r.SessionID, Address: r.WhatsApp, Data: d}
	if r.LastUpdated != nil {
		rec.LastUpdated = *r.LastUpdated
	}
	return rec, nil
}

// ReadMeta decodes only the indexing columns.
func ReadMeta(fields domain.Fields) (Meta, error) {
	var m struct {
		SessionID   string     `mapstructure:"Session ID"`
		Address     string     `mapstructure:"WhatsApp Number"`
		Status      string     `mapstructure:"Application Status"`
		LastUpdated *time.Time `mapstructure:"Last Updated"`
	}
	if err := decodeRow(fields, &m); err != nil {
		return Meta{}, err
	}
	meta := Meta{SessionID: m.SessionID, Address: m.Address, Status: domain.ApplicationStatus(m.Status)}
	if m.LastUpdated != nil {
		meta.LastUpdated = *m.LastUpdated
	}
	return meta, nil
}

// Merge overlays update onto existing, the create-or-update semantics of the record store:
// columns absent from update keep their stored value.
func Merge(existing, update domain.Fields) domain.Fields {
	out := make(domain.Fields, len(existing)+len(update))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range update {
		out[k] = v
	}
	return out
}

func decodeRow(fields domain.Fields, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			joinedListHook,
		),
		Result: out,
	})
	if err != nil {
		return fmt.Errorf("records: build decoder: %w", err)
	}
	if err := dec.Decode(present(fields)); err != nil {
		return fmt.Errorf("records: decode row: %w", err)
	}
	return nil
}

// joinedListHook splits a joined text column into a list.
func joinedListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
		return data, nil
	}
	parts := strings.Split(data.(string), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// present drops empty columns; weak decoding would otherwise turn "" into zero values.
func present(fields domain.Fields) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// calendarDate accepts "2006-01-02" or a full timestamp and keeps the date part.
func calendarDate(s string) string {
	if len(s) >= len(time.DateOnly) {
		if t, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)]); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return s
}

func leadingInt(s string) *int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return domain.Int(n)
}

func age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
