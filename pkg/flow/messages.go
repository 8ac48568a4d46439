package flow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/progress"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// GreetingMessage answers empty or greeting-only turns without touching any session.
const GreetingMessage = "👋 *Hello! Welcome to the Funding Application Bot*\n\n" +
	"I'm here to help you apply for business funding.\n\n" +
	"To get started, type: *START*\n" +
	"For help, type: *HELP*\n\n" +
	"You can save your progress at any time and return later."

// ConsentMessage is the privacy notice the applicant must AGREE to before any data is collected.
const ConsentMessage = `🔐 *DATA PRIVACY & CONSENT AGREEMENT* 🔐

Before we begin, please read and agree to how we handle your data:

✅ *HOW WE PROTECT YOUR DATA:*
• End-to-end encryption for all communications
• Secure servers with firewall protection
• Regular security audits and updates
• Access limited to authorized personnel only

✅ *HOW WE USE YOUR DATA:*
• Process your funding application
• Contact you regarding your application status
• Improve our services (using anonymized data)
• Comply with legal and regulatory requirements

✅ *YOUR RIGHTS:*
• Access your personal data anytime
• Request corrections to inaccurate data
• Withdraw consent at any time
• Request deletion of your data

📞 *Privacy questions:* privacy@fundingsa.org.za

*Type AGREE to consent and continue, or EXIT to cancel.*`

// HelpMessage lists the global commands.
const HelpMessage = `🆘 *HELP & COMMANDS* 🆘

*Available Commands:*
• MENU - Show main menu
• SAVE - Save progress and exit
• CONTINUE - Continue application
• PROGRESS - View application progress
• EDIT - Edit a section
• BACK - Go to the previous question
• RESTART - Start over
• HELP - Show this help message
• EXIT - Cancel application

*Need assistance?*
📧 support@fundingsa.org.za
📞 0800 123 4567

Type MENU to return to the main menu.`

// EditMenu lets the applicant jump to the first step of a section.
const EditMenu = `✏️ *EDIT INFORMATION*

Which section would you like to edit?

1. Personal Information
2. Business Information
3. Address Information
4. Employment & Revenue
5. Funding Request
6. Readiness Assessment
7. Back to Review

Type the number:`

const (
	welcomeOptions = "1️⃣ Continue Application\n" +
		"2️⃣ View Progress\n" +
		"3️⃣ Edit Information\n" +
		"4️⃣ Save & Exit\n" +
		"5️⃣ Help"

	savePrompt      = "💾 *Would you like to save your progress and continue later?*\n\nType YES to save or NO to continue"
	cancelledReply  = "Application cancelled. Your data has not been saved. Type START to begin again."
	restartedReply  = "Application restarted. Let's begin from the beginning."
	backUnavailable = "Cannot go back from here. Type MENU for options."
	genericRetry    = "Sorry, something went wrong processing your answer. Please try again."
	invalidStep     = "Invalid step. Please type RESTART to start over."
	notProvided     = "Not provided"
)

func welcomeMenu(d domain.ApplicationData) string {
	var b strings.Builder
	b.WriteString("🌟 *FUNDING APPLICATION BOT* 🌟\n\n")
	if d.Personal.FullName != "" {
		fmt.Fprintf(&b, "Welcome back, %s!\n\n", d.Personal.FullName)
	} else {
		b.WriteString("Welcome to the Funding Application System!\n\n")
	}
	fmt.Fprintf(&b, "📊 Your progress: %d%%\n\n", progress.PercentComplete(d))
	b.WriteString("What would you like to do?\n\n")
	b.WriteString(welcomeOptions)
	b.WriteString("\n\nType the number of your choice:")
	return b.String()
}

func continueMenu(d domain.ApplicationData) string {
	return fmt.Sprintf("Your application is %d%% complete. Where would you like to continue?\n\n", progress.PercentComplete(d)) +
		"Type:\n" +
		"*PERSONAL* - Personal Information\n" +
		"*BUSINESS* - Business Information\n" +
		"*ADDRESS* - Address Information\n" +
		"*EMPLOYMENT* - Employment & Revenue\n" +
		"*FUNDING* - Funding Request\n" +
		"*READINESS* - Readiness Assessment\n" +
		"*REVIEW* - Review & Submit"
}

func progressReport(d domain.ApplicationData, footer string) string {
	sections := progress.Sections(d)

	var b strings.Builder
	b.WriteString("📊 *APPLICATION PROGRESS*\n\n")
	fmt.Fprintf(&b, "Overall Completion: %d%%\n\n", progress.PercentComplete(d))
	b.WriteString("*Completed Sections:*\n")
	if len(sections.Completed) == 0 {
		b.WriteString("None yet\n")
	}
	for _, s := range sections.Completed {
		fmt.Fprintf(&b, "✅ %s\n", s.Title())
	}
	b.WriteString("\n")
	if len(sections.Incomplete) > 0 {
		b.WriteString("*Remaining Sections:*\n")
		for _, s := range sections.Incomplete {
			fmt.Fprintf(&b, "❌ %s\n", s.Title())
		}
		b.WriteString("\n")
	}
	b.WriteString(footer)
	return b.String()
}

// summary renders every section for review. Amounts use English digit grouping.
func summary(d domain.ApplicationData) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			value = notProvided
		}
		fmt.Fprintf(&b, "• %s: %s\n", label, value)
	}

	b.WriteString("📋 *APPLICATION SUMMARY*\n\n")
	b.WriteString("Please review your information:\n\n")

	b.WriteString("👤 *PERSONAL INFORMATION*\n")
	line("ID", d.Personal.IDNumber)
	line("Name", d.Personal.FullName)
	line("DOB", displayDate(d.Personal.DateOfBirth))
	line("Phone", d.Personal.Phone)
	line("Email", d.Personal.Email)
	b.WriteString("\n")

	b.WriteString("🏢 *BUSINESS INFORMATION*\n")
	line("Business Name", d.Business.Name)
	line("Trading Name", d.Business.TradingName)
	line("CIPC", d.Business.CIPCNumber)
	line("Sub-Sector", d.Business.SubSector)
	line("Business Type", d.Business.Type)
	line("Industry", d.Business.Industry)
	b.WriteString("\n")

	b.WriteString("📍 *ADDRESS INFORMATION*\n")
	line("Street", d.Address.Street)
	line("Township", d.Address.Township)
	line("City", d.Address.City)
	line("District", d.Address.District)
	line("Province", d.Address.Province)
	line("ZIP", d.Address.Zip)
	b.WriteString("\n")

	b.WriteString("👥 *EMPLOYMENT & REVENUE*\n")
	line("Total Employees", intString(d.Employment.TotalEmployees))
	line("Full-Time", intString(d.Employment.FullTime))
	line("Part-Time", intString(d.Employment.PartTime))
	line("Years in Operation", intString(d.Employment.YearsInOperation))
	line("Monthly Revenue", d.Employment.MonthlyRevenue)
	b.WriteString("\n")

	b.WriteString("💰 *FUNDING REQUEST*\n")
	amount := ""
	if d.Funding.Amount != nil {
		amount = p.Sprintf("R%.0f", *d.Funding.Amount)
	}
	line("Amount", amount)
	line("Purpose", d.Funding.Purpose.String())
	if d.Funding.OtherPurposeDetails != "" {
		line("Other Purpose", d.Funding.OtherPurposeDetails)
	}
	line("Preferred Type", d.Funding.PreferredType)
	if d.Funding.RepaymentAbility != "" {
		line("Repayment Ability", d.Funding.RepaymentAbility)
	}
	b.WriteString("\n")

	b.WriteString("📋 *READINESS ASSESSMENT*\n")
	line("Business Plan", d.Readiness.BusinessPlan)
	line("Financial Records", d.Readiness.FinancialRecords)
	line("Bank Statements", d.Readiness.BankStatements)
	line("Business Training", d.Readiness.Training)
	line("Cooperative Interest", d.Readiness.Cooperative)
	selfAssessment := ""
	if d.Readiness.SelfAssessment != nil {
		selfAssessment = strconv.Itoa(*d.Readiness.SelfAssessment) + "/5"
	}
	line("Self-Assessment", selfAssessment)
	line("Support Needs", d.Readiness.SupportNeeds.String())
	b.WriteString("\n")

	b.WriteString("Type *CONFIRM* to submit your application\n")
	b.WriteString("Type *EDIT* to make changes\n")
	b.WriteString("Type *SAVE* to save and continue later")
	return b.String()
}

// reference is the short application reference shown to the applicant.
func reference(sessionID string) string {
	if sessionID == "" {
		return "N/A"
	}
	if len(sessionID) > 8 {
		sessionID = sessionID[:8]
	}
	return strings.ToUpper(sessionID)
}

func displayDate(iso string) string {
	t, err := time.Parse(time.DateOnly, iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func choicePrompt(title, question string, options []string, footer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n\n", title, question)
	for i, opt := range options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	b.WriteString("\n")
	b.WriteString(footer)
	return b.String()
}
