package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/isdelr/fintrack-be/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"money":   FormatMoney,
	"percent": FormatPercent,
}).ParseFS(templateFS, "templates/*.html"))

// DefaultAppName is used in subjects and bodies when none is configured.
const DefaultAppName = "AI Finance"

// LowBalanceData feeds the low-balance alert template.
type LowBalanceData struct {
	AppName      string
	Name         string
	Salary       models.Money
	TotalSpent   models.Money
	Remaining    models.Money
	Percentage   float64
	Threshold    models.Money
	DashboardURL string
}

// WelcomeData feeds the welcome template.
type WelcomeData struct {
	AppName      string
	Name         string
	DashboardURL string
}

// TestData feeds the test-email template.
type TestData struct {
	AppName string
	SentAt  time.Time
}

// LowBalance renders the alert subject and body.
func LowBalance(data LowBalanceData) (string, string, error) {
	data.AppName = appName(data.AppName)
	body, err := render("low_balance.html", data)
	if err != nil {
		return "", "", err
	}
	subject := fmt.Sprintf("Critical: Low Balance Alert - %s%% Remaining", FormatPercent(data.Percentage))
	return subject, body, nil
}

// Welcome renders the welcome subject and body.
func Welcome(data WelcomeData) (string, string, error) {
	data.AppName = appName(data.AppName)
	body, err := render("welcome.html", data)
	if err != nil {
		return "", "", err
	}
	return "Welcome to " + data.AppName + " - Your Smart Financial Journey Begins!", body, nil
}

// Test renders the test-email subject and body.
func Test(data TestData) (string, string, error) {
	data.AppName = appName(data.AppName)
	body, err := render("test.html", data)
	if err != nil {
		return "", "", err
	}
	return "Test Email from " + data.AppName, body, nil
}

// FormatMoney renders an amount with thousands separators and at most two decimals.
func FormatMoney(m models.Money) string {
	return humanize.CommafWithDigits(m.Round(2).InexactFloat64(), 2)
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f", p)
}

// DashboardURL joins the frontend base URL with the dashboard path.
func DashboardURL(frontendURL string) string {
	return strings.TrimRight(frontendURL, "/") + "/dashboard"
}

func appName(name string) string {
	if name == "" {
		return DefaultAppName
	}
	return name
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
