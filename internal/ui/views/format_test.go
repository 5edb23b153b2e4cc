package views

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"projadm/internal/models"
)

func TestHumanDateUsesFrenchMonths(t *testing.T) {
	got := humanDate(time.Date(2025, 8, 3, 14, 0, 0, 0, time.UTC))
	if got != "03 août 2025" {
		t.Fatalf("unexpected date %q", got)
	}

	if humanDate(time.Time{}) != "—" {
		t.Fatal("zero time must render as a dash")
	}
}

func TestHumanDateStr(t *testing.T) {
	if got := humanDateStr("2025-01-15"); got != "15 janvier 2025" {
		t.Fatalf("unexpected date %q", got)
	}
	if got := humanDateStr("2025-01-15T10:30:00Z"); got != "15 janvier 2025" {
		t.Fatalf("timestamp prefix must parse, got %q", got)
	}
	if got := humanDateStr(""); got != "—" {
		t.Fatalf("empty must render as a dash, got %q", got)
	}
	if got := humanDateStr("not a date 1"); got != "not a date 1" {
		t.Fatalf("unparseable input must pass through, got %q", got)
	}
}

func TestGainCarriesSign(t *testing.T) {
	if got := gain(150); got != "+150.00" {
		t.Fatalf("positive gain %q", got)
	}
	if got := gain(-20.5); got != "-20.50" {
		t.Fatalf("negative gain %q", got)
	}
	if got := gain(0); got != "0.00" {
		t.Fatalf("zero gain %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("no-op truncate %q", got)
	}
	if got := truncate("éléphants", 5); got != "élép…" {
		t.Fatalf("rune-aware truncate %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Fatalf("zero width %q", got)
	}
}

func TestParseAmount(t *testing.T) {
	if v, err := parseAmount("  12.50 "); err != nil || v != 12.5 {
		t.Fatalf("got %v, %v", v, err)
	}
	if v, err := parseAmount(""); err != nil || v != 0 {
		t.Fatalf("empty must be zero: %v, %v", v, err)
	}
	if _, err := parseAmount("abc"); err == nil {
		t.Fatal("expected an error for non-numeric input")
	}
}

func TestCheckPayloadReportsFirstErrorPerField(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())

	errs := checkPayload(v, models.Credentials{Email: "not-an-email", Password: ""})
	if errs == nil {
		t.Fatal("expected validation errors")
	}
	if errs["Email"] != "failed on 'email' validation" {
		t.Errorf("email error %q", errs["Email"])
	}
	if errs["Password"] != "failed on 'required' validation" {
		t.Errorf("password error %q", errs["Password"])
	}

	if errs := checkPayload(v, models.Credentials{Email: "a@b.com", Password: "x"}); errs != nil {
		t.Fatalf("valid payload must pass, got %v", errs)
	}
}

func TestCheckPayloadValidatesEnums(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())

	payload := models.ProjectPayload{
		Nom:             "P",
		Status:          "archived",
		TypeProjet:      models.TypeDesign,
		DateAcquisition: "2025-01-01",
		DateDebut:       "2025-01-02",
		BeneficiaireID:  "b-1",
		ExpertID:        "e-1",
	}
	errs := checkPayload(v, payload)
	if errs == nil || errs["Status"] != "failed on 'oneof' validation" {
		t.Fatalf("expected status oneof error, got %v", errs)
	}
}
