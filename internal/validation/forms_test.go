package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestCheckPassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantOK   bool
	}{
		{"all classes present", "Password1!", true},
		{"longer mixed", "S3cure&Pass", true},
		{"lowercase only", "password", false},
		{"upper and digit only", "PASSWORD1", false},
		{"missing special", "Password1", false},
		{"missing digit", "Password!", false},
		{"missing upper", "password1!", false},
		{"too short", "Pa1!", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := checkPassword(tc.password)
			if tc.wantOK {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestCheckEmail(t *testing.T) {
	cases := []struct {
		name   string
		email  string
		wantOK bool
	}{
		{"simple", "a@b.co", true},
		{"subdomain", "user@mail.example.org", true},
		{"no at sign", "not-an-email", false},
		{"no tld", "user@host", false},
		{"space inside", "user name@example.com", false},
		{"empty", "", false},
		{"over length cap", strings.Repeat("a", 250) + "@example.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := checkEmail(tc.email)
			if tc.wantOK {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestCheckPhone(t *testing.T) {
	cases := []struct {
		name   string
		phone  string
		wantOK bool
	}{
		{"valid mobile", "9123456789", true},
		{"valid with separators", "91234 567-89", true},
		{"starts below six", "5123456789", false},
		{"too short", "12345", false},
		{"too long", "91234567890", false},
		{"letters", "91234abcde", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := checkPhone(tc.phone)
			if tc.wantOK {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestCheckFullName(t *testing.T) {
	assert.Empty(t, checkFullName("Asha Rao"))
	assert.Empty(t, checkFullName("Jo"))
	assert.NotEmpty(t, checkFullName(""))
	assert.NotEmpty(t, checkFullName("A"))
	assert.NotEmpty(t, checkFullName(strings.Repeat("x", 256)))
}

func TestCitizenRegistrationValidate(t *testing.T) {
	valid := CitizenRegistration{
		FullName:        "Asha Rao",
		Email:           "asha@example.com",
		Password:        "Password1!",
		ConfirmPassword: "Password1!",
		Consent:         true,
	}
	require.True(t, valid.Validate().Valid())

	t.Run("mismatched passwords", func(t *testing.T) {
		form := valid
		form.ConfirmPassword = "Different1!"
		errs := form.Validate()
		assert.Contains(t, errs, "confirmPassword")
	})

	t.Run("missing consent", func(t *testing.T) {
		form := valid
		form.Consent = false
		errs := form.Validate()
		assert.Contains(t, errs, "consent")
	})

	t.Run("everything wrong", func(t *testing.T) {
		errs := CitizenRegistration{}.Validate()
		for _, key := range []string{"fullName", "email", "password", "consent"} {
			assert.Contains(t, errs, key)
		}
	})
}

func TestOfficialRegistrationValidate(t *testing.T) {
	valid := OfficialRegistration{
		FullName:        "R K Sharma",
		Email:           "sharma@gov.example.in",
		PhoneNumber:     "9876543210",
		EmployeeID:      "EMP-1042",
		Department:      "roads",
		Designation:     "Junior Engineer",
		Zone:            "north",
		Password:        "Password1!",
		ConfirmPassword: "Password1!",
		Consent:         true,
		HasGovernmentID: true,
	}
	require.True(t, valid.Validate().Valid())

	t.Run("missing government id", func(t *testing.T) {
		form := valid
		form.HasGovernmentID = false
		errs := form.Validate()
		assert.Contains(t, errs, "idUpload")
	})

	t.Run("short employee id", func(t *testing.T) {
		form := valid
		form.EmployeeID = "E1"
		errs := form.Validate()
		assert.Contains(t, errs, "employeeId")
	})

	t.Run("missing zone and department", func(t *testing.T) {
		form := valid
		form.Zone = ""
		form.Department = ""
		errs := form.Validate()
		assert.Contains(t, errs, "zone")
		assert.Contains(t, errs, "department")
	})
}

func TestReportFormValidate(t *testing.T) {
	valid := ReportForm{
		Title:       "Large pothole near the bus stop",
		Description: "A deep pothole has opened up right before the pedestrian crossing.",
		IssueType:   "pothole",
		Latitude:    floatPtr(12.9716),
		Longitude:   floatPtr(77.5946),
		ImageCount:  3,
	}
	require.True(t, valid.Validate().Valid())

	cases := []struct {
		name    string
		mutate  func(*ReportForm)
		wantKey string
	}{
		{"missing title", func(f *ReportForm) { f.Title = "" }, "title"},
		{"missing location", func(f *ReportForm) { f.Latitude = nil }, "location"},
		{"latitude out of range", func(f *ReportForm) { f.Latitude = floatPtr(95) }, "location"},
		{"longitude out of range", func(f *ReportForm) { f.Longitude = floatPtr(-190) }, "location"},
		{"unknown issue type", func(f *ReportForm) { f.IssueType = "sinkhole" }, "issueType"},
		{"missing issue type", func(f *ReportForm) { f.IssueType = "" }, "issueType"},
		{"short description", func(f *ReportForm) { f.Description = "too short" }, "description"},
		{"too many images", func(f *ReportForm) { f.ImageCount = MaxReportImages + 1 }, "images"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := valid
			tc.mutate(&form)
			errs := form.Validate()
			assert.Contains(t, errs, tc.wantKey)
		})
	}
}

func TestCheckUpload(t *testing.T) {
	t.Run("accepted image within limit", func(t *testing.T) {
		errs := CheckUpload("idUpload", "image/png", 1024, MaxIDUploadBytes)
		assert.True(t, errs.Valid())
	})

	t.Run("jpg alias accepted", func(t *testing.T) {
		errs := CheckUpload("idUpload", "image/jpg", 1024, MaxIDUploadBytes)
		assert.True(t, errs.Valid())
	})

	t.Run("rejected type", func(t *testing.T) {
		errs := CheckUpload("idUpload", "application/pdf", 1024, MaxIDUploadBytes)
		assert.Contains(t, errs, "idUpload")
	})

	t.Run("over size limit", func(t *testing.T) {
		errs := CheckUpload("images", "image/jpeg", MaxReportImageBytes+1, MaxReportImageBytes)
		assert.Contains(t, errs, "images")
	})

	t.Run("exactly at limit", func(t *testing.T) {
		errs := CheckUpload("images", "image/jpeg", MaxReportImageBytes, MaxReportImageBytes)
		assert.True(t, errs.Valid())
	})
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "9123456789", NormalizePhone("91234 567-89"))
	assert.Equal(t, "9123456789", NormalizePhone("9123456789"))
}
