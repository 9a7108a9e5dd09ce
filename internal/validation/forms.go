package validation

import (
	"fmt"
	"strings"

	"roadsense/api/internal/media/sniffer"
	"roadsense/api/internal/models"
)

type CitizenRegistration struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	Consent         bool
}

func (f CitizenRegistration) Validate() Errors {
	errs := Errors{}

	if msg := checkFullName(f.FullName); msg != "" {
		errs["fullName"] = msg
	}
	if msg := checkEmail(f.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := checkPassword(f.Password); msg != "" {
		errs["password"] = msg
	}
	if f.Password != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	if !f.Consent {
		errs["consent"] = "You must accept the terms and conditions"
	}

	return errs
}

type OfficialRegistration struct {
	FullName        string
	Email           string
	PhoneNumber     string
	EmployeeID      string
	Department      string
	Designation     string
	Zone            string
	Password        string
	ConfirmPassword string
	Consent         bool
	HasGovernmentID bool
}

func (f OfficialRegistration) Validate() Errors {
	errs := Errors{}

	if msg := checkFullName(f.FullName); msg != "" {
		errs["fullName"] = msg
	}
	if msg := checkEmail(f.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := checkPhone(f.PhoneNumber); msg != "" {
		errs["phoneNumber"] = msg
	}
	if strings.TrimSpace(f.EmployeeID) == "" {
		errs["employeeId"] = "Employee ID is required"
	} else if len(f.EmployeeID) < 4 {
		errs["employeeId"] = "Employee ID must be at least 4 characters"
	}
	if f.Department == "" {
		errs["department"] = "Please select your department"
	}
	if strings.TrimSpace(f.Designation) == "" {
		errs["designation"] = "Designation is required"
	}
	if f.Zone == "" {
		errs["zone"] = "Please select your assigned zone"
	}
	if !f.HasGovernmentID {
		errs["idUpload"] = "Government ID is required for verification"
	}
	if msg := checkPassword(f.Password); msg != "" {
		errs["password"] = msg
	}
	if f.Password != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	if !f.Consent {
		errs["consent"] = "You must accept the terms and conditions"
	}

	return errs
}

type ReportForm struct {
	Title       string
	Description string
	IssueType   string
	Latitude    *float64
	Longitude   *float64
	ImageCount  int
}

func (f ReportForm) Validate() Errors {
	errs := Errors{}

	if f.Latitude == nil || f.Longitude == nil {
		errs["location"] = "Please select a location on the map"
	} else if *f.Latitude < -90 || *f.Latitude > 90 || *f.Longitude < -180 || *f.Longitude > 180 {
		errs["location"] = "Location is out of range"
	}
	if f.IssueType == "" {
		errs["issueType"] = "Please select an issue type"
	} else if _, ok := models.ParseIssueType(f.IssueType); !ok {
		errs["issueType"] = "Unknown issue type"
	}
	if strings.TrimSpace(f.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(f.Description) == "" {
		errs["description"] = "Description is required"
	} else if len(strings.TrimSpace(f.Description)) < 20 {
		errs["description"] = "Description must be at least 20 characters"
	}
	if f.ImageCount > MaxReportImages {
		errs["images"] = fmt.Sprintf("Maximum %d images allowed", MaxReportImages)
	}

	return errs
}

type PasswordChange struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

func (f PasswordChange) Validate() Errors {
	errs := Errors{}

	if f.CurrentPassword == "" {
		errs["currentPassword"] = "Current password is required"
	}
	if msg := checkPassword(f.NewPassword); msg != "" {
		errs["newPassword"] = msg
	}
	if f.NewPassword != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}

	return errs
}

type ProfileUpdate struct {
	FullName    string
	PhoneNumber string
}

func (f ProfileUpdate) Validate() Errors {
	errs := Errors{}

	if msg := checkFullName(f.FullName); msg != "" {
		errs["fullName"] = msg
	}
	if f.PhoneNumber != "" {
		if msg := checkPhone(f.PhoneNumber); msg != "" {
			errs["phoneNumber"] = msg
		}
	}

	return errs
}

// CheckUpload validates a single file against the declared content type and a
// size ceiling. The field name keys the resulting error.
func CheckUpload(field string, declaredMIME string, size int64, maxBytes int64) Errors {
	errs := Errors{}

	if declaredMIME != "" && !sniffer.AllowedDeclaredMIME(declaredMIME) {
		errs[field] = "Only image files (JPG, PNG, WEBP) are allowed"
		return errs
	}
	if size > maxBytes {
		errs[field] = fmt.Sprintf("File size must be less than %dMB", maxBytes/(1024*1024))
	}

	return errs
}
