package services

import "strings"

const (
	RoleTroubleshooter = "troubleshooter"
	RoleApprover       = "approver"
	RoleRequester      = "requester"
)

// Permissions describes what a user's position allows in the job order
// workflow. ApprovableDept is set only for approvers.
type Permissions struct {
	Role             string `json:"role"`
	IsTroubleshooter bool   `json:"is_troubleshooter"`
	IsApprover       bool   `json:"is_approver"`
	IsRequester      bool   `json:"is_requester"`
	ApprovableDept   string `json:"approvable_dept,omitempty"`
}

// Positions with full workflow authority. Matching is exact-string on the
// trimmed position title; anything fuzzier would hand out authority by typo.
var troubleshooterTitles = map[string]bool{
	"IT Officer":                        true,
	"IT Officer II":                     true,
	"Information Systems Analyst":       true,
	"Computer Maintenance Technologist": true,
}

// Department-head positions and the single department each may approve for.
var approverDepartments = map[string]string{
	"Chief Medical Technologist":   "Laboratory",
	"Senior Medical Technologist":  "Laboratory",
	"PDO Section Head":             "PDO",
	"Planning Officer III":         "PDO",
	"Chief Administrative Officer": "Admin",
	"Administrative Officer V":     "Admin",
	"Nurse V":                      "Follow-up",
	"Follow-up Unit Head":          "Follow-up",
}

// GetPermissions resolves a position title into a workflow role. Unrecognized
// or blank positions always fall back to requester.
func GetPermissions(position string) Permissions {
	title := strings.TrimSpace(position)

	if troubleshooterTitles[title] {
		return Permissions{
			Role:             RoleTroubleshooter,
			IsTroubleshooter: true,
		}
	}

	if dept, ok := approverDepartments[title]; ok {
		return Permissions{
			Role:           RoleApprover,
			IsApprover:     true,
			ApprovableDept: dept,
		}
	}

	return Permissions{
		Role:        RoleRequester,
		IsRequester: true,
	}
}

// IsTroubleshooterPosition reports whether a position title carries
// troubleshooter authority. Used when validating assignment targets.
func IsTroubleshooterPosition(position string) bool {
	return troubleshooterTitles[strings.TrimSpace(position)]
}

// NormalizeDepartment canonicalizes a free-text department for approval
// routing: surrounding space is trimmed and a case-insensitive match against
// a registered approver department snaps to its registered spelling.
func NormalizeDepartment(dept string) string {
	dept = strings.TrimSpace(dept)
	for _, known := range approverDepartments {
		if strings.EqualFold(dept, known) {
			return known
		}
	}
	return dept
}
