package services

import "testing"

func TestGetPermissionsTroubleshooter(t *testing.T) {
	perms := GetPermissions("IT Officer")

	if perms.Role != RoleTroubleshooter {
		t.Fatalf("expected troubleshooter role, got %q", perms.Role)
	}
	if !perms.IsTroubleshooter || perms.IsApprover || perms.IsRequester {
		t.Fatalf("unexpected flags: %+v", perms)
	}
	if perms.ApprovableDept != "" {
		t.Fatalf("troubleshooter should have no department restriction, got %q", perms.ApprovableDept)
	}
}

func TestGetPermissionsApprover(t *testing.T) {
	perms := GetPermissions("Chief Medical Technologist")

	if perms.Role != RoleApprover {
		t.Fatalf("expected approver role, got %q", perms.Role)
	}
	if !perms.IsApprover {
		t.Fatalf("unexpected flags: %+v", perms)
	}
	if perms.ApprovableDept != "Laboratory" {
		t.Fatalf("expected Laboratory, got %q", perms.ApprovableDept)
	}
}

func TestGetPermissionsDefaultsToRequester(t *testing.T) {
	positions := []string{
		"",
		"   ",
		"Janitor",
		"it officer",     // matching is case-sensitive
		"IT Officer III", // not in the fixed set
		"Chief medical technologist",
		"Medical Technologist", // close to an approver title, but not exact
	}

	for _, position := range positions {
		perms := GetPermissions(position)
		if perms.Role != RoleRequester {
			t.Fatalf("position %q: expected requester, got %q", position, perms.Role)
		}
		if !perms.IsRequester || perms.IsApprover || perms.IsTroubleshooter {
			t.Fatalf("position %q: unexpected flags %+v", position, perms)
		}
		if perms.ApprovableDept != "" {
			t.Fatalf("position %q: requester should have no approvable dept", position)
		}
	}
}

func TestGetPermissionsTrimsWhitespace(t *testing.T) {
	perms := GetPermissions("  IT Officer  ")
	if perms.Role != RoleTroubleshooter {
		t.Fatalf("expected trimmed match, got %q", perms.Role)
	}
}

func TestGetPermissionsIsDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		a := GetPermissions("PDO Section Head")
		b := GetPermissions("PDO Section Head")
		if a != b {
			t.Fatalf("same input produced different results: %+v vs %+v", a, b)
		}
	}
}

func TestNormalizeDepartment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Laboratory", "Laboratory"},
		{" Laboratory ", "Laboratory"},
		{"laboratory", "Laboratory"},
		{"PDO", "PDO"},
		{"pdo", "PDO"},
		{"follow-UP", "Follow-up"},
		{"Radiology", "Radiology"}, // unknown departments pass through trimmed
		{"  Radiology  ", "Radiology"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeDepartment(tc.in); got != tc.want {
			t.Fatalf("NormalizeDepartment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
